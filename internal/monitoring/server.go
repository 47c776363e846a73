package monitoring

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/vishnu6512/Guardian-Grid/pkg/utils"
)

// MonitoringServer exposes an ops-facing stats endpoint on its own port,
// kept off the public API surface. The frontend polls /api/stats.
type MonitoringServer struct {
	db        *pgxpool.Pool
	port      int
	alerts    []Alert
	alertsMux sync.RWMutex
	nextAlert int
}

type Alert struct {
	ID        int       `json:"id"`
	Severity  string    `json:"severity"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Resolved  bool      `json:"resolved"`
}

type SystemStats struct {
	DatabaseStatus    string  `json:"database_status"`
	ActiveConnections int     `json:"active_connections"`
	ResponseTime      int64   `json:"response_time_ms"`
	ActiveAlerts      int     `json:"active_alerts"`
	CPUPercent        float64 `json:"cpu_percent"`
	MemoryPercent     float64 `json:"memory_percent"`
	DiskPercent       float64 `json:"disk_percent"`
	DBSize            string  `json:"db_size"`
	Uptime            string  `json:"uptime"`
	MemoryUsed        string  `json:"memory_used"`
	MemoryTotal       string  `json:"memory_total"`
	DiskUsed          string  `json:"disk_used"`
	DiskTotal         string  `json:"disk_total"`
}

func NewMonitoringServer(db *pgxpool.Pool, port int) *MonitoringServer {
	return &MonitoringServer{
		db:     db,
		port:   port,
		alerts: make([]Alert, 0),
	}
}

func (ms *MonitoringServer) Start() {
	r := mux.NewRouter()

	r.HandleFunc("/api/stats", ms.getStats).Methods("GET")
	r.HandleFunc("/api/alerts", ms.getAlerts).Methods("GET")

	go ms.monitorHealth()

	addr := fmt.Sprintf(":%d", ms.port)
	log.Printf("Monitoring server running on %s", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}

func (ms *MonitoringServer) getStats(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, ms.collectStats())
}

func (ms *MonitoringServer) getAlerts(w http.ResponseWriter, r *http.Request) {
	ms.alertsMux.RLock()
	alerts := make([]Alert, len(ms.alerts))
	copy(alerts, ms.alerts)
	ms.alertsMux.RUnlock()
	utils.JSON(w, http.StatusOK, alerts)
}

func (ms *MonitoringServer) collectStats() SystemStats {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := ms.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	dbStatus := "healthy"
	if err != nil {
		dbStatus = "unhealthy"
	}

	var activeConns int
	ms.db.QueryRow(ctx, "SELECT count(*) FROM pg_stat_activity").Scan(&activeConns)

	var dbSizeBytes int64
	ms.db.QueryRow(ctx, "SELECT pg_database_size(current_database())").Scan(&dbSizeBytes)
	dbSize := fmt.Sprintf("%.2f GB", float64(dbSizeBytes)/(1024*1024*1024))

	var uptimeSec int
	ms.db.QueryRow(ctx, "SELECT EXTRACT(EPOCH FROM (NOW() - pg_postmaster_start_time()))::int").Scan(&uptimeSec)

	cpuPercents, _ := cpu.Percent(time.Second, false)
	cpuPercent := 0.0
	if len(cpuPercents) > 0 {
		cpuPercent = cpuPercents[0]
	}

	memStats, _ := mem.VirtualMemory()
	diskStats, _ := disk.Usage("/")

	stats := SystemStats{
		DatabaseStatus:    dbStatus,
		ActiveConnections: activeConns,
		ResponseTime:      responseTime,
		CPUPercent:        cpuPercent,
		DBSize:            dbSize,
		Uptime:            formatUptime(uptimeSec),
	}
	if memStats != nil {
		stats.MemoryPercent = memStats.UsedPercent
		stats.MemoryUsed = formatBytes(memStats.Used)
		stats.MemoryTotal = formatBytes(memStats.Total)
	}
	if diskStats != nil {
		stats.DiskPercent = diskStats.UsedPercent
		stats.DiskUsed = formatBytes(diskStats.Used)
		stats.DiskTotal = formatBytes(diskStats.Total)
	}

	ms.alertsMux.RLock()
	for _, alert := range ms.alerts {
		if !alert.Resolved {
			stats.ActiveAlerts++
		}
	}
	ms.alertsMux.RUnlock()

	return stats
}

// monitorHealth raises an alert when the database stops responding and
// resolves it on recovery
func (ms *MonitoringServer) monitorHealth() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	dbDown := false
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := ms.db.Ping(ctx)
		cancel()

		if err != nil && !dbDown {
			dbDown = true
			ms.addAlert("critical", "database", "Database is not responding")
		} else if err == nil && dbDown {
			dbDown = false
			ms.resolveAlerts("database")
		}
	}
}

func (ms *MonitoringServer) addAlert(severity, alertType, message string) {
	ms.alertsMux.Lock()
	defer ms.alertsMux.Unlock()
	ms.nextAlert++
	ms.alerts = append(ms.alerts, Alert{
		ID:        ms.nextAlert,
		Severity:  severity,
		Type:      alertType,
		Message:   message,
		Timestamp: time.Now(),
	})
}

func (ms *MonitoringServer) resolveAlerts(alertType string) {
	ms.alertsMux.Lock()
	defer ms.alertsMux.Unlock()
	for i := range ms.alerts {
		if ms.alerts[i].Type == alertType {
			ms.alerts[i].Resolved = true
		}
	}
}

func formatBytes(bytes uint64) string {
	gb := float64(bytes) / (1024 * 1024 * 1024)
	if gb < 1 {
		mb := float64(bytes) / (1024 * 1024)
		return fmt.Sprintf("%.1f MB", mb)
	}
	return fmt.Sprintf("%.1f GB", gb)
}

func formatUptime(seconds int) string {
	d := seconds / 86400
	h := (seconds % 86400) / 3600
	m := (seconds % 3600) / 60
	if d > 0 {
		return fmt.Sprintf("%dd %dh %dm", d, h, m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
