package cache

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vishnu6512/Guardian-Grid/internal/models"
)

const (
	dashboardStatsKey = "dashboard:stats"
	dashboardStatsTTL = 15 * time.Second
)

var client *redis.Client

// Init initializes the Redis connection. The cache is optional: every helper
// degrades to a no-op when the client is nil.
func Init() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client (nil when the cache is unavailable)
func GetClient() *redis.Client {
	return client
}

// GetDashboardStats returns the cached dashboard aggregate, or nil on miss
func GetDashboardStats(ctx context.Context) *models.DashboardStats {
	if client == nil {
		return nil
	}
	raw, err := client.Get(ctx, dashboardStatsKey).Bytes()
	if err != nil {
		return nil
	}
	var stats models.DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

// SetDashboardStats caches the dashboard aggregate for a short window
func SetDashboardStats(ctx context.Context, stats *models.DashboardStats) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	client.Set(ctx, dashboardStatsKey, raw, dashboardStatsTTL)
}

// InvalidateDashboardStats drops the cached aggregate after a mutation
func InvalidateDashboardStats(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, dashboardStatsKey)
}

// MarkOTPSent records a send so hot resends can be rejected without a
// database round trip
func MarkOTPSent(ctx context.Context, phone string, cooldown time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, otpCooldownKey(phone), 1, cooldown)
}

// OTPCooldownRemaining returns how long the phone must wait before the next
// send, or 0 when no cooldown is active (or the cache is down)
func OTPCooldownRemaining(ctx context.Context, phone string) time.Duration {
	if client == nil {
		return 0
	}
	ttl, err := client.TTL(ctx, otpCooldownKey(phone)).Result()
	if err != nil || ttl < 0 {
		return 0
	}
	return ttl
}

func otpCooldownKey(phone string) string {
	return "otp:cooldown:" + phone
}
