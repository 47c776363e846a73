package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vishnu6512/Guardian-Grid/internal/handlers"
	"github.com/vishnu6512/Guardian-Grid/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	otpHandler *handlers.OTPHandler,
	requestHandler *handlers.RequestHandler,
	volunteerHandler *handlers.VolunteerHandler,
	matchingHandler *handlers.MatchingHandler,
	dashboardHandler *handlers.DashboardHandler,
	totpHandler *handlers.TOTPHandler,
	smsHandler *handlers.SMSHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	admin := authMiddleware.RequireRole("admin")

	// Public routes - Authentication
	r.HandleFunc("/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/login/totp", authHandler.LoginTOTP).Methods("POST")

	// Public routes - Assistance request intake (gated by OTP verification,
	// not by an account: affected individuals do not register)
	r.HandleFunc("/afi/request-otp", otpHandler.RequestOTP).Methods("POST")
	r.HandleFunc("/afi/verify-otp", otpHandler.VerifyOTP).Methods("POST")
	r.HandleFunc("/afi", requestHandler.Submit).Methods("POST")
	r.HandleFunc("/status/{id:[0-9]+}", requestHandler.Status).Methods("GET")

	// Public route - nearby emergency services for the tracking page
	r.HandleFunc("/nearby-emergency-services/{lat}/{lng}/{types}",
		matchingHandler.NearbyEmergencyServices).Methods("GET")

	// Admin routes - dashboard and coordination
	r.Handle("/dashboard-stats", admin(http.HandlerFunc(dashboardHandler.Stats))).Methods("GET")
	r.Handle("/approve-volunteer", admin(http.HandlerFunc(volunteerHandler.Approve))).Methods("POST")
	r.Handle("/reject-volunteer", admin(http.HandlerFunc(volunteerHandler.Reject))).Methods("POST")
	r.Handle("/assign-volunteer", admin(http.HandlerFunc(requestHandler.Assign))).Methods("POST")
	r.Handle("/decline-afi", admin(http.HandlerFunc(requestHandler.Decline))).Methods("POST")
	r.Handle("/nearby-volunteers/{afiId:[0-9]+}", admin(http.HandlerFunc(matchingHandler.NearbyVolunteers))).Methods("GET")
	r.Handle("/sms-logs", admin(http.HandlerFunc(smsHandler.ListLogs))).Methods("GET")

	// Volunteer routes - own status and assignments
	volunteerAPI := r.NewRoute().Subrouter()
	volunteerAPI.Use(authMiddleware.Authenticate)
	volunteerAPI.HandleFunc("/volunteer-status/{id:[0-9]+}", volunteerHandler.Status).Methods("GET")
	volunteerAPI.HandleFunc("/assigned-afis/{id:[0-9]+}", requestHandler.ListAssigned).Methods("GET")
	volunteerAPI.HandleFunc("/assigned-afis/{id:[0-9]+}", requestHandler.UpdateAssignment).Methods("PUT")

	// Admin 2FA enrollment
	r.Handle("/totp/setup", admin(http.HandlerFunc(totpHandler.Setup))).Methods("POST")
	r.Handle("/totp/enable", admin(http.HandlerFunc(totpHandler.Enable))).Methods("POST")
	r.Handle("/totp/disable", admin(http.HandlerFunc(totpHandler.Disable))).Methods("POST")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
