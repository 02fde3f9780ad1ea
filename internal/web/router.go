package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

type RouterConfig struct {
	Server        *Server
	Redis         *redis.Client // nil when sessions are in memory
	APIBaseURL    string
	Env           string
	Version       string
	AuthRateRPS   float64
	AuthRateBurst int
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	s := cfg.Server

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.Redis, cfg.APIBaseURL, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Get("/", s.handleRoot)

	// Auth pages; the credential-taking POSTs are rate limited per IP.
	authLimit := NewRateLimiter(cfg.AuthRateRPS, cfg.AuthRateBurst)
	r.Get("/login", s.handleLoginPage)
	r.Get("/register", s.handleRegisterPage)
	r.Group(func(r chi.Router) {
		r.Use(authLimit.Middleware)
		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)
	})
	r.Post("/logout", s.handleLogout)

	// Patient pages
	r.Get("/patient/dashboard", s.handlePatientDashboard)
	r.Get("/patient/appointments", s.handlePatientAppointments)
	r.Get("/patient/book", s.handleBookPage)
	r.Post("/patient/book", s.handleBookSubmit)
	r.Post("/patient/book/back", s.handleBookBack)
	r.Post("/patient/book/confirm", s.handleBookConfirm)

	// Doctor pages
	r.Get("/doctor/dashboard", s.handleDoctorDashboard)
	r.Get("/doctor/appointments", s.handleDoctorAppointments)

	// Admin pages
	r.Get("/admin/dashboard", s.handleAdminDashboard)
	r.Get("/admin/users", s.handleAdminUsers)
	r.Get("/admin/appointments", s.handleAdminAppointments)

	// Cancellation flow shared by every role
	r.Get("/appointments/{id}/cancel", s.handleCancelConfirmPage)
	r.Post("/appointments/{id}/cancel", s.handleCancel)

	return r
}
