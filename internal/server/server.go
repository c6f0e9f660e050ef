package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"event-booking-portal/internal/config"
	"event-booking-portal/internal/handlers"
	"event-booking-portal/internal/middleware"
	"event-booking-portal/internal/services"
	"event-booking-portal/internal/session"
)

// Dependencies are the collaborators the router dispatches to.
type Dependencies struct {
	Auth     services.AuthServiceInterface
	Events   services.EventDirectory
	Booking  services.BookingSubmitter
	Sessions session.Store

	CORSOrigins []string
	StaticDir   string
}

// NewRouter builds the user-service route table.
func NewRouter(deps Dependencies) http.Handler {
	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Sessions)
	pageHandler := handlers.NewPageHandler(deps.Events, deps.Booking)

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recover)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(deps.CORSOrigins))
	r.Use(middleware.LoadPrincipal(deps.Sessions))
	r.Use(middleware.Metrics)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.StripSlashes)

	r.NotFound(middleware.NotFound().ServeHTTP)
	r.MethodNotAllowed(middleware.MethodNotAllowed().ServeHTTP)

	// Static files
	if deps.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(deps.StaticDir))))
	}

	r.Get("/health", handlers.Health)
	r.Handle("/metrics", promhttp.Handler())

	// Public routes
	r.Get("/", authHandler.LoginPage)
	r.Post("/login", authHandler.LoginSubmit)
	r.Get("/register", authHandler.RegisterPage)
	r.Post("/register", authHandler.RegisterSubmit)
	r.Get("/logout", authHandler.Logout)

	// Diagnostic, no session required
	r.Get("/raw-events", pageHandler.RawEvents)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/home", pageHandler.Home)
		r.Get("/events", pageHandler.Events)
		r.Get("/book", pageHandler.BookPage)
		r.Post("/book", pageHandler.BookSubmit)
	})

	return r
}

// New wraps handler in an http.Server configured from cfg. The write timeout
// leaves room for the slowest downstream call.
func New(cfg *config.Config, handler http.Handler) *http.Server {
	slowest := cfg.Services.EventsTimeout
	if cfg.Services.BookingTimeout > slowest {
		slowest = cfg.Services.BookingTimeout
	}

	return &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      slowest + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
