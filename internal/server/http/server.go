// Package http serves the JSON API: auth, vessels, e-mail notifications,
// health and the vessel event stream.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/shipagency/internal/logging"
	"github.com/dmitrijs2005/shipagency/internal/models"
	"github.com/dmitrijs2005/shipagency/internal/server/config"
	"github.com/dmitrijs2005/shipagency/internal/server/events"
	"github.com/dmitrijs2005/shipagency/internal/server/metrics"
	"github.com/dmitrijs2005/shipagency/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/shipagency/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const shutdownTimeout = 10 * time.Second

// Deps are the collaborators behind the handlers. Hub may be nil, which
// disables the event stream route.
type Deps struct {
	Users         *services.UserService
	Vessels       *services.VesselService
	Notifications *services.NotificationService
	Repos         repomanager.RepositoryManager
	Hub           *events.Hub
}

type Server struct {
	address     string
	deps        Deps
	limiter     *RateLimiter
	origins     []string
	trustProxy  bool
	development bool
	logger      logging.Logger
}

func NewServer(cfg *config.Config, d Deps, l logging.Logger) *Server {
	logger := l.With("module", "http_server")
	return &Server{
		address:     cfg.HTTPAddr,
		deps:        d,
		limiter:     NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, logger),
		origins:     cfg.CORSAllowedOrigins,
		trustProxy:  cfg.TrustProxy,
		development: cfg.IsDevelopment(),
		logger:      logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	// forwarded headers are client-controlled unless a proxy rewrites them
	if s.trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(s.recoverer)
	r.Use(s.accessLog)
	r.Use(instrument)
	r.Use(securityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Auth-Token"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, messageResponse{Message: "Ship Agency API is running"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(s.limiter.Handler)

		r.Get("/health", s.handleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.With(s.authenticate(false)).Get("/me", s.handleMe)
			r.With(s.authenticate(false), requireRole(models.RoleAdmin)).Delete("/users/cleanup", s.handleCleanup)
		})

		r.Route("/vessels", func(r chi.Router) {
			if s.deps.Hub != nil {
				r.With(s.authenticate(true)).Get("/events", s.handleEvents)
			}

			r.Group(func(r chi.Router) {
				r.Use(s.authenticate(false))
				r.Get("/", s.handleListVessels)
				r.Post("/", s.handleCreateVessel)
				r.Get("/{id}", s.handleGetVessel)
				r.Put("/{id}", s.handleUpdateVessel)
				r.Delete("/{id}", s.handleDeleteVessel)
			})
		})

		r.Route("/email", func(r chi.Router) {
			r.Use(s.authenticate(false))
			r.Post("/send-service-notification", s.handleSendServiceNotification)
			r.Post("/send-custom-notification", s.handleSendCustomNotification)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	stopLimiter := make(chan struct{})
	defer close(stopLimiter)
	go s.limiter.Run(stopLimiter)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if s.deps.Hub != nil {
			s.deps.Hub.Close()
		}
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-stopped
	return nil
}
