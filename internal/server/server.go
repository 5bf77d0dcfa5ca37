package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/harari-inventory/apiserver/config"
	"github.com/harari-inventory/apiserver/internal/handlers"
	"github.com/harari-inventory/apiserver/internal/logger"
	"github.com/harari-inventory/apiserver/internal/metrics"
	"github.com/harari-inventory/apiserver/internal/mq"
	"github.com/harari-inventory/apiserver/internal/ratelimit"
	"github.com/harari-inventory/apiserver/internal/services"
	"github.com/harari-inventory/apiserver/internal/sheets"
	"github.com/harari-inventory/apiserver/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *logger.Logger
	closers    []func() error
}

// Deps are the collaborators a Server is assembled from.
type Deps struct {
	Client   *sheets.Client
	Sheets   store.Sheets
	Limiter  *ratelimit.Limiter
	Events   services.CountPublisher
	Registry *prometheus.Registry
	Log      *logger.Logger
}

// New connects the configured backends and assembles a Server.
func New(ctx context.Context, cfg config.Config, log *logger.Logger) (*Server, error) {
	names := store.SheetsFromConfig(cfg.Sheets)

	backend, closeStore, err := sheets.Open(ctx, cfg.Store, names.Names()...)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	closers := []func() error{closeStore}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	var rateStore ratelimit.Store = ratelimit.NewMemory()
	if cfg.Redis.URL != "" {
		redisStore, err := ratelimit.NewRedis(ctx, cfg.Redis)
		if err != nil {
			cleanup()
			return nil, err
		}
		closers = append(closers, redisStore.Close)
		rateStore = redisStore
	}

	broker, err := mq.Open(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, err
	}
	var events services.CountPublisher
	if broker != nil {
		closers = append(closers, broker.Close)
		events = mq.NewCountEvents(broker, cfg.Events.Topic)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := NewRouter(cfg, Deps{
		Client:   sheets.NewClient(backend, log),
		Sheets:   names,
		Limiter:  ratelimit.New(ratelimit.Policy{Name: "login", Window: cfg.Auth.LoginWindow, Limit: cfg.Auth.LoginLimit}, rateStore),
		Events:   events,
		Registry: registry,
		Log:      log,
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		log:        log,
		closers:    closers,
	}, nil
}

// NewRouter wires services and handlers onto a chi router.
func NewRouter(cfg config.Config, deps Deps) *chi.Mux {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	client := deps.Client

	authRepo := store.NewAuthRepository(client, deps.Sheets.Auth)
	inventoryRepo := store.NewInventoryRepository(client, deps.Sheets.Inventory)
	countRepo := store.NewCountRepository(client, deps.Sheets.Count)
	logRepo := store.NewLogRepository(client, deps.Sheets.Log)

	var countMetrics *metrics.CountMetrics
	var loginMetrics *metrics.LoginMetrics
	if deps.Registry != nil {
		countMetrics = metrics.NewCountMetrics(deps.Registry)
		loginMetrics = metrics.NewLoginMetrics(deps.Registry)
	}

	countOpts := []services.CountOption{
		services.WithLocation(cfg.Count.Location()),
		services.WithLogger(log),
		services.WithMetrics(countMetrics),
	}
	if deps.Events != nil {
		countOpts = append(countOpts, services.WithPublisher(deps.Events))
	}

	authService := services.NewAuthService(authRepo)
	inventoryService := services.NewInventoryService(inventoryRepo, countRepo)
	countService := services.NewCountService(inventoryRepo, countRepo, logRepo, client, countOpts...)
	snapshotService := services.NewSnapshotService(inventoryRepo, countRepo, logRepo)

	router := chi.NewRouter()
	router.Use(
		handlers.RequestID(log),
		middleware.RealIP,
		handlers.Recoverer(log),
		handlers.Logging(log),
		middleware.Timeout(60*time.Second),
		handlers.LoadUser(authService, log),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Get("/test-connection", handlers.TestConnection(client, log))
	if deps.Registry != nil {
		router.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, handlers.NewAuthHandler(authService, deps.Limiter, loginMetrics, log))
	})

	var guard func(http.Handler) http.Handler
	if cfg.Auth.InventoryAuthRequired {
		guard = handlers.RequireUser
	}
	router.Group(func(r chi.Router) {
		handlers.InventoryRouter(r, handlers.NewInventoryHandler(inventoryService, countService, snapshotService, log), guard)
	})

	return router
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until Shutdown.
func (s *Server) Start() error {
	s.log.Info(s.log.WithField(context.Background(), "addr", s.httpServer.Addr), "server.start")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then releases the backends.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	for i := len(s.closers) - 1; i >= 0; i-- {
		if closeErr := s.closers[i](); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}
