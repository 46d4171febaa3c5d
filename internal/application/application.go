package application

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/csveda/internal/api"
	"github.com/eugenenazirov/csveda/internal/config"
	"github.com/eugenenazirov/csveda/internal/logging"
)

const megabyte = 1 << 20

// App encapsulates the application dependencies and HTTP server.
type App struct {
	logger *zap.Logger
	server *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}

	handler := api.NewHandler(cfg)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.Server.RequestLogging),
		api.WithRateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
		api.WithMaxBodyBytes(int64(cfg.Security.MaxUploadSizeMB)*megabyte),
	)

	logger.Info("configuration loaded", logging.ConfigFields(cfg)...)

	return &App{
		logger: logger,
		server: NewServer(cfg, BuildRootHandler(apiRouter)),
	}, nil
}

// BuildRootHandler mounts the API under /api/ and answers everything else with 404.
func BuildRootHandler(apiHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/", http.NotFoundHandler())
	return mux
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg *config.Config, handler http.Handler) *http.Server {
	addr := cfg.Server.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
