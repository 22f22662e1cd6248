package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-git/go-billy/v5/osfs"
	"go.uber.org/zap"

	"errpage-service/internal/app/middleware"
	"errpage-service/internal/config"
	"errpage-service/internal/errorpage"
	"errpage-service/internal/handler"
)

// App is the main application structure
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	mux    *http.ServeMux
	pages  *middleware.ErrorPages
	server *http.Server
}

// NewApp creates and configures the application
func NewApp(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	rules, err := cfg.ErrorPageRules()
	if err != nil {
		return nil, fmt.Errorf("failed to build error page rules: %w", err)
	}

	// Error pages are read from disk per request so edits apply without a restart
	root := osfs.New(cfg.App.WorkDir)
	resolver := errorpage.NewResolver(root, cfg.ErrorPageDirs(), rules)

	pages := middleware.NewErrorPages(middleware.ErrorPagesConfig{
		Resolver: resolver,
		Release:  cfg.App.IsRelease(),
		Logger:   log,
	})

	for _, rule := range resolver.Rules().All() {
		log.Debug("Error page rule",
			zap.Stringer("location", rule.Location),
			zap.String("file", resolver.Path(rule)),
			zap.Stringer("statuses", rule.Range),
		)
	}

	healthHandler := handler.NewHealthHandler(cfg.App.Name, cfg.App.Environment)

	// Setup HTTP router
	mux := http.NewServeMux()
	mux.Handle("GET /health", pages.Wrap(healthHandler.Check))
	mux.Handle("/health", pages.Wrap(handler.MethodNotAllowed(http.MethodGet, http.MethodHead)))
	mux.Handle("/", pages.Wrap(handler.NotFound))

	// Apply middleware chain: RequestID → Logging → Recovery
	var h http.Handler = mux
	h = middleware.Recovery(log, pages)(h)
	h = middleware.Logging(log)(h)
	h = middleware.RequestID()(h)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		cfg:    cfg,
		logger: log,
		mux:    mux,
		pages:  pages,
		server: server,
	}, nil
}

// Handle registers an error-returning handler; its errors are rendered as error pages.
func (a *App) Handle(pattern string, h middleware.HandlerFunc) {
	a.mux.Handle(pattern, a.pages.Wrap(h))
}

// Handler returns the fully wrapped HTTP handler.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run starts the application and blocks until SIGINT or SIGTERM
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.Serve(ctx)
}

// Serve listens until ctx is done, then shuts the server down gracefully.
func (a *App) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server",
			zap.String("address", a.server.Addr),
			zap.String("environment", a.cfg.App.Environment),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.logger.Error("HTTP server error", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	a.logger.Info("Server exited gracefully")
	return nil
}
