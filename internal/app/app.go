package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/mog-workshop/internal/adapter/llm"
	"github.com/heartmarshall/mog-workshop/internal/config"
	"github.com/heartmarshall/mog-workshop/internal/identity"
	"github.com/heartmarshall/mog-workshop/internal/service/generation"
	"github.com/heartmarshall/mog-workshop/internal/service/work"
	"github.com/heartmarshall/mog-workshop/internal/transport/middleware"
	"github.com/heartmarshall/mog-workshop/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, initializes
// the logger, wires the stores and services, and serves HTTP until ctx is
// cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("session_driver", cfg.Session.Driver),
		slog.String("generation_provider", cfg.Generation.Provider),
	)

	a, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Serve(ctx)
}

// App is the wired application: stores, services and the HTTP handler.
type App struct {
	cfg     *config.Config
	log     *slog.Logger
	handler http.Handler
	closers []func() error
}

// New wires every component from cfg. Missing store or generation
// credentials are not errors: those components fail closed per call.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: logger}

	docs, err := openDocStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, docs.Close)

	sessions, err := openSessionStore(cfg.Session)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, sessions.Close)

	model, err := llm.New(ctx, cfg.Generation)
	if err != nil {
		a.Close()
		return nil, err
	}
	if !cfg.Generation.Configured() {
		logger.Warn("generation not configured; drafts and consult will fail",
			slog.String("provider", cfg.Generation.Provider),
		)
	}

	ids := identity.NewGenerator(cfg.Identity.Prefix, cfg.Identity.SuffixLength)
	works := work.NewService(logger, docs, cfg.Store.Collection, cfg.Store.Timeout)
	gen := generation.NewService(logger, model, works, sessions, generation.Options{
		Timeout:             cfg.Generation.Timeout,
		HistoryMessageLimit: cfg.Session.HistoryMessageLimit,
		HistoryTokenLimit:   cfg.Session.HistoryTokenLimit,
	})

	limiter := middleware.NewRateLimiter(time.Minute)
	a.closers = append(a.closers, func() error { limiter.Stop(); return nil })

	handlers := rest.Handlers{
		Health: rest.NewHealthHandler(BuildVersion(),
			rest.Check{Name: "sessions", Pinger: sessions, Required: true},
			rest.Check{Name: "documents", Pinger: docs},
		),
		Identity: rest.NewIdentityHandler(identity.NewResolver(logger, ids), sessions, cfg.Identity, cfg.Session.CookieSecure, logger),
		Works:    rest.NewWorkHandler(works, logger),
		Drafts:   rest.NewDraftHandler(gen, cfg.Server.MaxUploadBytes, logger),
		Consult:  rest.NewConsultHandler(gen, logger),
	}

	api := middleware.Chain(
		middleware.Session(sessions, ids, cfg.Session, logger),
		middleware.Logger(logger),
	)
	router := rest.NewRouter(handlers, api, limiter.Limit(cfg.Generation.RatePerMinute))

	a.handler = middleware.Chain(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
	)(router)

	return a, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Close releases stores and background workers in reverse wiring order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
