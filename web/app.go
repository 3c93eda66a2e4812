package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"yatube/internal/config"
	"yatube/internal/database"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger         *zap.Logger
	cfg            *config.Config
	templates      templateCache
	UserService    *database.UserService
	SessionService *database.SessionService
	GroupService   *database.GroupService
	PostService    *database.PostService
}

// NewApp wires the services over db and parses the page templates.
func NewApp(cfg *config.Config, logger *zap.Logger, db *database.Database) (*App, error) {
	templates, err := newTemplateCache()
	if err != nil {
		return nil, err
	}

	return &App{
		logger:         logger,
		cfg:            cfg,
		templates:      templates,
		UserService:    database.NewUserService(db),
		SessionService: database.NewSessionService(db, cfg.GetSessionTTL()),
		GroupService:   database.NewGroupService(db),
		PostService:    database.NewPostService(db),
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
// Expired sessions are swept in the background meanwhile.
func (app *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:     app.cfg.Server.Addr,
		ErrorLog: zap.NewStdLog(app.logger),
		Handler:  app.Routes(),

		IdleTimeout:  app.cfg.GetIdleTimeout(),
		ReadTimeout:  app.cfg.GetReadTimeout(),
		WriteTimeout: app.cfg.GetWriteTimeout(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		app.logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		app.sweepSessions(gctx, app.cfg.GetSweepInterval())
		return nil
	})

	return g.Wait()
}

func (app *App) sweepSessions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		app.cleanupSessions(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (app *App) cleanupSessions(ctx context.Context) {
	removed, err := app.SessionService.CleanupExpiredSessions(ctx)
	if err != nil {
		if ctx.Err() == nil {
			app.logger.Warn("failed to clean up expired sessions", zap.Error(err))
		}
		return
	}
	if removed > 0 {
		app.logger.Info("expired sessions removed", zap.Int64("count", removed))
	}
}
