package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"commerce-backend/internal/config"
	"commerce-backend/internal/health"
	"commerce-backend/internal/observability"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Server        *http.Server
	DB            *gorm.DB
	Redis         redis.UniversalClient
	Observability *observability.Runtime
	Readiness     *health.ProbeRunner

	ShutdownTimeout          time.Duration
	ShutdownHTTPDrainTimeout time.Duration

	stopBackground func()
}

func New(cfg *config.Config, logger *slog.Logger, server *http.Server, db *gorm.DB, redisClient redis.UniversalClient, runtime *observability.Runtime, readiness *health.ProbeRunner, stopBackground func()) *App {
	return &App{
		Config:                   cfg,
		Logger:                   logger,
		Server:                   server,
		DB:                       db,
		Redis:                    redisClient,
		Observability:            runtime,
		Readiness:                readiness,
		ShutdownTimeout:          cfg.ShutdownTimeout,
		ShutdownHTTPDrainTimeout: cfg.ShutdownHTTPDrainTimeout,
		stopBackground:           stopBackground,
	}
}

func (a *App) StopBackgroundTasks() {
	if a.stopBackground != nil {
		a.stopBackground()
	}
}

// Run serves HTTP until the context is cancelled or an interrupt arrives,
// then drains in stages: background tasks first, then in-flight requests,
// then observability pipelines and connections.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.Info("http server starting", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return a.shutdown()
	})
	return g.Wait()
}

func (a *App) shutdown() error {
	a.Logger.Info("shutting down")
	a.StopBackgroundTasks()

	ctx, cancel := context.WithTimeout(context.Background(), a.ShutdownTimeout)
	defer cancel()

	var errs []error

	drainCtx, drainCancel := context.WithTimeout(ctx, a.ShutdownHTTPDrainTimeout)
	if err := a.Server.Shutdown(drainCtx); err != nil {
		errs = append(errs, err)
	}
	drainCancel()

	if a.Observability != nil {
		if err := a.Observability.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	a.Logger.Info("shutdown complete")
	return nil
}
