package application

import (
	"context"
	"time"

	"github.com/MirrorChyan/dxvk-manager/internal/pkg/shutdown"
	"go.uber.org/zap"
)

type Adapter interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type App struct {
	logger          *zap.Logger
	adapters        []Adapter
	shutdownTimeout time.Duration
}

func New(logger *zap.Logger) *App {
	return &App{
		logger:          logger,
		shutdownTimeout: 5 * time.Second,
	}
}

func (a *App) AddAdapter(adapters ...Adapter) {
	a.adapters = append(a.adapters, adapters...)
}

func (a *App) WithShutdownTimeout(timeout time.Duration) {
	a.shutdownTimeout = timeout
}

// Run starts every adapter and blocks until a signal arrives, ctx is done or
// an adapter fails to start. The first start failure is returned.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startErr := make(chan error, len(a.adapters))
	for _, adapter := range a.adapters {
		go func(adapter Adapter) {
			if err := adapter.Start(ctx); err != nil {
				a.logger.Error("adapter start failed", zap.Error(err))
				startErr <- err
				cancel()
			}
		}(adapter)
	}

	shutdown.GracefulStop(ctx, func() {
		a.stop(context.WithoutCancel(ctx))
	})

	select {
	case err := <-startErr:
		return err
	default:
		return nil
	}
}

func (a *App) stop(ctx context.Context) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, a.shutdownTimeout)
	defer cancel()

	a.logger.Info("shutting down...")

	errCh := make(chan error, len(a.adapters))

	for _, adapter := range a.adapters {
		go func(adapter Adapter) {
			errCh <- adapter.Stop(ctxWithTimeout)
		}(adapter)
	}

	for i := 0; i < len(a.adapters); i++ {
		if err := <-errCh; err != nil {
			a.logger.Error("shutdown failed", zap.Error(err))
		}
	}

	a.logger.Info("graceful stopped")
}
