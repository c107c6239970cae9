package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// GracefulStop blocks until a termination signal arrives or ctx is done,
// then runs stop. A second signal while stopping terminates the process.
func GracefulStop(ctx context.Context, stop func()) {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(
		signalChan,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer signal.Stop(signalChan)

	select {
	case <-signalChan:
		zap.L().Info("os.Interrupt - shutting down...")
	case <-ctx.Done():
		zap.L().Info("context done - shutting down...")
	}

	go func() {
		if _, ok := <-signalChan; ok {
			zap.L().Fatal("os.Kill - terminating...")
		}
	}()

	stop()
}
