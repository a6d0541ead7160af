// Package utils holds small process-lifecycle helpers shared by the agent
// and the CLI.
package utils

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spechtlabs/go-otel-utils/otelzap"
	"go.uber.org/zap"
)

// InterruptHandler cancels the given context cause when the process receives
// SIGINT, SIGTERM or SIGQUIT, so the enforcement loop and the status server
// shut down gracefully.
func InterruptHandler(ctx context.Context, cancelCtx context.CancelCauseFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		defer signal.Stop(sigs)

		select {
		case <-ctx.Done():
			return

		case sig := <-sigs:
			switch sig {
			case syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT:
				otelzap.L().Debug("Received shutdown signal, initiating graceful shutdown...",
					zap.String("signal", sig.String()))
				cancelCtx(context.Canceled)
			default:
				otelzap.L().WarnContext(ctx, "Received unknown signal", zap.String("signal", sig.String()))
			}
		}
	}()
}
