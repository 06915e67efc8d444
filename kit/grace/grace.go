// Package grace ties a context to the process shutdown signals.
package grace

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/vormadev/assetmanager/kit/colorlog"
)

func defaultSignals() []os.Signal {
	if runtime.GOOS == "windows" {
		return []os.Signal{os.Interrupt}
	}
	return []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}
}

type Options struct {
	Signals []os.Signal  // Default: SIGHUP, SIGINT, SIGTERM, SIGQUIT
	Logger  *slog.Logger // Default: os.Stdout
}

// NotifyContext returns a copy of parent that is cancelled when one of the
// signals arrives. Call stop to release the signal handler.
func NotifyContext(parent context.Context, options Options) (ctx context.Context, stop context.CancelFunc) {
	if options.Logger == nil {
		options.Logger = colorlog.New("grace")
	}
	if len(options.Signals) == 0 {
		options.Signals = defaultSignals()
	}

	ctx, cancel := context.WithCancel(parent)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, options.Signals...)

	go func() {
		select {
		case s := <-sig:
			options.Logger.Info("[shutdown] Signal received", "signal", s)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sig)
		cancel()
	}
}
