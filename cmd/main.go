package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		// an interrupt has already been reported by the exporter
		if !errors.Is(err, context.Canceled) {
			pterm.Error.Println(err)
		}
		os.Exit(1)
	}
}
