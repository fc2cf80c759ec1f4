// Package main provides the entry point for the extcheck CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/devboost-pro/extcheck/cmd/extcheck/cmd"
	exterrors "github.com/devboost-pro/extcheck/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()

	if err != nil {
		// A failing checklist has already been reported on stdout.
		if !errors.Is(err, cmd.ErrNotReady) {
			fmt.Fprint(os.Stderr, exterrors.FormatForCLI(err))
		}
		os.Exit(1)
	}
}
