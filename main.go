package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardnew/ajson/cli"
	"github.com/ardnew/ajson/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.Run(ctx, os.Exit, os.Args[1:]...)

	stop()

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}
}
