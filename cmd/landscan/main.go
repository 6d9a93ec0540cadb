package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-land-inspector/internal/cli"
	"go-land-inspector/internal/logger"
)

func main() {
	logger.SetLevel(os.Getenv("LOG_LEVEL"))
	logger.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewApp(os.Stdout).Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
