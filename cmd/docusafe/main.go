package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/docusafe/docusafe/internal/cli"
	"github.com/docusafe/docusafe/internal/config"
	"github.com/docusafe/docusafe/internal/logging"
)

func main() {
	cfg := config.LoadConfig()
	log := logging.Setup(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "docusafe: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "docusafe: %v\n", err)
		os.Exit(1)
	}
}
