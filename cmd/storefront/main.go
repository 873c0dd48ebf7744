package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tiendademo/storefront/internal/cli"
	"github.com/tiendademo/storefront/internal/pkg/config"
	"github.com/tiendademo/storefront/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "storefront",
	})
	log.Debug().Str("backend", cfg.Store.Backend).Str("env", cfg.Env).Msg("starting")

	code := cli.Run(ctx, os.Args[1:], os.Stdout, os.Stderr, cli.ConfigBuilder(cfg, log), log)
	stop()
	os.Exit(code)
}
