package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gearbox-ai/gearbox/internal/config"
	"github.com/gearbox-ai/gearbox/internal/demo"
	"github.com/gearbox-ai/gearbox/internal/server"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	serve := flag.Bool("serve", false, "run the HTTP server instead of the demo")
	noTools := flag.Bool("no-tools", false, "demo mode: bare model invocation, no tools registered")
	flag.Parse()

	// .env is optional; real environment variables win either way
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serve {
		srv, err := server.New(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create server")
		}
		if err := srv.Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
		return
	}

	runner := demo.NewRunner(cfg, os.Stdout, *noTools)
	if err := runner.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("demo error")
	}
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
