package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/serhii-ciq/defectdojo-mcp/internal/audit"
	"github.com/serhii-ciq/defectdojo-mcp/internal/config"
	"github.com/serhii-ciq/defectdojo-mcp/internal/dojo"
	"github.com/serhii-ciq/defectdojo-mcp/internal/server"
	"github.com/serhii-ciq/defectdojo-mcp/internal/tools"
	"github.com/serhii-ciq/defectdojo-mcp/pkg/mcp"
)

func main() {
	configPath := flag.String("config", "", "Path to optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	var auditStore *audit.Store
	if cfg.AuditDB != "" {
		auditStore, err = audit.Open(cfg.AuditDB)
		if err != nil {
			log.Fatal().Err(err).Msg("open audit store")
		}
		defer auditStore.Close()
	}

	client := dojo.NewClient(cfg, log)
	registry := tools.NewRegistry(client, log, auditStore)

	log.Info().
		Str("base_url", cfg.BaseURL).
		Int("tools", len(registry.Tools())).
		Bool("audit", auditStore != nil).
		Msg("starting")

	srv := server.New(mcp.NewTransport(os.Stdin, os.Stdout), registry, log)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
