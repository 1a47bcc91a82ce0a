package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prompt-general/vectorpress/internal/api"
	"github.com/prompt-general/vectorpress/internal/auth"
	"github.com/prompt-general/vectorpress/internal/config"
	"github.com/prompt-general/vectorpress/internal/content"
	"github.com/prompt-general/vectorpress/internal/embedding"
	"github.com/prompt-general/vectorpress/internal/health"
	"github.com/prompt-general/vectorpress/internal/store"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	var (
		configFile  = flag.String("config", "config/config.yaml", "Configuration file path")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("vectorpress version %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := cfg.Logger()
	log.WithField("version", version).Info("starting vectorpress")

	st, err := store.Open(cfg.Store, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}
	defer st.Close()

	authSvc := auth.NewService(cfg.Auth)
	embedder := embedding.NewOpenAI(cfg.Embedding)
	svc := content.NewService(st, authSvc, embedder, log)

	checker := health.NewChecker()
	checker.Register(health.NewDatabaseCheck(st))

	gateway, err := api.NewGateway(cfg.Server, svc, checker.Handler(), log)
	if err != nil {
		log.WithError(err).Fatal("failed to build gateway")
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- gateway.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.WithError(err).Fatal("gateway failed")
		}
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := gateway.Stop(shutdownCtx); err != nil {
			log.WithError(err).Error("error during gateway shutdown")
		}
	}

	log.Info("vectorpress stopped")
}
