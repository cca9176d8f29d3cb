package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ChrisWondeFro/vivintpy/internal/api"
	"github.com/ChrisWondeFro/vivintpy/internal/broker"
	"github.com/ChrisWondeFro/vivintpy/internal/capture"
	"github.com/ChrisWondeFro/vivintpy/internal/config"
	"github.com/ChrisWondeFro/vivintpy/internal/events"
	"github.com/ChrisWondeFro/vivintpy/internal/storage"
	"github.com/ChrisWondeFro/vivintpy/internal/stream"
	"github.com/ChrisWondeFro/vivintpy/internal/vivint"
)

func main() {
	// Command line flags
	var configFile string
	flag.StringVar(&configFile, "config", "config/vivint-bridge.yml", "Configuration file path")
	flag.Parse()

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// Load configuration
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional event-log database
	var store storage.Store
	if cfg.Database.DSN != "" {
		pg, err := storage.NewPostgresStore(&cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		if err := pg.InitSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database schema")
		}
		store = pg
		log.Info().Msg("Connected to database")
	} else {
		log.Info().Msg("Database not configured, event history disabled")
	}

	// Vendor account and object model
	client := vivint.NewClient(&cfg.Vendor)
	account := vivint.NewAccount(client)

	// Fan-out broker, internal bus, normalizer
	b := broker.New(cfg.Broker)
	bus := events.NewBus()
	normalizer := events.NewNormalizer(account, b, bus, eventRecorder(store))

	// Initial snapshot of systems and devices
	if err := account.Refresh(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to load account")
	}
	log.Info().Int("systems", len(account.Systems())).Msg("Account loaded")

	// WaitGroup for services
	var wg sync.WaitGroup

	// Upstream push stream
	pushStream, err := stream.New(&cfg.Stream)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure push stream")
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := pushStream.Start(ctx, normalizer.HandleRaw); err != nil {
			log.Error().Err(err).Msg("Push stream stopped")
		}
	}()

	// Doorbell capture
	if cfg.Capture.Enabled {
		manager := capture.NewManager(cfg.Capture, account, bus, normalizer, store)
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info().Str("media_root", cfg.Capture.MediaRoot).Msg("Starting capture manager")
			if err := manager.Start(ctx); err != nil {
				log.Error().Err(err).Msg("Capture manager stopped")
			}
		}()
	}

	// REST API server
	apiServer := api.NewRESTServer(cfg, account, b, store)
	wg.Add(1)
	go func() {
		defer wg.Done()
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		if err := apiServer.ListenAndServe(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("REST API server failed")
		}
	}()

	// Wait for signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received signal, shutting down")

	// Cancel context
	cancel()

	// Shutdown API server and subscriber sessions
	if err := apiServer.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown API server gracefully")
	}
	b.Shutdown()

	// Wait for all services
	wg.Wait()

	if store != nil {
		store.Close()
	}

	log.Info().Msg("Bridge stopped")
}

// eventRecorder keeps the normalizer's nil check meaningful when the
// database is disabled.
func eventRecorder(store storage.Store) events.Recorder {
	if store == nil {
		return nil
	}
	return store
}
