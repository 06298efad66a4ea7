// SPDX-License-Identifier: AGPL-3.0-only
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/migrateforce/demo-create-api-gateway/internal/agent"
	"github.com/migrateforce/demo-create-api-gateway/internal/config"
	"github.com/migrateforce/demo-create-api-gateway/internal/gateway"
	"github.com/migrateforce/demo-create-api-gateway/internal/logging"
	"github.com/migrateforce/demo-create-api-gateway/internal/model"
	"github.com/migrateforce/demo-create-api-gateway/internal/server"
	"github.com/migrateforce/demo-create-api-gateway/internal/store"
	"github.com/migrateforce/demo-create-api-gateway/internal/tools"
)

const (
	appName    = "gateway-assistant"
	appVersion = "0.2.0"
)

var (
	address         = flag.String("address", "", "The address to bind the server to")
	port            = flag.Int("port", 0, "The port to bind the server to")
	logLevel        = flag.String("log-level", "", "Logging level: debug, info, warn, error, fatal")
	logFormat       = flag.String("log-format", "", "Log format: json or console")
	version         = flag.Bool("version", false, "Show version information and exit")
	aiProvider      = flag.String("ai-provider", "", "AI provider: openai or anthropic (default: openai)")
	aiBaseURL       = flag.String("ai-base-url", "", "Custom base URL for OpenAI-compatible endpoints (e.g. Ollama, vLLM, Groq, LiteLLM)")
	aiModel         = flag.String("ai-model", "", "AI model to use (default: gpt-4o)")
	aiMaxIterations = flag.Int("ai-max-iterations", 0, "Maximum completion rounds per request (default: 2)")
	gatewayBaseURL  = flag.String("gateway-api-base-url", "", "Base URL of the resource-management API")
	dbPath          = flag.String("db-path", "", "Path to SQLite database for provisioning audit records (empty disables auditing)")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg := loadConfig()

	// Show version and exit if requested
	if *version {
		log.Printf("%s version %s", appName, appVersion)
		os.Exit(0)
	}

	logger, err := logging.Init(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}

	app, err := createApp(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create application")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.server.Start()
	}()
	logger.Info().Str("provider", cfg.AI.Provider).Str("model", cfg.AI.Model).Msg("gateway assistant started")

	waitForShutdown(app, serverErr)
}

// loadConfig loads configuration from environment and command line flags
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	applyCommandLineFlagsToConfig(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// applyCommandLineFlagsToConfig applies command line flags to the configuration
func applyCommandLineFlagsToConfig(cfg *config.Config) {
	if *address != "" {
		cfg.Server.Address = *address
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Logging.Format = *logFormat
	}
	if *aiProvider != "" {
		cfg.AI.Provider = *aiProvider
	}
	if *aiBaseURL != "" {
		cfg.AI.BaseURL = *aiBaseURL
	}
	if *aiModel != "" {
		cfg.AI.Model = *aiModel
	}
	if *aiMaxIterations > 0 {
		cfg.AI.MaxToolIterations = *aiMaxIterations
	}
	if *gatewayBaseURL != "" {
		cfg.Gateway.BaseURL = *gatewayBaseURL
	}
	if *dbPath != "" {
		cfg.Store.DBPath = *dbPath
	}
}

// Application holds the wired components of the running service.
type Application struct {
	server     *server.Server
	auditStore model.AuditStore
	logger     zerolog.Logger
}

// createApp wires the full pipeline: audit store, resource client, executor,
// tool catalog, assistant, HTTP server.
func createApp(cfg *config.Config, logger zerolog.Logger) (*Application, error) {
	var auditStore model.AuditStore
	if cfg.Store.DBPath != "" {
		s, err := store.NewSQLiteStore(cfg.Store.DBPath)
		if err != nil {
			return nil, fmt.Errorf("create audit store: %w", err)
		}
		auditStore = s
	}

	tokenSource, err := gatewayTokenSource(cfg)
	if err != nil {
		if auditStore != nil {
			_ = auditStore.Close()
		}
		return nil, err
	}

	client := gateway.NewClient(cfg.Gateway.BaseURL, tokenSource)
	executor := gateway.NewExecutor(client, auditStore, cfg.Gateway.RollbackOnFailure, logger)
	catalog := tools.NewCatalog(executor, logger)

	assistant, err := agent.NewAssistant(cfg, catalog, logger)
	if err != nil {
		if auditStore != nil {
			_ = auditStore.Close()
		}
		return nil, err
	}

	return &Application{
		server:     server.New(cfg, assistant, auditStore, logger),
		auditStore: auditStore,
		logger:     logger,
	}, nil
}

// gatewayTokenSource picks the credential source for the resource-management
// API: an explicit static token when configured, application-default
// credentials against the public endpoint, and none otherwise (local
// stand-ins).
func gatewayTokenSource(cfg *config.Config) (oauth2.TokenSource, error) {
	if cfg.Gateway.AccessToken != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Gateway.AccessToken}), nil
	}
	if strings.Contains(cfg.Gateway.BaseURL, "googleapis.com") {
		ts, err := google.DefaultTokenSource(context.Background(), "https://www.googleapis.com/auth/cloud-platform")
		if err != nil {
			return nil, fmt.Errorf("application-default credentials: %w", err)
		}
		return ts, nil
	}
	return nil, nil
}

// waitForShutdown waits for termination signals or server exit and performs cleanup
func waitForShutdown(app *Application, serverErr <-chan error) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-signalCh:
		app.logger.Info().Msg("received termination signal, shutting down")
	case err := <-serverErr:
		if err != nil {
			app.logger.Error().Err(err).Msg("HTTP server exited")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.server.Stop(shutdownCtx); err != nil {
		app.logger.Error().Err(err).Msg("error during shutdown")
	}
	if app.auditStore != nil {
		if err := app.auditStore.Close(); err != nil {
			app.logger.Error().Err(err).Msg("error closing audit store")
		}
	}
	app.logger.Info().Msg("shutdown completed")
}
