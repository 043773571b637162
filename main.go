package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/Waseeq-Zafar/Agri-Help-sub000/agentclient"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/api"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/catalog"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/config"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/dispatch"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/persist"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/policy"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/security"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/session"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/translate"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := newLogger(cfg.LogLevel)
	log.Info().
		Int("http_port", cfg.HTTPPort).
		Str("database", cfg.DatabaseURL).
		Str("backend", cfg.BackendURL).
		Msg("starting advisory dispatch service")

	// Initialize durable store
	db, err := persist.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}
	defer db.Close()

	// Rehydrate sessions from the last run. Agent refs come back from the
	// catalog so renamed agents pick up their current descriptions.
	sessions := session.NewStore()
	payloads, err := db.LoadAll(context.Background(), cfg.UserID)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load stored conversations")
	}
	for i := range payloads {
		if ref, ok := catalog.Lookup(payloads[i].AgentID); ok {
			payloads[i].AgentName = ref.Name
		}
	}
	sessions.Load(payloads)
	log.Info().Int("conversations", len(payloads)).Msg("sessions restored")

	// Debounced persistence observes every session mutation
	debouncer := persist.NewDebouncer(db, sessions.Snapshot, cfg.UserID, persist.Options{
		QuietWindow:  cfg.QuietWindow,
		SaveRetries:  cfg.SaveRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, log)
	sessions.SetObserver(debouncer.Notify)

	// Initialize policy engine
	ctx := context.Background()
	policyContent := policy.DefaultPolicy
	if cfg.PolicyPath != "" {
		raw, err := os.ReadFile(cfg.PolicyPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.PolicyPath).Msg("failed to read mode policy")
		}
		policyContent = string(raw)
	}
	policyEngine, err := policy.NewEngine(ctx, policyContent)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize policy engine")
	}

	// Initialize capability client and dispatch core
	backend := agentclient.NewClient(cfg.BackendURL, cfg.RequestTimeout, log)
	gate := security.NewGate()
	verifier := security.NewVerifier(cfg.VerifyURL, cfg.VerifySecret, log)
	toolMode := dispatch.NewToolModeFlag()
	router := dispatch.NewRouter(backend, sessions, gate, policyEngine, toolMode, cfg.DefaultLanguage, cfg.UserName, log)
	overlay := translate.NewOverlay(sessions, backend, log)

	// Initialize handler
	h := api.NewHandler(sessions, router, overlay, verifier, gate, toolMode, db, debouncer, cfg.UserID, cfg.DefaultLanguage, log)

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Register routes
	h.RegisterRoutes(e)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.HTTPPort).Msg("API started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown server gracefully")
	}

	// Flush pending snapshots before the store closes
	debouncer.FlushAll()
	debouncer.Close()

	log.Info().Msg("stopped")
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
