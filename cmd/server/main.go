package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	polychat "github.com/night-shade/polychat"
	"github.com/night-shade/polychat/internal/config"
	"github.com/night-shade/polychat/internal/domain"
	"github.com/night-shade/polychat/internal/extract"
	"github.com/night-shade/polychat/internal/handler"
	"github.com/night-shade/polychat/internal/middleware"
	"github.com/night-shade/polychat/internal/provider"
	"github.com/night-shade/polychat/internal/registry"
	"github.com/night-shade/polychat/internal/repository"
	"github.com/night-shade/polychat/internal/service"
	"github.com/night-shade/polychat/internal/storage"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open database
	db, err := repository.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(polychat.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(db, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Attachment file storage
	files, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		slog.Error("failed to create file store", "error", err)
		os.Exit(1)
	}

	// Core services
	store := repository.NewStore(db)
	reg := registry.New()
	extractor := extract.New(config.ExtractionTimeout)
	selector := service.NewSelector(reg, cfg.ModelContinuity)
	normalizer := service.NewNormalizer(extractor, config.MaxInlineAttachmentBytes)

	// Provider dispatch
	mux := provider.NewMux()
	mux.Register(domain.ProviderGemini, provider.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiBaseURL))
	mux.Register(domain.ProviderGPT, provider.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL))
	mux.Register(domain.ProviderClaude, provider.NewClaudeClient(cfg.ClaudeAPIKey, cfg.ClaudeBaseURL))

	chatService := service.NewChatService(store, reg, selector, normalizer, mux)

	// Router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(
		middleware.Recover(),
		middleware.Logging(),
		middleware.RateLimit(config.RateLimitPerMinute),
		cors.New(cors.Config{
			AllowOrigins: cfg.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Content-Type"},
		}),
	)

	h := handler.New(handler.Deps{
		Store:    store,
		Files:    files,
		Registry: reg,
		Chat:     chatService,
	})
	h.Register(r)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		slog.Info("starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
	slog.Info("server stopped gracefully")
}
