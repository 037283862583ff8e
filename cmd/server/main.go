package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"socialite/internal/auth"
	"socialite/internal/config"
	"socialite/internal/database"
	"socialite/internal/handlers"
	"socialite/internal/media"
	"socialite/internal/middleware"
	"socialite/internal/scheduler"
	"socialite/internal/utils"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresDB(cfg.Database.URI)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close(context.Background())

	if err := db.InitializeTables(ctx); err != nil {
		slog.Error("failed to initialize database tables", "error", err)
		os.Exit(1)
	}

	denylist := auth.NewRedisDenylist(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	queue := scheduler.NewRedisQueue(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	authenticator := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, denylist)
	mediaStore := media.NewStore(cfg.Uploads.Dir, cfg.Uploads.MaxFileSize)
	metrics := utils.NewMetricsCollector()

	server := handlers.NewServer(db, authenticator, mediaStore, queue, metrics, cfg.Uploads.MaxFileSize)

	worker := scheduler.NewWorker(queue, db, cfg.PublishInterval)
	go worker.Run(ctx)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.Router(middleware.DefaultCORSConfig(cfg.AllowedOrigins)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
}
