package main

import (
	"civiceye/backend/internal/api/handler"
	"civiceye/backend/internal/auth"
	"civiceye/backend/internal/complaint"
	"civiceye/backend/internal/config"
	"civiceye/backend/internal/localization"
	"civiceye/backend/internal/proof"
	"civiceye/backend/internal/storage"
	"civiceye/backend/internal/telegram"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
)

func setupStorage(ctx context.Context, cfg *config.Config) (storage.Storage, func() error) {
	// Основне сховище (PostgreSQL, SQLite або MongoDB) і, якщо задано REDIS_ADDR, кеш користувачів
	s, closeStore, err := storage.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	if cfg.RedisAddr == "" {
		log.Println("Redis not configured, user lookups go straight to the store.")
	} else {
		log.Println("Store and Redis connections established.")
	}
	return s, closeStore
}

func main() {
	configFile := pflag.String("config", "", "path to a YAML config file")
	addr := pflag.String("addr", "", "listen address (overrides PORT)")
	pflag.Parse()

	log.Println("Starting CivicEye Backend...")

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	// 1. Ініціалізація залежностей
	s, closeStore := setupStorage(ctx, cfg)
	defer func() {
		if err := closeStore(); err != nil {
			log.Printf("ERROR: Failed to close store: %v", err)
		}
	}()

	if err := os.MkdirAll(cfg.ProofDir, 0o755); err != nil {
		log.Printf("ERROR: Failed to create proof directory %s: %v", cfg.ProofDir, err)
		return
	}
	svc := complaint.NewService(s,
		proof.NewStore(cfg.ProofDir, cfg.MaxProofBytes),
		proof.NewResolver(cfg.PublicHost),
	)

	// 2. Telegram-сповіщення для адміністраторів
	if cfg.TelegramBotToken != "" {
		loc, err := localization.NewDefaultLocalizer()
		if err != nil {
			log.Printf("ERROR: Failed to load locales: %v", err)
			return
		}
		notifier, err := telegram.NewNotifier(cfg.TelegramBotToken, cfg.TelegramChatID, loc, cfg.NotifyLanguage)
		if err != nil {
			log.Printf("WARNING: Telegram notifications disabled: %v", err)
		} else {
			svc.Notifier = notifier
		}
	}

	// 3. Налаштування Gin та роутингу
	h := handler.NewHandler(svc, s)
	if cfg.EnforceOwnership {
		h.Tokens = auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
		log.Println("Ownership of /complaint/mine is enforced with Bearer tokens.")
	}
	r := handler.NewRouter(h, handler.RouterConfig{
		ProofDir:    cfg.ProofDir,
		CORSOrigins: cfg.CORSOrigins,
	})

	listen := ":" + cfg.Port
	if *addr != "" {
		listen = *addr
	}
	server := &http.Server{
		Addr:           listen,
		Handler:        r,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", listen)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		log.Printf("ERROR: HTTP server failed: %v", err)
		return
	case <-stop:
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Graceful shutdown failed: %v", err)
	}
}
