package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"timekeeper-backend/config"
	"timekeeper-backend/internal/api"
	"timekeeper-backend/internal/clock"
	"timekeeper-backend/internal/core"
	"timekeeper-backend/internal/db"
	"timekeeper-backend/internal/gateway"
	"timekeeper-backend/internal/notification"
	"timekeeper-backend/internal/sound"
)

func main() {
	logger := log.New(os.Stdout, "timekeeperd ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gw := gateway.NewGormGateway(gormDB)
	catalog := sound.NewCatalog(cfg.Sound.FallbackID)
	player := sound.NewLogPlayer()

	// Push delivery is optional; without VAPID keys only the log notifier
	// runs.
	var notifier notification.Notifier = notification.LogNotifier{}
	var webpushOptions *webpush.Options
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
		pool.Start(ctx)
		notifier = notification.MultiNotifier{notification.LogNotifier{}, pool}
		logger.Println("web push notifications enabled")
	} else {
		logger.Println("VAPID keys not configured; web push notifications disabled")
	}

	ctrl := core.New(cfg, clock.NewSystemClock(), gw, catalog, player, notifier)
	ctrl.Load()
	ctrl.Recover()
	ctrl.Start()
	logger.Println("scheduling engine started")

	router := api.NewRouter(cfg, ctrl, catalog, gormDB, webpushOptions)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	// Record the teardown instant last; the next start reconciles against it.
	ctrl.Shutdown()

	logger.Println("Server gracefully stopped")
}
