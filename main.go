package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ReviveTech/revive-backend/config"
	"github.com/ReviveTech/revive-backend/handlers"
	"github.com/ReviveTech/revive-backend/internal/quota"
	"github.com/ReviveTech/revive-backend/internal/ratelimit"
	"github.com/ReviveTech/revive-backend/internal/token"
	"github.com/ReviveTech/revive-backend/logger"
	"github.com/ReviveTech/revive-backend/router"
	"github.com/ReviveTech/revive-backend/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() {
		_ = logger.Close()
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Abuse-mitigation state: constructed once here, owned for the process
	// lifetime, and handed to the pipeline by reference.
	limiter := ratelimit.NewLimiter(
		cfg.RateLimit.Burst,
		cfg.RateLimit.RefillTokens,
		time.Duration(cfg.RateLimit.RefillPeriodSeconds)*time.Second,
	)
	dailyQuota := quota.NewDailyQuota(cfg.Contact.DailyLimit)
	issuer := token.NewIssuer(
		cfg.Contact.TokenSecret,
		time.Duration(cfg.Contact.MinFillSeconds)*time.Second,
		time.Duration(cfg.Contact.MaxTokenAgeSeconds)*time.Second,
	)

	sender := services.NewEmailSender(&cfg.Email)
	contactService := services.NewContactService(cfg, issuer, dailyQuota, sender)

	contactHandler := handlers.NewContactHandler(contactService)
	healthHandler := handlers.NewHealthHandler(cfg.Server.Version)

	r := router.SetupRouter(router.Dependencies{
		Config:         cfg,
		ContactHandler: contactHandler,
		HealthHandler:  healthHandler,
		RateLimiter:    limiter,
		Logger:         log,
	})

	// Keep the limiter's key map bounded over long uptimes.
	janitorDone := make(chan struct{})
	go func() {
		pruneAfter := time.Duration(cfg.RateLimit.PruneAfterMinutes) * time.Minute
		ticker := time.NewTicker(pruneAfter)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				if n := limiter.PruneStale(now, pruneAfter); n > 0 {
					log.Debugw("Pruned idle rate-limit buckets", "count", n)
				}
			case <-janitorDone:
				return
			}
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	close(janitorDone)

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}
}
