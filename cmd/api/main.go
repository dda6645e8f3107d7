package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"txunajob/internal/cache"
	"txunajob/internal/config"
	"txunajob/internal/database"
	"txunajob/internal/logging"
	"txunajob/internal/metrics"
	"txunajob/internal/modules/auth"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	store := database.Open(cfg.DatabaseURL, database.Options{ConnectTimeout: cfg.StoreTimeout}, log)
	defer func() { _ = store.Close() }()

	startupCtx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
	metrics.SetStoreAvailable(store.Available(startupCtx))
	cancel()

	var reportCache cache.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, log)
		defer func() { _ = redisCache.Close() }()
		reportCache = redisCache
	}

	a := newApp(cfg, log, store, reportCache)

	bootstrapCtx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
	outcome := a.auth.EnsureDefaultAdmin(bootstrapCtx, auth.AdminCredentials{
		Username: cfg.DefaultAdmin.Username,
		Email:    cfg.DefaultAdmin.Email,
		Password: cfg.DefaultAdmin.Password,
		Fallback: cfg.DefaultAdmin.Fallback,
	})
	cancel()
	log.WithField("outcome", outcome).Info("default admin bootstrap finished")

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           a.router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.HTTPAddr, "env": cfg.AppEnv, "demo_mode": cfg.DemoMode}).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}
}
