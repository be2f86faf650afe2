package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"userhub/internal/platform/config"
	"userhub/internal/platform/httpserver"
	"userhub/internal/platform/logger"
	"userhub/internal/platform/metrics"
	platformmongo "userhub/internal/platform/mongodb"
	"userhub/internal/token"
	httptransport "userhub/internal/transport/http"
	userservice "userhub/internal/user/service"
	"userhub/internal/user/store"
	"userhub/internal/user/store/memory"
	mongostore "userhub/internal/user/store/mongodb"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal services.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()

	if cfg.InsecureSecret() {
		log.Warn("JWT_SECRET is not set, signing tokens with the insecure default secret")
	}

	m := metrics.New()

	var (
		userStore store.Store
		health    httptransport.HealthFunc
	)
	if cfg.UseMongo() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		client, err := platformmongo.Connect(ctx, cfg)
		if err != nil {
			cancel()
			log.Error("mongodb connect failed", "error", err)
			os.Exit(1)
		}
		st, err := mongostore.New(ctx, client.Collection(cfg), mongostore.Config{
			IndexAttempts: cfg.MongoConnectAttempts,
			IndexBackoff:  cfg.MongoConnectBackoff,
		})
		cancel()
		if err != nil {
			log.Error("mongodb store init failed", "error", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = client.Close(shutdownCtx)
		}()
		userStore = st
		health = st.Health
		log.Info("using mongodb store", "database", cfg.MongoDatabase, "collection", cfg.MongoCollection)
	} else {
		userStore = memory.New()
		log.Info("using in-memory store")
	}

	users := userservice.New(userStore, userservice.WithLogger(log), userservice.WithMetrics(m))
	tokens := token.New(users, cfg.JWTSecret, cfg.JWTTTL, token.WithMetrics(m))

	router := httptransport.NewRouter(
		httptransport.NewUserHandler(users, log),
		httptransport.NewTokenHandler(tokens, log),
		health,
	)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting userhub", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
