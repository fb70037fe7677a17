package main

import (
	"context"
	"fmt"
	"log"

	"taskgate/core"
)

func main() {
	cfg := core.Load()
	ctx := context.Background()

	logCloser, err := core.SetupLogging(cfg, "api.log")
	if err != nil {
		log.Fatalf("failed to setup logging: %v", err)
	}
	defer logCloser.Close()

	db, err := core.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	if err := core.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	redisClient, err := core.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer redisClient.Close()

	secretStore := core.NewRedisSecretStore(redisClient)

	// The signing secret must exist before any request is served; token
	// operations fail closed without it.
	if err := core.ProvisionSigningSecret(ctx, secretStore, cfg); err != nil {
		log.Fatalf("failed to provision signing secret: %v", err)
	}
	secret, err := core.LoadSigningSecret(ctx, secretStore)
	if err != nil {
		log.Fatalf("failed to load signing secret: %v", err)
	}

	tokens := core.NewTokenService(secret, cfg.AccessTTL, cfg.RefreshTTL)
	userRepo := core.NewPgUserRepository(db)
	taskRepo := core.NewPgTaskRepository(db)
	authService := core.NewAuthService(userRepo, tokens)

	router := core.NewRouter(cfg, authService, tokens, taskRepo, userRepo)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("starting api server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
