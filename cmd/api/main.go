package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"flowplayer-api/core"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := core.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	ctx := context.Background()

	logCloser, err := core.SetupLogging(cfg, "api.log")
	if err != nil {
		log.Fatalf("failed to setup logging: %v", err)
	}
	defer logCloser.Close()

	if err := core.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	db, err := core.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	tokens := core.NewTokenIssuer([]byte(cfg.SecretKey), cfg.TokenTTL)
	authService := core.NewAuthService(core.NewPgUserRepository(db), tokens)
	mixService := core.NewMixService(core.NewPgMixRepository(db))

	router := core.NewRouter(cfg, authService, mixService)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("starting api server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
