package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/vefur-dev/quiz-web/internal/app"
	"github.com/vefur-dev/quiz-web/internal/config"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load("configs/.env"); err != nil {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	instance, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to build app: %v", err)
	}

	if err := instance.Run(ctx); err != nil {
		log.Fatalf("runtime error: %v", err)
	}
}
