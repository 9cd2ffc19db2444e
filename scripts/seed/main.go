package main

import (
	"context"
	"log"

	"github.com/blaisecz/health-simulator/internal/config"
	"github.com/blaisecz/health-simulator/internal/seed"
)

func main() {
	cfg := config.Load()

	db, err := config.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(context.Background(), db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	log.Println("Seed completed!")
}
