package main

import (
	"log"

	"github.com/hackhub/auth-service/internal/app"
	"github.com/hackhub/auth-service/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Application terminated: %v", err)
	}
}
