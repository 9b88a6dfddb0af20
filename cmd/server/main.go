package main

import (
	"log"

	"github.com/agrolease/agrolease-backend/internal/app"
	"github.com/agrolease/agrolease-backend/internal/app/config"
)

func main() {
	cfg := config.MustLoad()
	if err := app.Run(cfg); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
