package main

import (
	"log"
	"os"
	"path/filepath"

	"strike-bot/bot"
	"strike-bot/config"
	"strike-bot/handlers"
	"strike-bot/logger"
	"strike-bot/utils/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	if err := logger.Setup(&cfg.Logger); err != nil {
		log.Fatalf("Error initializing logging: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), os.ModePerm); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	db, err := database.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	b, err := bot.New(cfg, db)
	if err != nil {
		log.Fatalf("Error creating bot: %v", err)
	}

	handlers.Register(b)
	defer b.Close()

	b.Run()
}
