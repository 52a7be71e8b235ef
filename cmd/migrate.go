package main

import (
	"github.com/bellapacxx/bingo-caller/config"
	"github.com/bellapacxx/bingo-caller/utils/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("[FATAL] config: %v", err)
	}
	if _, err := config.SetupDatabase(cfg.DatabaseURL); err != nil {
		logger.Fatalf("[FATAL] %v", err)
	}
	logger.Infof("✅ Database migration completed successfully")
}
