package main

import (
	"log"

	"sagrapp/backend/config"
	"sagrapp/backend/routes"
	"sagrapp/backend/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(cfg.LogMode)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		logger.Fatal("Error initializing database", "driver", cfg.DBDriver, "error", err)
	}
	if cfg.AutoMigrate {
		if err := utils.AutoMigrate(db); err != nil {
			logger.Fatal("Error migrating database", "error", err)
		}
	}

	app := routes.NewApp(cfg, logger)
	routes.SetupRoutes(app, db, cfg, logger)

	logger.Info("Starting server", "port", cfg.ServerPort, "streak_mode", cfg.StreakMode)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logger.Fatal("Server stopped", "error", err)
	}
}
