package main

import (
	"context"
	"fmt"
	"os"

	"finance/internal/app"
	"finance/internal/config"
	"finance/internal/database"
	"finance/internal/logger"
	"finance/internal/session"
)

// @title           Finance API
// @version         1.0
// @description     Finance is a stock trading simulator. Users register, look up quotes, and buy and sell shares with virtual cash.

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name session
// @description Session cookie issued by POST /login.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Drop sessions that expired while the server was down
	sessions := session.NewManager(dbManager.DB(), appConfig.SessionSecret, appConfig.SessionTTL, appConfig.IsProduction())
	purged, err := sessions.PurgeExpired(context.Background())
	if err != nil {
		return fmt.Errorf("failed to purge expired sessions: %w", err)
	}
	if purged > 0 {
		log.Infow("Purged expired sessions", "count", purged)
	}

	quotes, err := app.NewQuoteProvider(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create quote provider: %w", err)
	}

	router, err := app.NewRouter(app.Deps{
		Config: appConfig,
		DB:     dbManager.DB(),
		Pinger: dbManager,
		Quotes: quotes,
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	log.Infow("Starting finance server", "port", appConfig.Port, "quote_provider", quotes.Name(), "db_driver", appConfig.DBDriver)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
