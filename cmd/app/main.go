package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"stocksim/configs"
	"stocksim/internal/database"
	delivery "stocksim/internal/delivery/http"
	"stocksim/internal/infra"
	"stocksim/internal/repository"
	"stocksim/internal/service"
	"stocksim/internal/usecase"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg := configs.Load()

	// The quote provider is useless without a credential; refuse to start
	if cfg.Quote.APIKey == "" {
		log.Fatal("QUOTE_API_KEY not set")
	}

	ctx := context.Background()

	// Initialize database
	db, err := infra.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)

	// Initialize services
	quoteService := service.NewQuoteService(cfg.Quote.BaseURL, cfg.Quote.APIKey)
	accountService := usecase.NewAccountService(userRepo, cfg.Trading.StartingCash)
	brokerService := usecase.NewBrokerService(userRepo, ledgerRepo, quoteService)

	// Parse page templates
	templates, err := delivery.ParseTemplates()
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	// Initialize HTTP server
	e := echo.New()
	e.HideBanner = true

	webHandler := delivery.NewWebHandler(templates, accountService, brokerService)
	delivery.SetupRoutes(e, &delivery.RouterConfig{
		WebHandler: webHandler,
		DB:         db,
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Starting stocksim on %s (env=%s, starting cash=%.2f)",
		addr, cfg.Server.Env, cfg.Trading.StartingCash)

	// Run server in goroutine
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("[OK] Server exited gracefully")
}
