package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "stocksim/internal/middleware"
)

// Pinger reports database liveness for the health endpoint
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	WebHandler *WebHandler
	DB         Pinger
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	// Middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(NoCache)

	// Every error path, including 404s and panics, renders the apology page
	e.HTTPErrorHandler = config.WebHandler.HTTPErrorHandler

	// Health check
	e.GET("/health", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		dbStatus := "healthy"
		if err := config.DB.Ping(ctx); err != nil {
			dbStatus = "unhealthy"
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"service":   "stocksim",
			"database":  dbStatus,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	h := config.WebHandler

	// Public routes
	e.GET("/login", h.HandleLogin)
	e.POST("/login", h.HandleLoginPost)
	e.GET("/logout", h.HandleLogout)
	e.GET("/register", h.HandleRegister)
	e.POST("/register", h.HandleRegisterPost)

	// Protected routes
	e.GET("/", h.HandleIndex, custommiddleware.AuthMiddleware)
	e.GET("/quote", h.HandleQuote, custommiddleware.AuthMiddleware)
	e.POST("/quote", h.HandleQuotePost, custommiddleware.AuthMiddleware)
	e.GET("/buy", h.HandleBuy, custommiddleware.AuthMiddleware)
	e.POST("/buy", h.HandleBuyPost, custommiddleware.AuthMiddleware)
	e.GET("/sell", h.HandleSell, custommiddleware.AuthMiddleware)
	e.POST("/sell", h.HandleSellPost, custommiddleware.AuthMiddleware)
	e.GET("/history", h.HandleHistory, custommiddleware.AuthMiddleware)
}
