package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/ksred/revenue-api/internal/auth"
	"github.com/ksred/revenue-api/internal/revenue"
	"github.com/ksred/revenue-api/internal/scenario"
	"github.com/ksred/revenue-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

const jwtSecret = "revenue-secret-key"

// init configures the application logging based on environment settings
// In development mode, it enables pretty printing with timestamps
// Debug logging can be enabled via DEBUG environment variable
func init() {
	// Configure pretty logging for development
	if os.Getenv("ENV") != "production" {
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		zlog.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	// Set global log level
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("DEBUG") == "true" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// main initializes and runs the revenue projection API server with graceful
// shutdown support. All state is in memory: the scenario workspace seeds
// itself from the presets and the engine itself holds nothing between calls.
func main() {
	// Initialize router
	router := gin.Default()

	// Initialize services and handlers
	authService := auth.NewService(jwtSecret)
	authHandlers := auth.NewGinHandlers(authService)
	// Register test credentials
	authService.RegisterAPICredentials(auth.TestAPIKey, auth.TestAPISecret)

	workspace := scenario.NewWorkspace()
	scenarioHandlers := scenario.NewGinHandlers(workspace)

	revenueService := revenue.NewService(workspace)
	revenueHandlers := revenue.NewGinHandlers(revenueService)

	// Setup middleware
	router.Use(middleware.RateLimit())

	// Setup API routes
	setupRoutes(router, authHandlers, scenarioHandlers, revenueHandlers)

	// Get port from env otherwise it's 8080
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Create server
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Graceful shutdown setup
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info().Msg("Shutting down server...")

	// Give outstanding operations 5 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	zlog.Info().Msg("Server exiting")
}

// setupRoutes configures all API endpoints and their handlers
// It groups routes by functionality and applies appropriate middleware:
// - Auth routes: Public endpoints for authentication
// - Scenario routes: Parameter workspace, protected by JWT authentication
// - Revenue routes: Projection calculations, protected by JWT authentication
// Parameters:
//   - router: The main Gin router instance
//   - authHandlers: Handlers for authentication endpoints
//   - scenarioHandlers: Handlers for scenario parameter management
//   - revenueHandlers: Handlers for revenue projections and forecasts
func setupRoutes(
	router *gin.Engine,
	authHandlers *auth.GinHandlers,
	scenarioHandlers *scenario.GinHandlers,
	revenueHandlers *revenue.GinHandlers,
) {
	v1 := router.Group("/api/v1")
	{
		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/token", authHandlers.GenerateTokenHandler())
		}

		// Scenario parameter routes
		scenarios := v1.Group("/scenarios")
		scenarios.Use(middleware.JWTAuth(jwtSecret))
		{
			scenarios.GET("", scenarioHandlers.ListScenariosHandler())
			scenarios.GET("/compare", revenueHandlers.CompareScenariosHandler())
			scenarios.GET("/:name/defaults", scenarioHandlers.GetDefaultsHandler())
			scenarios.GET("/:name/params", scenarioHandlers.GetParamsHandler())
			scenarios.PUT("/:name/params", scenarioHandlers.UpdateParamsHandler())
			scenarios.POST("/:name/reset", scenarioHandlers.ResetParamsHandler())
			scenarios.GET("/:name/revenue", revenueHandlers.CalculateScenarioHandler())
			scenarios.GET("/:name/forecast", revenueHandlers.ForecastScenarioHandler())
		}

		// Ad-hoc projection routes
		rev := v1.Group("/revenue")
		rev.Use(middleware.JWTAuth(jwtSecret))
		{
			rev.POST("/calculate", revenueHandlers.CalculateParamsHandler())
		}
	}
}
