// main.go - The entry point and router setup.

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/snapspend/expense_ai_service/configs"
	"github.com/snapspend/expense_ai_service/internal/ai"
	"github.com/snapspend/expense_ai_service/internal/api"
	"github.com/snapspend/expense_ai_service/internal/expense"
	"github.com/snapspend/expense_ai_service/internal/logger"
	"github.com/snapspend/expense_ai_service/internal/middleware"
	"github.com/snapspend/expense_ai_service/internal/ratelimit"
	"github.com/snapspend/expense_ai_service/internal/storage"
	"github.com/snapspend/expense_ai_service/internal/tips"
)

func main() {
	// Step 0: Load configuration from environment variables
	configs.LoadConfig()

	logger.Init(configs.APP_ENV)
	defer logger.Sync()
	log := logger.Get()

	if configs.APP_ENV == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ratelimit.Configure(configs.AI_RATE_LIMIT_RPM)

	// Step 1: Create the AI provider (nil when no key is configured - the
	// process still serves requests on local fallbacks)
	provider, err := ai.CreateProvider()
	if err != nil {
		log.Fatalw("failed to create AI provider", "error", err)
	}

	// Step 2: Wire the services
	aiTimeout := time.Duration(configs.AI_TIMEOUT_SECONDS) * time.Second
	extractionCache := storage.NewCache[expense.Data](
		configs.CACHE_MAX_ENTRIES,
		time.Duration(configs.CACHE_TTL_MINUTES)*time.Minute,
	)
	extractor := expense.NewExtractor(provider, extractionCache, aiTimeout)
	generator := tips.NewGenerator(provider, aiTimeout)
	handler := api.NewHandler(provider, extractor, generator)

	// Step 3: Initialize the Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())

	// CORS middleware - configure allowed origins for production
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", configs.ALLOWED_ORIGINS)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Root endpoint for SSL verification
	router.GET("/", func(c *gin.Context) {
		c.String(200, "ok")
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "ok",
			"service":    "expense-ai-service",
			"version":    "1.0.0",
			"ai_enabled": provider != nil,
		})
	})

	// Step 4: Define the API routes
	router.POST("/process-receipt", handler.ProcessReceipt)
	router.POST("/generate-tips", handler.GenerateTips)

	// Step 5: Setup HTTP server with timeouts
	srv := &http.Server{
		Addr:           ":" + configs.PORT,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   time.Minute, // headroom for AI processing
		MaxHeaderBytes: 1 << 20,
	}

	// Start server in a goroutine
	go func() {
		log.Infow("starting server", "port", configs.PORT)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("failed to start server", "error", err)
		}
	}()

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Infow("server exited")
}
