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

	"github.com/gin-gonic/gin"

	"github.com/minsukim/fishmarket-api/internal/config"
	"github.com/minsukim/fishmarket-api/internal/database"
	"github.com/minsukim/fishmarket-api/internal/localstore"
	"github.com/minsukim/fishmarket-api/internal/state"
	"github.com/minsukim/fishmarket-api/internal/trade"
	"github.com/minsukim/fishmarket-api/pkg/metrics"
	"github.com/minsukim/fishmarket-api/pkg/middleware"
)

// init configures the application logging based on environment settings.
// In development mode, it enables pretty printing with timestamps.
// Debug logging can be enabled via DEBUG environment variable.
func init() {
	if os.Getenv("ENV") != "production" {
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		zlog.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("DEBUG") == "true" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// main initializes and runs the trade ledger server with graceful
// shutdown support.
func main() {
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	db, err := database.NewDatabase(cfg.DBPath)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to initialize database")
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Wire the two gateways into the state manager and run the initial
	// three-way load before taking traffic.
	tradeStore := trade.NewStore(db)
	localStore := localstore.NewStore(cfg.DataDir)
	manager := state.NewManager(tradeStore, localStore, nil)
	manager.Load(context.Background())

	stateHandlers := state.NewGinHandlers(manager)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimit())

	setupRoutes(router, stateHandlers)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown setup
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("listen")
		}
	}()

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

// setupRoutes configures all API endpoints, grouped by the state slice
// they operate on: trades, cart, settings and the shop profile.
func setupRoutes(router *gin.Engine, h *state.GinHandlers) {
	v1 := router.Group("/api/v1")
	{
		trades := v1.Group("/trades")
		{
			trades.GET("", h.GetHistoryHandler())
			trades.POST("", h.CreateTradeHandler())
			trades.PUT("/:trade_id", h.UpdateTradeHandler())
			trades.DELETE("/:trade_id", h.DeleteTradeHandler())
			trades.GET("/:trade_id/receipt", h.ReceiptHandler())
		}

		cart := v1.Group("/cart")
		{
			cart.GET("", h.GetCartHandler())
			cart.PUT("", h.SetCartHandler())
			cart.DELETE("", h.ClearCartHandler())
			cart.GET("/total", h.CartTotalHandler())
			cart.POST("/items", h.AddCartItemHandler())
			cart.PATCH("/items/:item_id", h.UpdateCartItemHandler())
			cart.DELETE("/items/:item_id", h.RemoveCartItemHandler())
		}

		settings := v1.Group("/settings")
		{
			settings.GET("/favorites", h.GetFavoritesHandler())
			settings.PUT("/favorites", h.SetFavoritesHandler())
			settings.GET("/customers", h.GetCustomersHandler())
			settings.PUT("/customers", h.SetCustomersHandler())
		}

		v1.GET("/shop", h.GetShopInfoHandler())
		v1.PUT("/shop", h.UpdateShopInfoHandler())
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metrics.Handler())
}
