package api

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/michael-h-patrianna/plinko-sub002/internal/api/handlers"
	"github.com/michael-h-patrianna/plinko-sub002/internal/config"
	"github.com/michael-h-patrianna/plinko-sub002/internal/game"
	"github.com/michael-h-patrianna/plinko-sub002/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, mgr *game.Manager, hub *ws.Hub, cfg *config.Config) {
	// CORS middleware for the React development server
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, X-Provider-Key, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		v1.GET("/board/preview", handlers.BoardPreview)

		// Direct engine access: simulate or validate a precomputed payload.
		v1.POST("/trajectory", handlers.GenerateTrajectory(cfg))

		round := v1.Group("/round")
		{
			round.POST("", handlers.PlayRound(mgr))
			round.GET("/:token", handlers.GetRound(mgr))
			round.GET("/:token/ws", handlers.HandleRoundWebSocket(hub, mgr))
		}
	}
}
