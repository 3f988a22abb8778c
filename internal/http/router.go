package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/galmuri/galmuri/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// The browser extension calls the API cross-origin.
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, auth.HeaderAPIKey)
	if len(corsConfig.AllowOrigins) == 1 && corsConfig.AllowOrigins[0] == "*" {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	router.Use(cfg.AuthMiddleware.Handler())

	health := NewHealthController(cfg.Version)
	router.GET("/", health.Status)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	items := NewItemsController(cfg.Service)
	api := router.Group("/api")
	{
		api.POST("/capture", items.Capture)
		api.GET("/items/:user_id", items.ListItems)
		api.GET("/items/:user_id/unsynced", items.ListUnsynced)
		api.POST("/search", items.SearchItems)
		api.GET("/item/:id", items.GetItem)
		api.DELETE("/item/:id", items.DeleteItem)
		api.PUT("/item/:id/memo", items.UpdateMemo)
		api.POST("/item/:id/synced", items.MarkSynced)
	}

	return router
}
