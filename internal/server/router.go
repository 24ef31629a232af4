package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/verba-app/verba-backend/internal/handlers"
	"github.com/verba-app/verba-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware    *middleware.AuthMiddleware
	SearchHandler     *handlers.SearchHandler
	ThreadHandler     *handlers.ThreadHandler
	VocabularyHandler *handlers.VocabularyHandler
	MetaHandler       *handlers.MetaHandler
	DiscoverHandler   *handlers.DiscoverHandler
	EventsHandler     *handlers.EventsHandler
	AllowOrigins      []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("verba-backend"))

	allowOrigins := cfg.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "Accept"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	api.GET("/models", cfg.MetaHandler.Models)
	api.GET("/providers", cfg.MetaHandler.Providers)
	api.GET("/discover", cfg.DiscoverHandler.Feed)

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Search
	protected.POST("/search", cfg.SearchHandler.Search)
	// Threads
	protected.GET("/threads", cfg.ThreadHandler.List)
	protected.GET("/threads/:id", cfg.ThreadHandler.Get)
	protected.DELETE("/threads/:id", cfg.ThreadHandler.Delete)
	// Vocabulary
	protected.POST("/vocabulary/generate", cfg.VocabularyHandler.Generate)
	protected.GET("/vocabulary", cfg.VocabularyHandler.List)
	// Cross-session activity
	protected.GET("/events", cfg.EventsHandler.Stream)

	return router
}
