package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/verba-app/verba-backend/internal/db"
	"github.com/verba-app/verba-backend/internal/handlers"
	"github.com/verba-app/verba-backend/internal/llm"
	"github.com/verba-app/verba-backend/internal/logger"
	"github.com/verba-app/verba-backend/internal/middleware"
	"github.com/verba-app/verba-backend/internal/observability"
	"github.com/verba-app/verba-backend/internal/repos"
	"github.com/verba-app/verba-backend/internal/search"
	"github.com/verba-app/verba-backend/internal/server"
	"github.com/verba-app/verba-backend/internal/services"
	"github.com/verba-app/verba-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Tracing
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "verba-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if otelShutdown != nil {
		defer otelShutdown(ctx)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	threadRepo := repos.NewThreadRepo(thePG, log)
	threadItemRepo := repos.NewThreadItemRepo(thePG, log)
	vocabularyRepo := repos.NewVocabularyRepo(thePG, log)

	// Search backends
	log.Info("Setting up search backends from main...")
	braveBackend, err := search.NewBraveBackend(log)
	if err != nil {
		log.Error("Could not init Brave search", "error", err)
		os.Exit(1)
	}
	searxngBackend := search.NewSearXNGBackend(log)
	exaBackend, err := search.NewExaBackend(log)
	if err != nil {
		log.Warn("Exa search unavailable", "error", err)
	}
	searchService := search.NewCompositeService(log, braveBackend, searxngBackend, exaBackend)

	// LLM
	llmClient, err := llm.NewGeminiClient(log)
	if err != nil {
		log.Error("Could not init Gemini client", "error", err)
		os.Exit(1)
	}

	// Notifier
	notifier, err := services.NewRedisNotifier(ctx, log)
	if err != nil {
		log.Warn("Redis unavailable, cross-session notifications disabled", "error", err)
		notifier = services.NewNoopNotifier()
	}
	defer notifier.Close()

	// Services
	log.Info("Setting up services from main...")
	threadService := services.NewThreadService(log, threadRepo, threadItemRepo)
	vocabularyService := services.NewVocabularyService(log, vocabularyRepo, llmClient)
	discoverService := services.NewDiscoverService(log, searchService)
	pipeline := services.NewSearchPipeline(log, threadService, searchService, llmClient, notifier)

	// Handlers
	log.Info("Setting up handlers from main...")
	searchHandler := handlers.NewSearchHandler(log, pipeline)
	threadHandler := handlers.NewThreadHandler(threadService)
	vocabularyHandler := handlers.NewVocabularyHandler(vocabularyService)
	metaHandler := handlers.NewMetaHandler(searchService)
	discoverHandler := handlers.NewDiscoverHandler(discoverService)
	eventsHandler := handlers.NewEventsHandler(log, notifier)

	// Middleware
	authMiddleware, err := middleware.NewAuthMiddleware(log)
	if err != nil {
		log.Error("Could not init auth middleware", "error", err)
		os.Exit(1)
	}

	// Router
	log.Info("Setting up router from main...")
	var allowOrigins []string
	if raw := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowOrigins = append(allowOrigins, origin)
			}
		}
	}
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:    authMiddleware,
		SearchHandler:     searchHandler,
		ThreadHandler:     threadHandler,
		VocabularyHandler: vocabularyHandler,
		MetaHandler:       metaHandler,
		DiscoverHandler:   discoverHandler,
		EventsHandler:     eventsHandler,
		AllowOrigins:      allowOrigins,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
