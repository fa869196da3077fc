package api

import (
	"github.com/gin-gonic/gin"

	"github.com/truegift/truegift-rag/internal/api/handler"
	"github.com/truegift/truegift-rag/internal/api/middleware"
	"github.com/truegift/truegift-rag/internal/config"
	"github.com/truegift/truegift-rag/internal/logger"
	"github.com/truegift/truegift-rag/internal/repository"
	"github.com/truegift/truegift-rag/internal/service"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	indexer *service.IndexerService,
	suggest *service.SuggestService,
	llm *service.LLMService,
	photoRepo *repository.PhotoRepository,
	cfg *config.Config,
	log *logger.Logger,
) *gin.Engine {
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	healthHandler := handler.NewHealthHandler()
	indexHandler := handler.NewIndexHandler(indexer, cfg.Backend.MaxPhotos)
	photoHandler := handler.NewPhotoHandler(photoRepo)
	suggestHandler := handler.NewSuggestHandler(suggest)
	chatHandler := handler.NewChatHandler(llm)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Indexing
		v1.POST("/index", indexHandler.IndexPhotos)

		// Indexed photo registry
		v1.GET("/photos", photoHandler.ListFoodPhotos)

		// Suggestions
		v1.GET("/suggest/prompts", suggestHandler.ListPrompts)
		v1.GET("/suggest/:user_id/:prompt_key", suggestHandler.Suggest)

		// Language model
		v1.GET("/llm/status", chatHandler.Status)
		v1.POST("/chat", chatHandler.Chat)
	}

	return r
}
