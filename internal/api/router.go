package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ChaseRain/deckgen/internal/infra/logger"
	"github.com/ChaseRain/deckgen/internal/service/orchestrator"
	"github.com/ChaseRain/deckgen/internal/service/storage"
)

func NewRouter(orch *orchestrator.Orchestrator, store *storage.Service, log *logger.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))

	handler := NewHandler(orch, store, log)

	r.GET("/health", handler.Health)
	r.GET("/files/*filepath", handler.File)

	v1 := r.Group("/v1")
	{
		v1.POST("/decks", handler.GenerateDeck)
		v1.POST("/decks/export", handler.ExportDeck)
		v1.POST("/decks/layout", handler.LayoutDeck)
		v1.GET("/decks/:id", handler.GetDeck)
		v1.GET("/decks/:id/slides/:index/preview.svg", handler.PreviewSlide)
		v1.GET("/decks/:id/slides/:index/thumbnail.png", handler.Thumbnail)
	}

	return r
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log.Info("request started",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		c.Next()
		log.Info("request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}
