package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pawhaven/docindex/api/handlers"
	"github.com/pawhaven/docindex/api/middleware"
)

// SetupRoutes wires all API routes onto the engine.
func SetupRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")

	docs := v1.Group("/documents")
	{
		docs.POST("/batch", h.Document.IngestBatch)
		docs.POST("/:id/reindex", h.Document.Reindex)
		docs.GET("/:id", h.Document.GetDocument)
	}

	folders := v1.Group("/folders")
	{
		folders.GET("/:folderId/documents", h.Document.ListByFolder)
	}
}
