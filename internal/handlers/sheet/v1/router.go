package v1

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Register mounts the API routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	api.GET("/catalogs", h.ListCatalogs)
	api.POST("/render", h.RenderRecord)

	drafts := api.Group("/drafts")
	drafts.POST("", h.CreateDraft)
	drafts.GET("/:id", h.GetDraft)
	drafts.PATCH("/:id", h.UpdateDraft)
	drafts.DELETE("/:id", h.DeleteDraft)
	drafts.GET("/:id/record", h.GetRecord)
	drafts.GET("/:id/preview", h.PreviewDraft)
	drafts.POST("/:id/save", h.SaveDraft)
}

// NewRouter returns an engine serving the handler with panic recovery and
// request logging.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	h.Register(r)
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.InfoContext(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
