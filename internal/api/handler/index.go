package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/truegift/truegift-rag/internal/service"
)

// IndexHandler handles indexing endpoints.
type IndexHandler struct {
	indexer   *service.IndexerService
	maxPhotos int
}

// NewIndexHandler creates a new index handler. maxPhotos caps how many
// photos one request pulls from the backend.
func NewIndexHandler(indexer *service.IndexerService, maxPhotos int) *IndexHandler {
	if maxPhotos <= 0 {
		maxPhotos = 50
	}
	return &IndexHandler{
		indexer:   indexer,
		maxPhotos: maxPhotos,
	}
}

// IndexPhotos handles POST /api/v1/index. The caller's backend token comes
// from the Authorization header; without one the configured default token is
// used.
func (h *IndexHandler) IndexPhotos(c *gin.Context) {
	token := bearerToken(c)

	maxPhotos := h.maxPhotos
	if raw := c.Query("max_photos"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= h.maxPhotos {
			maxPhotos = n
		}
	}

	report, err := h.indexer.IndexForUser(c.Request.Context(), token, maxPhotos)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch photos: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}
