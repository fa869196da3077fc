package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/truegift/truegift-rag/internal/repository"
)

// PhotoHandler serves the indexed photo registry.
type PhotoHandler struct {
	photoRepo *repository.PhotoRepository
}

// NewPhotoHandler creates a new photo handler.
func NewPhotoHandler(photoRepo *repository.PhotoRepository) *PhotoHandler {
	return &PhotoHandler{photoRepo: photoRepo}
}

// ListFoodPhotos handles GET /api/v1/photos. Returns indexed food photos,
// newest first, optionally scoped to one user.
func (h *PhotoHandler) ListFoodPhotos(c *gin.Context) {
	userID := c.Query("user_id")

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	records, err := h.photoRepo.ListFood(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"detail": err.Error(),
		})
		return
	}

	results := make([]gin.H, 0, len(records))
	for _, rec := range records {
		results = append(results, gin.H{
			"photo_id":   rec.PhotoID,
			"user_id":    rec.UserID,
			"user_name":  rec.UserName,
			"food_class": rec.FoodClass,
			"created_at": rec.CreatedAt,
			"caption":    rec.Caption,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"results": results,
	})
}
