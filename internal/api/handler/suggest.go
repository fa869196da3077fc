package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/truegift/truegift-rag/internal/logger"
	"github.com/truegift/truegift-rag/internal/prompts"
	"github.com/truegift/truegift-rag/internal/service"
)

// SuggestHandler handles food suggestion endpoints.
type SuggestHandler struct {
	suggest *service.SuggestService
}

// NewSuggestHandler creates a new suggestion handler.
func NewSuggestHandler(suggest *service.SuggestService) *SuggestHandler {
	return &SuggestHandler{suggest: suggest}
}

// Suggest handles GET /api/v1/suggest/:user_id/:prompt_key. With
// ?stream=true the suggestion is written as a plain-text chunk stream.
func (h *SuggestHandler) Suggest(c *gin.Context) {
	userID := c.Param("user_id")
	promptKey := c.Param("prompt_key")

	ctx := logger.WithFields(c.Request.Context(), logger.Fields{
		logger.FieldUserID:    userID,
		logger.FieldPromptKey: promptKey,
	})

	if c.Query("stream") == "true" {
		chunks := h.suggest.SuggestStream(ctx, userID, promptKey)
		c.Header("Content-Type", "text/plain; charset=utf-8")
		c.Stream(func(w io.Writer) bool {
			chunk, ok := <-chunks
			if !ok {
				return false
			}
			_, _ = io.WriteString(w, chunk)
			return true
		})
		return
	}

	suggestion := h.suggest.Suggest(ctx, userID, promptKey)
	c.JSON(http.StatusOK, gin.H{
		"suggestion": suggestion,
	})
}

// ListPrompts handles GET /api/v1/suggest/prompts. Returns the prompt keys
// the UI can offer.
func (h *SuggestHandler) ListPrompts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"available_prompts": prompts.ListAvailable(),
	})
}
