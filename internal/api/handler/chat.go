package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/truegift/truegift-rag/internal/service"
)

// ChatHandler exposes the language model directly for the frontend chat
// surface.
type ChatHandler struct {
	llm *service.LLMService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(llm *service.LLMService) *ChatHandler {
	return &ChatHandler{llm: llm}
}

// ChatRequest is the frontend chat payload.
type ChatRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	Stream bool   `json:"stream"`
}

// Chat handles POST /api/v1/chat. Streaming responses are written as plain
// text chunks to match the frontend's reader.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	if req.Stream {
		chunks, err := h.llm.Stream(c.Request.Context(), req.Prompt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Error in chat: " + err.Error(),
			})
			return
		}
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

	response, err := h.llm.Complete(c.Request.Context(), req.Prompt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error in chat: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response": response,
	})
}

// Status handles GET /api/v1/llm/status. Reports provider reachability and
// available models.
func (h *ChatHandler) Status(c *gin.Context) {
	_, models, err := h.llm.Status(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"status":   "unreachable",
			"provider": h.llm.GetProvider(),
			"detail":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"provider": h.llm.GetProvider(),
		"model":    h.llm.GetModel(),
		"models":   models,
	})
}
