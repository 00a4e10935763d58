package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary      Health check
// @Description  Reports liveness and which optional backends are wired
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	history := "disabled"
	if h.history != nil {
		history = "enabled"
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "history": history})
}
