package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	platform string
}

func NewHealthHandler(platform string) *HealthHandler {
	return &HealthHandler{platform: platform}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "platform": h.platform})
}
