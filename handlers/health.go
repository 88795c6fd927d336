package handlers

import (
	"net/http"

	"repairhub/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness and the latest dependency probe.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"dependencies": utils.GetHealthStatus(),
	})
}
