package handlers

import (
	"net/http"
	"strconv"

	"repairhub/middleware"
	"repairhub/services/ranking"

	"github.com/gin-gonic/gin"
)

// RankingHandler serves the top-rated technician list.
type RankingHandler struct {
	Service ranking.RankingService
}

func NewRankingHandler(svc ranking.RankingService) *RankingHandler {
	return &RankingHandler{Service: svc}
}

// TopRated handles GET /api/technicians/top?limit=. Distances are computed
// only when the caller presented a token and has a stored location.
func (h *RankingHandler) TopRated(c *gin.Context) {
	limit := ranking.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	ranked, err := h.Service.TopRated(c.Request.Context(), middleware.UID(c), limit)
	if err != nil {
		respondError(c, err, "Failed to rank technicians")
		return
	}
	c.JSON(http.StatusOK, gin.H{"technicians": ranked, "count": len(ranked)})
}
