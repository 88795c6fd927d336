package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"repairhub/models"
	"repairhub/services/stats"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatsStream is the live side of the stats monitor.
type StatsStream interface {
	Subscribe() (<-chan models.Stats, func())
}

// StatsHandler serves the dashboard aggregate.
type StatsHandler struct {
	Service   stats.StatsService
	Stream    StatsStream
	KeepAlive time.Duration
}

func NewStatsHandler(svc stats.StatsService, stream StatsStream) *StatsHandler {
	return &StatsHandler{Service: svc, Stream: stream, KeepAlive: 25 * time.Second}
}

// GetStats handles GET /api/admin/stats. ?refresh=true bypasses the cache.
func (h *StatsHandler) GetStats(c *gin.Context) {
	var (
		st  models.Stats
		err error
	)
	if refresh, _ := strconv.ParseBool(c.Query("refresh")); refresh {
		st, err = h.Service.Refresh(c.Request.Context())
	} else {
		st, err = h.Service.GetStats(c.Request.Context())
	}
	if err != nil {
		respondError(c, err, "Failed to compute stats")
		return
	}
	c.JSON(http.StatusOK, st)
}

// ExportCSV handles GET /api/admin/stats/export.
func (h *StatsHandler) ExportCSV(c *gin.Context) {
	st, err := h.Service.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to compute stats")
		return
	}
	filename := fmt.Sprintf("stats-%s.csv", st.GeneratedAt.UTC().Format("20060102-150405"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
	if err := stats.WriteCSV(c.Writer, st); err != nil {
		getLogger(c).Error("CSV export failed", zap.Error(err))
	}
}

// History handles GET /api/admin/stats/history?limit=.
func (h *StatsHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	snaps, err := h.Service.History(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "Failed to load stats history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": snaps})
}

// StreamStats handles GET /api/admin/stats/stream as server-sent events.
// Each event carries a full aggregate; comments keep idle proxies open.
func (h *StatsHandler) StreamStats(c *gin.Context) {
	if h.Stream == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Live stats are disabled"})
		return
	}
	updates, unsubscribe := h.Stream.Subscribe()
	defer unsubscribe()

	keepAlive := h.KeepAlive
	if keepAlive <= 0 {
		keepAlive = 25 * time.Second
	}
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case st, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("stats", st)
			return true
		case <-ticker.C:
			_, err := io.WriteString(w, ": keep-alive\n\n")
			return err == nil
		}
	})
}
