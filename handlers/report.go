package handlers

import (
	"net/http"
	"strconv"

	"repairhub/middleware"
	"repairhub/models"
	"repairhub/services/report"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportHandler accepts user reports and exposes them to admins.
type ReportHandler struct {
	Service report.ReportService
}

func NewReportHandler(svc report.ReportService) *ReportHandler {
	return &ReportHandler{Service: svc}
}

type submitReportRequest struct {
	TechnicianID string `json:"technicianId" binding:"required"`
	Reason       string `json:"reason" binding:"required"`
}

// SubmitReport handles POST /api/reports. The reporter is the token holder.
func (h *ReportHandler) SubmitReport(c *gin.Context) {
	var req submitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	outcome, err := h.Service.SubmitReport(c.Request.Context(), req.TechnicianID, middleware.UID(c), req.Reason)
	if err != nil {
		respondError(c, err, "Failed to submit report")
		return
	}
	if outcome.AutoBlocked {
		getLogger(c).Info("technician auto-blocked",
			zap.String("technicianId", req.TechnicianID), zap.Int("totalReports", outcome.TotalReports))
	}
	c.JSON(http.StatusCreated, outcome)
}

// ListReports handles GET /api/admin/reports?technicianId=&status=&limit=.
func (h *ReportHandler) ListReports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	reports, err := h.Service.List(c.Request.Context(), models.ReportFilter{
		TechnicianID: c.Query("technicianId"),
		Status:       c.Query("status"),
		Limit:        limit,
	})
	if err != nil {
		respondError(c, err, "Failed to list reports")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// UpdateReportStatus handles PATCH /api/admin/reports/:id.
func (h *ReportHandler) UpdateReportStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	id := c.Param("id")
	if err := h.Service.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, err, "Failed to update report")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report updated", "id": id})
}
