package handlers

import (
	"net/http"
	"strconv"

	"repairhub/services/appointment"

	"github.com/gin-gonic/gin"
)

// AppointmentHandler exposes appointment listing and status changes to admins.
type AppointmentHandler struct {
	Service appointment.AppointmentService
}

func NewAppointmentHandler(svc appointment.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Service: svc}
}

// ListAppointments handles GET /api/admin/appointments?status=&technicianId=&limit=.
func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.Service.List(c.Request.Context(), c.Query("status"), c.Query("technicianId"), limit)
	if err != nil {
		respondError(c, err, "Failed to list appointments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": list})
}

// UpdateAppointmentStatus handles PATCH /api/admin/appointments/:id/status.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	a, err := h.Service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err, "Failed to update appointment")
		return
	}
	c.JSON(http.StatusOK, a)
}
