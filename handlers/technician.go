package handlers

import (
	"net/http"
	"strconv"

	"repairhub/models"
	"repairhub/services/technician"

	"github.com/gin-gonic/gin"
)

// TechnicianHandler exposes moderation to admins.
type TechnicianHandler struct {
	Service technician.ModerationService
}

func NewTechnicianHandler(svc technician.ModerationService) *TechnicianHandler {
	return &TechnicianHandler{Service: svc}
}

// ListTechnicians handles GET /api/admin/technicians?status=&includeDeleted=.
func (h *TechnicianHandler) ListTechnicians(c *gin.Context) {
	includeDeleted, _ := strconv.ParseBool(c.Query("includeDeleted"))
	techs, err := h.Service.List(c.Request.Context(), models.TechnicianFilter{
		Status:         c.Query("status"),
		IncludeDeleted: includeDeleted,
	})
	if err != nil {
		respondError(c, err, "Failed to list technicians")
		return
	}
	c.JSON(http.StatusOK, gin.H{"technicians": techs})
}

// ModerateTechnician handles PATCH /api/admin/technicians/:id/:action.
// Deletion has its own DELETE route.
func (h *TechnicianHandler) ModerateTechnician(c *gin.Context) {
	action, ok := technician.ParseAction(c.Param("action"))
	if !ok || action == models.ActionDelete {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown moderation action", "details": c.Param("action")})
		return
	}
	h.apply(c, action)
}

// DeleteTechnician handles DELETE /api/admin/technicians/:id.
func (h *TechnicianHandler) DeleteTechnician(c *gin.Context) {
	h.apply(c, models.ActionDelete)
}

func (h *TechnicianHandler) apply(c *gin.Context, action models.ModerationAction) {
	tech, err := h.Service.Apply(c.Request.Context(), c.Param("id"), action)
	if err != nil {
		respondError(c, err, "Failed to update technician")
		return
	}
	c.JSON(http.StatusOK, gin.H{"action": action, "technician": tech})
}
