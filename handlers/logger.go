package handlers

import (
	"errors"
	"net/http"

	"repairhub/services/admin"
	"repairhub/services/appointment"
	"repairhub/services/report"
	"repairhub/services/technician"
	"repairhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger returns the process logger tagged with the request id.
func getLogger(c *gin.Context) *zap.Logger {
	logger := utils.GetLogger()
	if id := c.GetString("requestId"); id != "" {
		return logger.With(zap.String("requestId", id))
	}
	return logger
}

// statusFor maps service sentinels first and falls back to the generic
// store/validation mapping.
func statusFor(err error) int {
	switch {
	case errors.Is(err, admin.ErrNotAdmin):
		return http.StatusForbidden
	case errors.Is(err, admin.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, report.ErrTechnicianNotFound),
		errors.Is(err, report.ErrReportNotFound),
		errors.Is(err, technician.ErrTechnicianNotFound),
		errors.Is(err, appointment.ErrAppointmentNotFound):
		return http.StatusNotFound
	}
	return utils.StatusForError(err)
}

// respondError writes the error body. Server-side failures are logged and
// their details hidden from the client.
func respondError(c *gin.Context, err error, message string) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		getLogger(c).Error(message, zap.Error(err), zap.String("path", c.FullPath()))
		utils.JSONError(c, code, message, "")
		return
	}
	utils.JSONError(c, code, message, err.Error())
}
