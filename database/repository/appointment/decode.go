package appointmentRepo

import (
	"repairhub/database"
	"repairhub/models"
)

// decodeAppointment builds an Appointment from a raw document. The status is
// either a nested {global, technician, userView} map or, on old documents, a
// plain string taken as the global status.
func decodeAppointment(id string, m map[string]interface{}) models.Appointment {
	a := models.Appointment{
		ID:           id,
		UserID:       database.String(m, "userId"),
		TechnicianID: database.String(m, "technicianId"),
		CreatedAt:    database.Time(m["createdAt"]),
		Category:     database.String(m, "category"),
		DeviceType:   database.String(m, "deviceType"),
	}

	switch s := m["status"].(type) {
	case map[string]interface{}:
		a.Status = models.AppointmentStatus{
			Global:     normalizeStatus(database.String(s, "global")),
			Technician: database.String(s, "technician"),
			UserView:   database.String(s, "userView"),
		}
	case string:
		a.Status = models.AppointmentStatus{Global: normalizeStatus(s)}
	}

	if diag := database.Map(m, "diagnosisData"); diag != nil {
		a.DiagnosisCategory = database.String(diag, "category")
	}
	return a
}

// normalizeStatus maps case variants onto the canonical constant and keeps
// unknown values as they are.
func normalizeStatus(s string) models.GlobalStatus {
	if gs, ok := models.ParseGlobalStatus(s); ok {
		return gs
	}
	return models.GlobalStatus(s)
}

func countCompleted(apps []models.Appointment) int {
	n := 0
	for _, a := range apps {
		if a.Status.Global == models.StatusCompleted {
			n++
		}
	}
	return n
}

// statusDocument is the stored form of a status update.
func statusDocument(s models.AppointmentStatus) map[string]interface{} {
	return map[string]interface{}{
		"global":     string(s.Global),
		"technician": s.Technician,
		"userView":   s.UserView,
	}
}
