package handlers

import "repairhub/middleware"

// HandlerBundle groups the endpoint handlers mounted by routes together with
// the checks guarding them.
type HandlerBundle struct {
	Verifier middleware.TokenVerifier
	Admins   middleware.AdminChecker

	Health       *HealthHandler
	Stats        *StatsHandler
	Ranking      *RankingHandler
	Reports      *ReportHandler
	Technicians  *TechnicianHandler
	Appointments *AppointmentHandler
	Accounts     *AccountHandler
}
