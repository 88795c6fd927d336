package routes

import (
	"time"

	"repairhub/config"
	"repairhub/handlers"
	"repairhub/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoute registers the unauthenticated liveness endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.Health)
}

// RegisterPublicRoutes registers the app-facing endpoints.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		// Ranking works anonymously; a valid token adds distances.
		api.GET("/technicians/top", middleware.FirebaseAuthMiddleware(hb.Verifier, true), hb.Ranking.TopRated)

		protected := api.Group("")
		protected.Use(middleware.FirebaseAuthMiddleware(hb.Verifier, false))
		protected.POST("/reports", hb.Reports.SubmitReport)
	}
}

// RegisterAdminRoutes registers the dashboard endpoints. Every route requires
// a verified token whose uid is listed in the admins collection.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(
		middleware.FirebaseAuthMiddleware(hb.Verifier, false),
		middleware.AdminOnlyMiddleware(hb.Admins),
	)
	{
		adminGroup.GET("/stats", hb.Stats.GetStats)
		adminGroup.GET("/stats/export", hb.Stats.ExportCSV)
		adminGroup.GET("/stats/stream", hb.Stats.StreamStats)
		adminGroup.GET("/stats/history", hb.Stats.History)

		adminGroup.GET("/reports", hb.Reports.ListReports)
		adminGroup.PATCH("/reports/:id", hb.Reports.UpdateReportStatus)

		adminGroup.GET("/technicians", hb.Technicians.ListTechnicians)
		adminGroup.POST("/technicians", hb.Accounts.CreateTechnician)
		adminGroup.PATCH("/technicians/:id/:action", hb.Technicians.ModerateTechnician)
		adminGroup.DELETE("/technicians/:id", hb.Technicians.DeleteTechnician)

		adminGroup.GET("/appointments", hb.Appointments.ListAppointments)
		adminGroup.PATCH("/appointments/:id/status", hb.Appointments.UpdateAppointmentStatus)

		adminGroup.POST("/users", hb.Accounts.CreateUser)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, cfg config.Config) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.MaxRequestsPerMin > 0 {
		r.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))
	}

	RegisterHealthRoute(r, hb)
	RegisterPublicRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
