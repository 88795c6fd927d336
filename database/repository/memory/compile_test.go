package memoryRepo

import (
	appointmentRepo "repairhub/database/repository/appointment"
	feedbackRepo "repairhub/database/repository/feedback"
	reportRepo "repairhub/database/repository/report"
	shopRepo "repairhub/database/repository/shop"
	snapshotRepo "repairhub/database/repository/snapshot"
	technicianRepo "repairhub/database/repository/technician"
	userRepo "repairhub/database/repository/user"
)

var (
	_ userRepo.UserRepository               = UserRepo{}
	_ technicianRepo.TechnicianRepository   = TechnicianRepo{}
	_ shopRepo.ShopRepository               = ShopRepo{}
	_ appointmentRepo.AppointmentRepository = AppointmentRepo{}
	_ reportRepo.ReportRepository           = ReportRepo{}
	_ feedbackRepo.FeedbackRepository       = FeedbackRepo{}
	_ snapshotRepo.SnapshotRepository       = SnapshotRepo{}
)
