package report

import "errors"

var (
	// ErrTechnicianNotFound is returned when a report targets an unknown technician.
	ErrTechnicianNotFound = errors.New("technician not found")
	// ErrReportNotFound is returned for an unknown report id.
	ErrReportNotFound = errors.New("report not found")
)
