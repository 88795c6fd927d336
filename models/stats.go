package models

import "time"

// MonthBucket counts appointments created in one calendar month.
type MonthBucket struct {
	Key   string `json:"key" bson:"key"`     // "2006-01"
	Label string `json:"label" bson:"label"` // short English month name
	Count int    `json:"count" bson:"count"`
}

// CategoryStat is one service category with its share of all appointments.
type CategoryStat struct {
	Category   string `json:"category" bson:"category"`
	Count      int    `json:"count" bson:"count"`
	Percentage int    `json:"percentage" bson:"percentage"`
}

// StatusSplit is the dashboard breakdown of appointment states.
type StatusSplit struct {
	Pending   int `json:"pending" bson:"pending"`
	Active    int `json:"active" bson:"active"`
	Completed int `json:"completed" bson:"completed"`
	Cancelled int `json:"cancelled" bson:"cancelled"`
	Other     int `json:"other" bson:"other"`
}

// TechnicianCounts summarises the technician population.
type TechnicianCounts struct {
	Total    int `json:"total" bson:"total"`
	Approved int `json:"approved" bson:"approved"`
	Pending  int `json:"pending" bson:"pending"`
	Rejected int `json:"rejected" bson:"rejected"`
	Blocked  int `json:"blocked" bson:"blocked"`
	WithShop int `json:"withShop" bson:"withShop"`
}

// Stats is the full admin dashboard aggregate.
type Stats struct {
	TotalAppointments int              `json:"totalAppointments" bson:"totalAppointments"`
	Months            []MonthBucket    `json:"months" bson:"months"`
	Categories        []CategoryStat   `json:"categories" bson:"categories"`
	Status            StatusSplit      `json:"status" bson:"status"`
	SuccessRate       float64          `json:"successRate" bson:"successRate"`
	Undated           int              `json:"undated" bson:"undated"`
	Users             int              `json:"users" bson:"users"`
	Technicians       TechnicianCounts `json:"technicians" bson:"technicians"`
	Shops             int              `json:"shops" bson:"shops"`
	Feedback          int              `json:"feedback" bson:"feedback"`
	Ratings           int              `json:"ratings" bson:"ratings"`
	AverageRating     float64          `json:"averageRating" bson:"averageRating"`
	GeneratedAt       time.Time        `json:"generatedAt" bson:"generatedAt"`
}

// StatsSnapshot is a stored point-in-time copy of Stats.
type StatsSnapshot struct {
	ID    string `json:"id" bson:"id"`
	Stats Stats  `json:"stats" bson:"stats"`
}
