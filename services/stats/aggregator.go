package stats

import (
	"math"
	"sort"
	"strings"
	"time"

	"repairhub/models"
)

// MonthWindow is the number of trailing calendar months on the dashboard.
const MonthWindow = 12

// OtherCategory is used when an appointment carries no category at all.
const OtherCategory = "Other"

// Input is everything the aggregate is computed from. Each slice is the full
// current content of its collection.
type Input struct {
	Appointments []models.Appointment
	Users        []models.User
	Technicians  []models.Technician
	Shops        []models.Shop
	Feedback     []models.Feedback
	Ratings      []models.Rating
}

// Aggregate computes the dashboard statistics as of now. It never fails;
// records it cannot place are skipped from the affected figure only.
func Aggregate(in Input, now time.Time) models.Stats {
	out := models.Stats{
		TotalAppointments: len(in.Appointments),
		GeneratedAt:       now,
	}

	months, index := MonthBuckets(now)
	categoryCounts := make(map[string]int)

	for _, a := range in.Appointments {
		switch models.BucketOf(a.Status.Global) {
		case models.BucketPending:
			out.Status.Pending++
		case models.BucketCompleted:
			out.Status.Completed++
		case models.BucketCancelled:
			out.Status.Cancelled++
		default:
			out.Status.Other++
		}

		categoryCounts[CategoryOf(a)]++

		if a.CreatedAt == nil {
			out.Undated++
			continue
		}
		if i, ok := index[monthKey(a.CreatedAt.In(now.Location()))]; ok {
			months[i].Count++
		}
	}
	out.Status.Active = out.Status.Pending
	out.Months = months
	out.Categories = categoryStats(categoryCounts, len(in.Appointments))
	out.SuccessRate = SuccessRate(out.Status.Completed, len(in.Appointments))

	for _, u := range in.Users {
		if !u.IsDeleted {
			out.Users++
		}
	}
	out.Technicians = technicianCounts(in.Technicians)
	for _, s := range in.Shops {
		if !s.IsDeleted {
			out.Shops++
		}
	}
	out.Feedback = len(in.Feedback)

	var sum float64
	for _, r := range in.Ratings {
		sum += r.Value
	}
	out.Ratings = len(in.Ratings)
	if out.Ratings > 0 {
		out.AverageRating = roundTo(sum/float64(out.Ratings), 1)
	}

	return out
}

// MonthBuckets returns the trailing MonthWindow months ending with the month
// of now, oldest first, plus an index from "2006-01" key to slice position.
func MonthBuckets(now time.Time) ([]models.MonthBucket, map[string]int) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	buckets := make([]models.MonthBucket, MonthWindow)
	index := make(map[string]int, MonthWindow)
	for i := 0; i < MonthWindow; i++ {
		m := first.AddDate(0, i-(MonthWindow-1), 0)
		key := monthKey(m)
		buckets[i] = models.MonthBucket{Key: key, Label: m.Format("Jan")}
		index[key] = i
	}
	return buckets, index
}

// CategoryOf picks the first non-blank category field of the appointment.
func CategoryOf(a models.Appointment) string {
	for _, c := range []string{a.Category, a.DeviceType, a.DiagnosisCategory} {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return OtherCategory
}

// Percentage is round(count/total*100). Shares are rounded independently, so
// a set of them need not add up to 100.
func Percentage(count, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

// SuccessRate is the completed share of all appointments, in percent with one
// decimal.
func SuccessRate(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return roundTo(float64(completed)/float64(total)*100, 1)
}

func categoryStats(counts map[string]int, total int) []models.CategoryStat {
	out := make([]models.CategoryStat, 0, len(counts))
	for name, n := range counts {
		out = append(out, models.CategoryStat{
			Category:   name,
			Count:      n,
			Percentage: Percentage(n, total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func technicianCounts(techs []models.Technician) models.TechnicianCounts {
	var c models.TechnicianCounts
	for _, t := range techs {
		if t.IsDeleted {
			continue
		}
		c.Total++
		switch {
		case t.IsApproved():
			c.Approved++
		case t.Status == models.TechnicianRejected:
			c.Rejected++
		default:
			c.Pending++
		}
		if t.IsBlocked || t.IsBanned || t.IsSuspended {
			c.Blocked++
		}
		if t.HasShop || t.Type == "shop" {
			c.WithShop++
		}
	}
	return c
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
