package stats

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"repairhub/models"
)

// WriteCSV writes st as rows of section,key,label,count,percentage.
func WriteCSV(w io.Writer, st models.Stats) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{"section", "key", "label", "count", "percentage"}}

	for _, m := range st.Months {
		rows = append(rows, []string{"month", m.Key, m.Label, strconv.Itoa(m.Count), ""})
	}
	for _, c := range st.Categories {
		rows = append(rows, []string{"category", c.Category, c.Category, strconv.Itoa(c.Count), strconv.Itoa(c.Percentage)})
	}
	rows = append(rows,
		[]string{"status", "pending", "Pending", strconv.Itoa(st.Status.Pending), ""},
		[]string{"status", "completed", "Completed", strconv.Itoa(st.Status.Completed), ""},
		[]string{"status", "cancelled", "Cancelled", strconv.Itoa(st.Status.Cancelled), ""},
		[]string{"status", "other", "Other", strconv.Itoa(st.Status.Other), ""},
		[]string{"summary", "totalAppointments", "Total appointments", strconv.Itoa(st.TotalAppointments), ""},
		[]string{"summary", "successRate", "Success rate", "", strconv.FormatFloat(st.SuccessRate, 'f', 1, 64)},
		[]string{"summary", "users", "Users", strconv.Itoa(st.Users), ""},
		[]string{"summary", "technicians", "Technicians", strconv.Itoa(st.Technicians.Total), ""},
		[]string{"summary", "shops", "Shops", strconv.Itoa(st.Shops), ""},
		[]string{"summary", "feedback", "Feedback", strconv.Itoa(st.Feedback), ""},
		[]string{"summary", "ratings", "Ratings", strconv.Itoa(st.Ratings), ""},
	)

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write stats csv: %w", err)
	}
	return nil
}
