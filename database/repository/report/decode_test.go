package reportRepo

import (
	"testing"
	"time"
)

func TestDecodeReport(t *testing.T) {
	rep := decodeReport("r1", map[string]interface{}{
		"technicianId": "t1",
		"userId":       "u1",
		"reason":       "no show",
		"createdAt":    "2026-03-01T10:00:00Z",
	})
	if rep.Status != "pending" {
		t.Fatalf("missing status should default to pending, got %q", rep.Status)
	}
	want := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	if !rep.CreatedAt.Equal(want) {
		t.Fatalf("CreatedAt=%v, want %v", rep.CreatedAt, want)
	}
	if rep.TechnicianID != "t1" || rep.UserID != "u1" || rep.Reason != "no show" {
		t.Fatalf("decoded=%+v", rep)
	}
}
