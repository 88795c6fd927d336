package reportRepo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"repairhub/database"
	"repairhub/models"

	"cloud.google.com/go/firestore"
)

// FirestoreReportRepo implements ReportRepository on Firestore.
type FirestoreReportRepo struct {
	client *firestore.Client
}

// NewFirestoreReportRepo creates a new ReportRepository backed by Firestore.
func NewFirestoreReportRepo(client *firestore.Client) ReportRepository {
	return &FirestoreReportRepo{client: client}
}

func (r *FirestoreReportRepo) coll() *firestore.CollectionRef {
	return r.client.Collection(database.ReportsCollection)
}

func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

func decodeReport(id string, m map[string]interface{}) models.Report {
	rep := models.Report{
		ID:           id,
		TechnicianID: database.String(m, "technicianId"),
		UserID:       database.String(m, "userId"),
		Reason:       database.String(m, "reason"),
		Status:       database.String(m, "status"),
	}
	if rep.Status == "" {
		rep.Status = models.ReportPending
	}
	if ts := database.Time(m["createdAt"]); ts != nil {
		rep.CreatedAt = *ts
	}
	return rep
}

// Submit reads the technician document and its existing reports, then writes
// the new report and the updated counter. The technician document is written
// on every submission, so concurrent submissions for the same technician
// conflict and are retried by the transaction runner.
func (r *FirestoreReportRepo) Submit(ctx context.Context, report models.Report, decide BlockDecision) (models.ReportOutcome, error) {
	ctx, cancel := newContext(ctx, 15*time.Second)
	defer cancel()

	techRef := r.client.Collection(database.TechniciansCollection).Doc(report.TechnicianID)
	reportRef := r.coll().Doc(report.ID)

	var outcome models.ReportOutcome
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		techSnap, err := tx.Get(techRef)
		if err != nil {
			return fmt.Errorf("read technician: %w", err)
		}
		existing, err := tx.Documents(r.coll().Where("technicianId", "==", report.TechnicianID)).GetAll()
		if err != nil {
			return fmt.Errorf("read reports: %w", err)
		}

		total, block := decide(len(existing))
		alreadyBlocked := database.Bool(techSnap.Data(), "isBlocked")

		if err := tx.Create(reportRef, report); err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		updates := []firestore.Update{
			{Path: "totalReports", Value: total},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		}
		if block {
			updates = append(updates, firestore.Update{Path: "isBlocked", Value: true})
		}
		if err := tx.Update(techRef, updates); err != nil {
			return fmt.Errorf("update technician: %w", err)
		}

		outcome = models.ReportOutcome{
			Report:       report,
			TotalReports: total,
			AutoBlocked:  block && !alreadyBlocked,
		}
		return nil
	})
	if err != nil {
		return models.ReportOutcome{}, fmt.Errorf("failed to submit report for technician %s: %w", report.TechnicianID, err)
	}
	return outcome, nil
}

func (r *FirestoreReportRepo) GetByID(ctx context.Context, id string) (*models.Report, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	snap, err := r.coll().Doc(id).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report %s: %w", id, err)
	}
	rep := decodeReport(snap.Ref.ID, snap.Data())
	return &rep, nil
}

func (r *FirestoreReportRepo) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll().Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: status},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return fmt.Errorf("failed to update report %s: %w", id, err)
	}
	return nil
}

func (r *FirestoreReportRepo) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	q := r.coll().Query
	if filter.TechnicianID != "" {
		q = q.Where("technicianId", "==", filter.TechnicianID)
	}
	if filter.Status != "" {
		q = q.Where("status", "==", filter.Status)
	}
	docs, err := database.GetAll(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	out := make([]models.Report, 0, len(docs))
	for _, d := range docs {
		out = append(out, decodeReport(d.Ref.ID, d.Data()))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}
