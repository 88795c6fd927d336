package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	memoryRepo "repairhub/database/repository/memory"
	"repairhub/models"
	"repairhub/services/tasks"
	"repairhub/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type recordingQueue struct {
	mu    sync.Mutex
	tasks []*asynq.Task
}

func (q *recordingQueue) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{}, nil
}

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate(ctx context.Context) error {
	c.n++
	return nil
}

func newTestService(store *memoryRepo.Store, q tasks.Enqueuer, inv ...Invalidator) *DefaultReportService {
	return NewDefaultReportService(memoryRepo.ReportRepo{S: store}, q, DefaultBlockThreshold, zap.NewNop(), inv...)
}

func TestAutoBlockDecision(t *testing.T) {
	decide := autoBlockDecision(5)
	cases := []struct {
		existing  int
		wantTotal int
		wantBlock bool
	}{
		{0, 1, false},
		{3, 4, false},
		{4, 5, true},
		{9, 10, true},
	}
	for _, tc := range cases {
		total, block := decide(tc.existing)
		if total != tc.wantTotal || block != tc.wantBlock {
			t.Fatalf("decide(%d)=%d,%v, want %d,%v", tc.existing, total, block, tc.wantTotal, tc.wantBlock)
		}
	}
	if _, block := autoBlockDecision(0)(4); !block {
		t.Fatalf("non-positive threshold should fall back to the default")
	}
}

func TestFifthReportBlocks(t *testing.T) {
	store := memoryRepo.NewStore()
	store.Technicians["t1"] = models.Technician{UID: "t1", Status: models.TechnicianApproved, Submitted: true}
	q := &recordingQueue{}
	inv := &countingInvalidator{}
	svc := newTestService(store, q, inv)

	reasons := []string{"late", "rude", "overcharged", "late again", "anything at all"}
	for i, reason := range reasons {
		out, err := svc.SubmitReport(context.Background(), "t1", fmt.Sprintf("u%d", i), reason)
		if err != nil {
			t.Fatalf("SubmitReport #%d: %v", i+1, err)
		}
		if out.TotalReports != i+1 {
			t.Fatalf("TotalReports=%d, want %d", out.TotalReports, i+1)
		}
		wantBlocked := i+1 == 5
		if out.AutoBlocked != wantBlocked {
			t.Fatalf("report #%d AutoBlocked=%v, want %v", i+1, out.AutoBlocked, wantBlocked)
		}
		if got := store.MustTechnician("t1").IsBlocked; got != wantBlocked {
			t.Fatalf("after report #%d isBlocked=%v, want %v", i+1, got, wantBlocked)
		}
		if out.Report.Status != models.ReportPending {
			t.Fatalf("new report status=%q", out.Report.Status)
		}
	}

	if len(q.tasks) != 1 || q.tasks[0].Type() != tasks.TypeSendNotification {
		t.Fatalf("expected one notification task, got %d", len(q.tasks))
	}
	if inv.n != 1 {
		t.Fatalf("invalidations=%d, want 1", inv.n)
	}

	// A sixth report keeps counting but does not block again.
	out, err := svc.SubmitReport(context.Background(), "t1", "u9", "more")
	if err != nil {
		t.Fatalf("SubmitReport #6: %v", err)
	}
	if out.TotalReports != 6 || out.AutoBlocked {
		t.Fatalf("sixth report outcome=%+v", out)
	}
}

func TestConcurrentReportsCountExactly(t *testing.T) {
	store := memoryRepo.NewStore()
	store.Technicians["t1"] = models.Technician{UID: "t1"}
	q := &recordingQueue{}
	svc := newTestService(store, q)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.SubmitReport(context.Background(), "t1", fmt.Sprintf("u%d", i), "reason"); err != nil {
				t.Errorf("SubmitReport: %v", err)
			}
		}(i)
	}
	wg.Wait()

	tech := store.MustTechnician("t1")
	if tech.TotalReports != 20 || !tech.IsBlocked {
		t.Fatalf("technician=%+v", tech)
	}
	if len(q.tasks) != 1 {
		t.Fatalf("block notification sent %d times, want 1", len(q.tasks))
	}
}

func TestSubmitReportValidation(t *testing.T) {
	svc := newTestService(memoryRepo.NewStore(), nil)
	cases := []struct{ tech, user, reason string }{
		{"", "u1", "r"},
		{"t1", " ", "r"},
		{"t1", "u1", "  "},
	}
	for _, tc := range cases {
		_, err := svc.SubmitReport(context.Background(), tc.tech, tc.user, tc.reason)
		var ve *utils.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("SubmitReport(%q,%q,%q) err=%v, want ValidationError", tc.tech, tc.user, tc.reason, err)
		}
	}
}

func TestSubmitReportUnknownTechnician(t *testing.T) {
	svc := newTestService(memoryRepo.NewStore(), nil)
	_, err := svc.SubmitReport(context.Background(), "ghost", "u1", "no show")
	if !errors.Is(err, ErrTechnicianNotFound) {
		t.Fatalf("err=%v, want ErrTechnicianNotFound", err)
	}
	if !utils.IsNotFound(err) {
		t.Fatalf("store NotFound should stay visible in the chain")
	}
}

func TestUpdateStatus(t *testing.T) {
	store := memoryRepo.NewStore()
	store.Reports["r1"] = models.Report{ID: "r1", Status: models.ReportPending}
	svc := newTestService(store, nil)

	if err := svc.UpdateStatus(context.Background(), "r1", "Resolved"); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if store.Reports["r1"].Status != models.ReportResolved {
		t.Fatalf("status=%q", store.Reports["r1"].Status)
	}
	if err := svc.UpdateStatus(context.Background(), "r1", "closed"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
	if err := svc.UpdateStatus(context.Background(), "nope", "reviewed"); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("err=%v, want ErrReportNotFound", err)
	}
}
