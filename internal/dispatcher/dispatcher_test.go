package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shiftsched/workforce/internal/dataclient"
	"github.com/shiftsched/workforce/internal/domain"
	"github.com/shiftsched/workforce/internal/rules"
	"github.com/shiftsched/workforce/internal/scheduler"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeJobRepo struct {
	mu         sync.Mutex
	jobs       map[string]*domain.ScheduleJob
	transition []domain.JobStatus
}

func newFakeJobRepo(job *domain.ScheduleJob) *fakeJobRepo {
	return &fakeJobRepo{jobs: map[string]*domain.ScheduleJob{job.ID: job}}
}

func (f *fakeJobRepo) Create(ctx context.Context, job *domain.ScheduleJob) (*domain.ScheduleJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[job.ID] = job
	return job, nil
}

func (f *fakeJobRepo) FindByID(ctx context.Context, id string) (*domain.ScheduleJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return nil, domain.NotFound(domain.ErrJobNotFound.Error())
	}
	return job, nil
}

func (f *fakeJobRepo) Transition(ctx context.Context, id string, newStatus domain.JobStatus, errMsg *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return domain.NotFound(domain.ErrJobNotFound.Error())
	}
	if !domain.CanTransition(job.Status, newStatus) {
		return domain.InvalidInput(domain.ErrIllegalTransition.Error())
	}
	job.Status = newStatus
	job.ErrorMessage = errMsg
	f.transition = append(f.transition, newStatus)
	return nil
}

func (f *fakeJobRepo) FindStaleProcessing(ctx context.Context, cutoff time.Time, limit int) ([]*domain.ScheduleJob, error) {
	return nil, nil
}

type fakeAssignmentRepo struct {
	mu      sync.Mutex
	inserts [][]*domain.ShiftAssignment
	failErr error
}

func (f *fakeAssignmentRepo) InsertBatch(ctx context.Context, assignments []*domain.ShiftAssignment) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts = append(f.inserts, assignments)
	return nil
}

func (f *fakeAssignmentRepo) FindByJob(ctx context.Context, jobID string) ([]*domain.ShiftAssignment, error) {
	return nil, nil
}

type fakeCache struct {
	mu          sync.Mutex
	invalidated []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dest any) bool { return false }
func (c *fakeCache) Set(ctx context.Context, key string, value any, ttl time.Duration) {}
func (c *fakeCache) Invalidate(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, key)
}
func (c *fakeCache) InvalidatePattern(ctx context.Context, pattern string) {}

func resolvedMembersServer(t *testing.T, staffIDs []string) *httptest.Server {
	t.Helper()
	members := make([]domain.Staff, len(staffIDs))
	for i, id := range staffIDs {
		members[i] = domain.Staff{ID: id, Name: id, Status: domain.StaffActive}
	}
	body := map[string]any{
		"data": []map[string]any{
			{"group_id": "g1", "group_name": "Group", "members": members},
		},
		"total": len(members),
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func TestWorker_ProcessCompletesJobAndInsertsAssignments(t *testing.T) {
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	job := &domain.ScheduleJob{ID: "job-1", StaffGroupID: "g1", PeriodBeginDate: monday, Status: domain.JobPending}

	srv := resolvedMembersServer(t, []string{"s1", "s2", "s3"})
	defer srv.Close()

	jobRepo := newFakeJobRepo(job)
	assignmentRepo := &fakeAssignmentRepo{}
	c := &fakeCache{}
	client := dataclient.New(srv.URL, discardLogger())
	generator := scheduler.NewGenerator(rules.DefaultEngine(2, 2, 1))

	d := New(10, discardLogger())
	w := NewWorker(d, jobRepo, assignmentRepo, client, generator, c, discardLogger())

	if err := d.Submit(context.Background(), job.ID, job.StaffGroupID, job.PeriodBeginDate); err != nil {
		t.Fatalf("submit: %v", err)
	}

	req := <-w.queue
	w.process(context.Background(), req)

	if job.Status != domain.JobCompleted {
		t.Fatalf("job status = %s, want COMPLETED", job.Status)
	}
	if len(assignmentRepo.inserts) != 1 {
		t.Fatalf("expected exactly one InsertBatch call, got %d", len(assignmentRepo.inserts))
	}
	if got := len(assignmentRepo.inserts[0]); got != 3*scheduler.PeriodDays {
		t.Fatalf("got %d assignments, want %d", got, 3*scheduler.PeriodDays)
	}
	if len(c.invalidated) != 1 || c.invalidated[0] != "schedule_result:job-1" {
		t.Fatalf("expected schedule result cache invalidation, got %v", c.invalidated)
	}
}

func TestWorker_ProcessMarksJobFailedWhenNoActiveStaff(t *testing.T) {
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	job := &domain.ScheduleJob{ID: "job-2", StaffGroupID: "g1", PeriodBeginDate: monday, Status: domain.JobPending}

	srv := resolvedMembersServer(t, nil)
	defer srv.Close()

	jobRepo := newFakeJobRepo(job)
	assignmentRepo := &fakeAssignmentRepo{}
	c := &fakeCache{}
	client := dataclient.New(srv.URL, discardLogger())
	generator := scheduler.NewGenerator(rules.DefaultEngine(2, 2, 1))

	d := New(10, discardLogger())
	w := NewWorker(d, jobRepo, assignmentRepo, client, generator, c, discardLogger())

	w.process(context.Background(), request{jobID: job.ID, staffGroupID: job.StaffGroupID, periodBeginDate: job.PeriodBeginDate})

	if job.Status != domain.JobFailed {
		t.Fatalf("job status = %s, want FAILED", job.Status)
	}
	if job.ErrorMessage == nil || *job.ErrorMessage == "" {
		t.Fatal("expected a non-empty error message on failure")
	}
	if len(assignmentRepo.inserts) != 0 {
		t.Fatalf("expected no assignments to be inserted, got %d batches", len(assignmentRepo.inserts))
	}
}

func TestWorker_ProcessMarksJobFailedWhenInsertFails(t *testing.T) {
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	job := &domain.ScheduleJob{ID: "job-3", StaffGroupID: "g1", PeriodBeginDate: monday, Status: domain.JobPending}

	srv := resolvedMembersServer(t, []string{"s1"})
	defer srv.Close()

	jobRepo := newFakeJobRepo(job)
	assignmentRepo := &fakeAssignmentRepo{failErr: domain.DatabaseError("insert failed", errors.New("boom"))}
	c := &fakeCache{}
	client := dataclient.New(srv.URL, discardLogger())
	generator := scheduler.NewGenerator(rules.DefaultEngine(2, 2, 1))

	d := New(10, discardLogger())
	w := NewWorker(d, jobRepo, assignmentRepo, client, generator, c, discardLogger())

	w.process(context.Background(), request{jobID: job.ID, staffGroupID: job.StaffGroupID, periodBeginDate: job.PeriodBeginDate})

	if job.Status != domain.JobFailed {
		t.Fatalf("job status = %s, want FAILED", job.Status)
	}
	if len(c.invalidated) != 0 {
		t.Fatal("cache should not be invalidated on a failed job")
	}
}

func TestDispatcher_SubmitRespectsContextCancellation(t *testing.T) {
	d := New(0, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := d.Submit(ctx, "job-x", "g1", time.Now().UTC())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline error, got %v", err)
	}
}
