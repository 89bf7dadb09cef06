package dispatcher

import (
	"context"
	"testing"
	"time"

	"github.com/shiftsched/workforce/internal/domain"
)

type staleJobRepo struct {
	*fakeJobRepo
	stale []*domain.ScheduleJob
}

func (f *staleJobRepo) FindStaleProcessing(ctx context.Context, cutoff time.Time, limit int) ([]*domain.ScheduleJob, error) {
	return f.stale, nil
}

func TestReaper_SweepFailsStaleProcessingJobs(t *testing.T) {
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	stuck := &domain.ScheduleJob{ID: "job-stuck", StaffGroupID: "g1", PeriodBeginDate: monday, Status: domain.JobProcessing}

	repo := &staleJobRepo{fakeJobRepo: newFakeJobRepo(stuck), stale: []*domain.ScheduleJob{stuck}}
	r := NewReaper(repo, 15*time.Minute, discardLogger())

	r.sweep(context.Background())

	if stuck.Status != domain.JobFailed {
		t.Fatalf("job status = %s, want FAILED", stuck.Status)
	}
	if stuck.ErrorMessage == nil || *stuck.ErrorMessage != errStaleJobTimeout.Error() {
		t.Fatalf("unexpected error message: %v", stuck.ErrorMessage)
	}
}

func TestReaper_SweepIsNoOpWhenNothingStale(t *testing.T) {
	repo := &staleJobRepo{fakeJobRepo: newFakeJobRepo(&domain.ScheduleJob{ID: "job-ok"}), stale: nil}
	r := NewReaper(repo, 15*time.Minute, discardLogger())

	r.sweep(context.Background())
}
