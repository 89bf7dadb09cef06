package dispatcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shiftsched/workforce/internal/domain"
	"github.com/shiftsched/workforce/internal/repository"
)

// Reaper marks jobs stuck in PROCESSING as FAILED once they exceed
// timeout, the crash-recovery hardening SPEC_FULL.md §4.6 adds on top of
// the single-consumer pipeline. It is driven by robfig/cron rather than a
// bare ticker so the scheduling service keeps exercising the teacher's
// cron dependency, which this domain has no recurring-schedule feature to
// otherwise use.
type Reaper struct {
	jobRepo repository.JobRepository
	timeout time.Duration
	logger  *slog.Logger
}

func NewReaper(jobRepo repository.JobRepository, timeout time.Duration, logger *slog.Logger) *Reaper {
	return &Reaper{
		jobRepo: jobRepo,
		timeout: timeout,
		logger:  logger.With("component", "reaper"),
	}
}

// Start registers the sweep on cronExpr and runs until ctx is canceled.
func (r *Reaper) Start(ctx context.Context, cronExpr string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(cronExpr, func() { r.sweep(ctx) })
	if err != nil {
		return nil, err
	}
	c.Start()

	go func() {
		<-ctx.Done()
		r.logger.Info("reaper shutting down")
		<-c.Stop().Done()
	}()

	r.logger.Info("reaper started", "cron", cronExpr, "timeout", r.timeout)
	return c, nil
}

func (r *Reaper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-r.timeout)

	stale, err := r.jobRepo.FindStaleProcessing(ctx, cutoff, 100)
	if err != nil {
		r.logger.ErrorContext(ctx, "find stale jobs failed", "error", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	msg := errStaleJobTimeout.Error()
	failed := 0
	for _, job := range stale {
		if err := r.jobRepo.Transition(ctx, job.ID, domain.JobFailed, &msg); err != nil {
			r.logger.ErrorContext(ctx, "fail stale job", "job_id", job.ID, "error", err)
			continue
		}
		failed++
	}
	if failed > 0 {
		r.logger.InfoContext(ctx, "reaper failed stale jobs", "count", failed)
	}
}
