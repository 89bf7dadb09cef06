// Package dispatcher runs the scheduling service's asynchronous job
// pipeline: a bounded in-process queue feeding a single worker goroutine
// that resolves group membership, runs the schedule generator, and
// persists the result. Grounded on the original Rust
// infrastructure/job_processor.rs, translated from a tokio mpsc channel
// into a buffered Go channel in the teacher's goroutine-loop idiom
// (internal/scheduler/worker.go).
package dispatcher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shiftsched/workforce/internal/cache"
	"github.com/shiftsched/workforce/internal/dataclient"
	"github.com/shiftsched/workforce/internal/domain"
	"github.com/shiftsched/workforce/internal/metrics"
	"github.com/shiftsched/workforce/internal/repository"
	"github.com/shiftsched/workforce/internal/scheduler"
)

type request struct {
	jobID           string
	staffGroupID    string
	periodBeginDate time.Time
}

// Dispatcher owns the bounded queue between HTTP handlers submitting jobs
// and the single worker goroutine that runs them. Capacity is fixed at
// construction (spec default 100) and Submit blocks once it is full,
// applying back-pressure to the submitter rather than growing unbounded.
type Dispatcher struct {
	queue  chan request
	logger *slog.Logger
}

func New(capacity int, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		queue:  make(chan request, capacity),
		logger: logger.With("component", "dispatcher"),
	}
}

// Submit enqueues a job for processing. It blocks if the queue is full,
// unless ctx is canceled first.
func (d *Dispatcher) Submit(ctx context.Context, jobID, staffGroupID string, periodBeginDate time.Time) error {
	select {
	case d.queue <- request{jobID: jobID, staffGroupID: staffGroupID, periodBeginDate: periodBeginDate}:
		metrics.QueueDepth.Set(float64(len(d.queue)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Worker drains the dispatcher's queue on a single goroutine, matching
// the single-consumer design in SPEC_FULL.md §4.6 — there is no claim
// semantics because there is never more than one consumer.
type Worker struct {
	queue          <-chan request
	jobRepo        repository.JobRepository
	assignmentRepo repository.AssignmentRepository
	dataClient     *dataclient.Client
	generator      *scheduler.Generator
	cache          cache.Cache
	logger         *slog.Logger
}

func NewWorker(d *Dispatcher, jobRepo repository.JobRepository, assignmentRepo repository.AssignmentRepository, dataClient *dataclient.Client, generator *scheduler.Generator, c cache.Cache, logger *slog.Logger) *Worker {
	return &Worker{
		queue:          d.queue,
		jobRepo:        jobRepo,
		assignmentRepo: assignmentRepo,
		dataClient:     dataClient,
		generator:      generator,
		cache:          c,
		logger:         logger.With("component", "dispatcher_worker"),
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shut down")
			return
		case req := <-w.queue:
			w.process(ctx, req)
		}
	}
}

func (w *Worker) process(ctx context.Context, req request) {
	w.logger.InfoContext(ctx, "processing schedule job", "job_id", req.jobID)
	metrics.JobsInFlight.Inc()
	defer metrics.JobsInFlight.Dec()

	start := time.Now()

	if err := w.jobRepo.Transition(ctx, req.jobID, domain.JobProcessing, nil); err != nil {
		w.logger.ErrorContext(ctx, "transition to processing failed", "job_id", req.jobID, "error", err)
		return
	}

	if err := w.execute(ctx, req); err != nil {
		msg := err.Error()
		w.logger.ErrorContext(ctx, "schedule job failed", "job_id", req.jobID, "error", err)
		if terr := w.jobRepo.Transition(ctx, req.jobID, domain.JobFailed, &msg); terr != nil {
			w.logger.ErrorContext(ctx, "transition to failed failed", "job_id", req.jobID, "error", terr)
		}
		metrics.JobsCompletedTotal.WithLabelValues("failed").Inc()
		metrics.JobExecutionDuration.WithLabelValues("failed").Observe(time.Since(start).Seconds())
		return
	}

	if err := w.jobRepo.Transition(ctx, req.jobID, domain.JobCompleted, nil); err != nil {
		w.logger.ErrorContext(ctx, "transition to completed failed", "job_id", req.jobID, "error", err)
		return
	}
	w.cache.Invalidate(ctx, cache.ScheduleResultKey(req.jobID))
	metrics.JobsCompletedTotal.WithLabelValues("completed").Inc()
	metrics.JobExecutionDuration.WithLabelValues("completed").Observe(time.Since(start).Seconds())
	w.logger.InfoContext(ctx, "schedule job completed", "job_id", req.jobID)
}

func (w *Worker) execute(ctx context.Context, req request) error {
	staff, err := w.dataClient.GetResolvedMembers(ctx, req.staffGroupID)
	if err != nil {
		return err
	}
	if len(staff) == 0 {
		return domain.InvalidInput("no active staff members found in the group")
	}

	staffIDs := make([]string, len(staff))
	for i, s := range staff {
		staffIDs[i] = s.ID
	}

	w.logger.InfoContext(ctx, "generating schedule", "job_id", req.jobID, "staff_count", len(staffIDs))

	assignments, err := w.generator.Generate(staffIDs, req.periodBeginDate, req.jobID)
	if err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "generated shift assignments", "job_id", req.jobID, "count", len(assignments))

	if err := w.assignmentRepo.InsertBatch(ctx, assignments); err != nil {
		return err
	}
	for _, a := range assignments {
		metrics.ShiftAssignmentsTotal.WithLabelValues(string(a.Shift)).Inc()
	}
	return nil
}

var errStaleJobTimeout = errors.New("worker timeout: job exceeded processing deadline")
