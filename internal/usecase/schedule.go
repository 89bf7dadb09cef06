package usecase

import (
	"context"
	"time"

	"github.com/shiftsched/workforce/internal/cache"
	"github.com/shiftsched/workforce/internal/dispatcher"
	"github.com/shiftsched/workforce/internal/domain"
	"github.com/shiftsched/workforce/internal/repository"
)

// ScheduleUsecase implements the scheduling service's three HTTP
// operations (§6.1): intake, status, result. It owns the boundary
// between the HTTP layer and the job store plus dispatcher queue,
// grounded on the teacher's ScheduleUsecase / JobUsecase split.
type ScheduleUsecase struct {
	jobRepo        repository.JobRepository
	assignmentRepo repository.AssignmentRepository
	dispatcher     *dispatcher.Dispatcher
	cache          cache.Cache
}

func NewScheduleUsecase(jobRepo repository.JobRepository, assignmentRepo repository.AssignmentRepository, d *dispatcher.Dispatcher, c cache.Cache) *ScheduleUsecase {
	return &ScheduleUsecase{
		jobRepo:        jobRepo,
		assignmentRepo: assignmentRepo,
		dispatcher:     d,
		cache:          c,
	}
}

// Create validates the request, persists a PENDING job, and enqueues it
// for the dispatcher worker. A submit failure (queue full and ctx
// canceled) surfaces to the caller as an internal error; the job row was
// already persisted and stays PENDING.
func (u *ScheduleUsecase) Create(ctx context.Context, staffGroupID string, periodBeginDate time.Time) (*domain.ScheduleJob, error) {
	if !domain.IsMonday(periodBeginDate) {
		return nil, domain.InvalidInput("period_begin_date must fall on a Monday")
	}

	job, err := u.jobRepo.Create(ctx, &domain.ScheduleJob{
		StaffGroupID:    staffGroupID,
		PeriodBeginDate: periodBeginDate,
	})
	if err != nil {
		return nil, err
	}

	if err := u.dispatcher.Submit(ctx, job.ID, staffGroupID, periodBeginDate); err != nil {
		return nil, domain.InternalError("enqueue schedule job", err)
	}

	return job, nil
}

func (u *ScheduleUsecase) GetStatus(ctx context.Context, jobID string) (*domain.ScheduleJob, error) {
	return u.jobRepo.FindByID(ctx, jobID)
}

// ScheduleResult is the §6.1 GET /schedules/{id} response shape.
type ScheduleResult struct {
	ScheduleJobID   string                    `json:"schedule_id"`
	PeriodBeginDate time.Time                 `json:"period_begin_date"`
	StaffGroupID    string                    `json:"staff_group_id"`
	Assignments     []*domain.ShiftAssignment `json:"assignments"`
}

// GetResult returns the persisted assignment set for a COMPLETED job,
// consulting the cache first. Any other status is InvalidInput: the
// caller should poll GetStatus instead.
func (u *ScheduleUsecase) GetResult(ctx context.Context, jobID string) (*ScheduleResult, error) {
	key := cache.ScheduleResultKey(jobID)
	var cached ScheduleResult
	if u.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	job, err := u.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobCompleted {
		return nil, domain.InvalidInput("schedule job is not completed; poll /status")
	}

	assignments, err := u.assignmentRepo.FindByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	result := &ScheduleResult{
		ScheduleJobID:   job.ID,
		PeriodBeginDate: job.PeriodBeginDate,
		StaffGroupID:    job.StaffGroupID,
		Assignments:     assignments,
	}
	u.cache.Set(ctx, key, result, cache.ScheduleResultTTL)
	return result, nil
}
