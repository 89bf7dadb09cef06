package domain

import "time"

type JobStatus string

const (
	JobPending    JobStatus = "PENDING"
	JobProcessing JobStatus = "PROCESSING"
	JobCompleted  JobStatus = "COMPLETED"
	JobFailed     JobStatus = "FAILED"
)

// legalTransitions enumerates the only status changes the job store will
// accept (§3 ScheduleJob lifecycle). Anything else is ErrIllegalTransition.
var legalTransitions = map[JobStatus][]JobStatus{
	JobPending:    {JobProcessing},
	JobProcessing: {JobCompleted, JobFailed},
}

func CanTransition(from, to JobStatus) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type ScheduleJob struct {
	ID              string     `json:"id"`
	StaffGroupID    string     `json:"staff_group_id"`
	PeriodBeginDate time.Time  `json:"period_begin_date"`
	Status          JobStatus  `json:"status"`
	ErrorMessage    *string    `json:"error_message,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

type Shift string

const (
	ShiftMorning Shift = "MORNING"
	ShiftEvening Shift = "EVENING"
	ShiftDayOff  Shift = "DAY_OFF"
)

type ShiftAssignment struct {
	ID            string    `json:"id"`
	ScheduleJobID string    `json:"schedule_job_id"`
	StaffID       string    `json:"staff_id"`
	Date          time.Time `json:"date"`
	Shift         Shift     `json:"shift"`
	CreatedAt     time.Time `json:"created_at"`
}
