package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shiftsched/workforce/internal/usecase"
)

type ScheduleHandler struct {
	usecase *usecase.ScheduleUsecase
	logger  *slog.Logger
}

func NewScheduleHandler(u *usecase.ScheduleUsecase, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{usecase: u, logger: logger.With("component", "schedule_handler")}
}

type createScheduleRequest struct {
	StaffGroupID    string `json:"staff_group_id" binding:"required,uuid"`
	PeriodBeginDate string `json:"period_begin_date" binding:"required"`
}

type createScheduleResponse struct {
	ScheduleID string `json:"schedule_id"`
	Status     string `json:"status"`
}

// Create implements POST /api/v1/schedules (§6.1).
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req createScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	periodBeginDate, err := time.Parse("2006-01-02", req.PeriodBeginDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period_begin_date must be YYYY-MM-DD"})
		return
	}

	job, err := h.usecase.Create(c.Request.Context(), req.StaffGroupID, periodBeginDate)
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusAccepted, createScheduleResponse{
		ScheduleID: job.ID,
		Status:     string(job.Status),
	})
}

type scheduleStatusResponse struct {
	ScheduleID      string     `json:"schedule_id"`
	StaffGroupID    string     `json:"staff_group_id"`
	PeriodBeginDate time.Time  `json:"period_begin_date"`
	Status          string     `json:"status"`
	ErrorMessage    *string    `json:"error_message,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// Status implements GET /api/v1/schedules/{id}/status (§6.1).
func (h *ScheduleHandler) Status(c *gin.Context) {
	job, err := h.usecase.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, scheduleStatusResponse{
		ScheduleID:      job.ID,
		StaffGroupID:    job.StaffGroupID,
		PeriodBeginDate: job.PeriodBeginDate,
		Status:          string(job.Status),
		ErrorMessage:    job.ErrorMessage,
		CreatedAt:       job.CreatedAt,
		UpdatedAt:       job.UpdatedAt,
		CompletedAt:     job.CompletedAt,
	})
}

// Result implements GET /api/v1/schedules/{id} (§6.1).
func (h *ScheduleHandler) Result(c *gin.Context) {
	result, err := h.usecase.GetResult(c.Request.Context(), c.Param("id"))
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
