package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shiftsched/workforce/internal/usecase"
)

type ResolvedMembersHandler struct {
	usecase *usecase.ResolvedMembersUsecase
	logger  *slog.Logger
}

func NewResolvedMembersHandler(u *usecase.ResolvedMembersUsecase, logger *slog.Logger) *ResolvedMembersHandler {
	return &ResolvedMembersHandler{usecase: u, logger: logger.With("component", "resolved_members_handler")}
}

// Get implements GET /api/v1/groups/{id}/resolved-members (§6.2).
func (h *ResolvedMembersHandler) Get(c *gin.Context) {
	groupID := c.Param("id")

	result, err := h.usecase.Get(c.Request.Context(), groupID)
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
