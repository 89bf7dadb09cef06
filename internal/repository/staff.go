package repository

import (
	"context"

	"github.com/shiftsched/workforce/internal/domain"
)

type StaffUpdate struct {
	Name     *string
	Email    *string
	Position *string
	Status   *domain.StaffStatus
}

type StaffRepository interface {
	Create(ctx context.Context, s *domain.Staff) (*domain.Staff, error)
	FindByID(ctx context.Context, id string) (*domain.Staff, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Staff, error)
	Update(ctx context.Context, id string, patch StaffUpdate) (*domain.Staff, error)
	Delete(ctx context.Context, id string) error
}
