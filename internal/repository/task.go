package repository

import (
	"context"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/domain"
)

// TaskRepository exposes owner-scoped persistence operations for tasks. Every
// lookup takes the owner id and filters on it in the same query.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Task, error)
	GetByOwner(ctx context.Context, ownerID, id string) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	DeleteByOwner(ctx context.Context, ownerID, id string) error
	CountByStatus(ctx context.Context, ownerID string) (map[domain.TaskStatus]int, error)
}
