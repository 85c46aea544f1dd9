package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/domain"
	"github.com/CiceroLino/full-stack-technical-assessment/internal/repository"
)

type CreateTaskInput struct {
	Title       string
	Description *string
	Status      domain.TaskStatus
}

// OptionalString distinguishes an absent field from an explicit null.
type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// UpdateTaskInput is a partial update. Nil fields keep their stored value.
type UpdateTaskInput struct {
	Title       *string
	Description OptionalString
	Status      *domain.TaskStatus
}

// TaskService exposes task operations scoped to the calling user. A task
// owned by someone else is reported as not found.
type TaskService interface {
	Create(ctx context.Context, ownerID string, in CreateTaskInput) (*domain.Task, error)
	List(ctx context.Context, ownerID string) ([]domain.Task, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Task, error)
	Update(ctx context.Context, ownerID, id string, in UpdateTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, ownerID, id string) error
	Stats(ctx context.Context, ownerID string) (domain.TaskStats, error)
}

type taskService struct {
	tasks repository.TaskRepository
	now   func() time.Time
}

func NewTaskService(tasks repository.TaskRepository) TaskService {
	return &taskService{
		tasks: tasks,
		now:   time.Now,
	}
}

func (s *taskService) Create(ctx context.Context, ownerID string, in CreateTaskInput) (*domain.Task, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = domain.TaskStatusPending
	}
	if err := validateStatus(status); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	task := &domain.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: normalizeDescription(in.Description),
		Status:      status,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) List(ctx context.Context, ownerID string) ([]domain.Task, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.tasks.ListByOwner(ctx, ownerID)
}

func (s *taskService) Get(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	id, err := CanonicalTaskID(id)
	if err != nil {
		return nil, err
	}
	return s.tasks.GetByOwner(ctx, ownerID, id)
}

func (s *taskService) Update(ctx context.Context, ownerID, id string, in UpdateTaskInput) (*domain.Task, error) {
	task, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title, err := normalizeTitle(*in.Title)
		if err != nil {
			return nil, err
		}
		task.Title = title
	}
	if in.Description.Set {
		task.Description = normalizeDescription(in.Description.Value)
	}
	if in.Status != nil {
		if err := validateStatus(*in.Status); err != nil {
			return nil, err
		}
		task.Status = *in.Status
	}

	updatedAt := s.now().UTC()
	if !updatedAt.After(task.UpdatedAt) {
		updatedAt = task.UpdatedAt.Add(time.Microsecond)
	}
	task.UpdatedAt = updatedAt

	// the row may have been deleted since the lookup; the owner-scoped UPDATE reports that as not found
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return domain.ErrUnauthenticated
	}
	id, err := CanonicalTaskID(id)
	if err != nil {
		return err
	}
	return s.tasks.DeleteByOwner(ctx, ownerID, id)
}

func (s *taskService) Stats(ctx context.Context, ownerID string) (domain.TaskStats, error) {
	if ownerID == "" {
		return domain.TaskStats{}, domain.ErrUnauthenticated
	}
	counts, err := s.tasks.CountByStatus(ctx, ownerID)
	if err != nil {
		return domain.TaskStats{}, fmt.Errorf("task stats: %w", err)
	}

	stats := domain.TaskStats{
		Completed:  counts[domain.TaskStatusCompleted],
		Pending:    counts[domain.TaskStatusPending],
		InProgress: counts[domain.TaskStatusInProgress],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}
