package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/domain"
	"github.com/CiceroLino/full-stack-technical-assessment/internal/repository"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) repository.TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO tasks (id, title, description, status, user_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.ID,
		task.Title,
		nullString(task.Description),
		string(task.Status),
		task.UserID,
		task.CreatedAt.UTC(),
		task.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, description, status, user_id, created_at, updated_at
FROM tasks
WHERE user_id = ?
ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	return tasks, rows.Err()
}

func (r *TaskRepository) GetByOwner(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, description, status, user_id, created_at, updated_at
FROM tasks
WHERE id = ? AND user_id = ?`,
		id,
		ownerID,
	)
	return scanTask(row)
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE tasks
SET title=?, description=?, status=?, updated_at=?
WHERE id=? AND user_id=?`,
		task.Title,
		nullString(task.Description),
		string(task.Status),
		task.UpdatedAt.UTC(),
		task.ID,
		task.UserID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("task update rows affected: %w", err)
	}
	if aff == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) DeleteByOwner(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id=? AND user_id=?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("task delete rows affected: %w", err)
	}
	if aff == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) CountByStatus(ctx context.Context, ownerID string) (map[domain.TaskStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT status, COUNT(*)
FROM tasks
WHERE user_id = ?
GROUP BY status`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.TaskStatus]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan task count: %w", err)
		}
		counts[domain.TaskStatus(status)] = n
	}
	return counts, rows.Err()
}

func scanTask(scanner interface {
	Scan(dest ...any) error
}) (*domain.Task, error) {
	var (
		task        domain.Task
		status      string
		description sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
	)

	if err := scanner.Scan(
		&task.ID,
		&task.Title,
		&description,
		&status,
		&task.UserID,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}

	task.Status = domain.TaskStatus(status)
	task.CreatedAt = createdAt.UTC()
	task.UpdatedAt = updatedAt.UTC()
	if description.Valid {
		d := description.String
		task.Description = &d
	}

	return &task, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
