package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/taskhive/core/internal/domain/entities"
	"github.com/taskhive/core/internal/ports"
)

// TaskRepositoryImpl implements the TaskRepository interface on Postgres.
// The owner id is part of every WHERE clause, so a task belonging to another
// owner is indistinguishable from a missing one.
type TaskRepositoryImpl struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sqlx.DB) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

const taskColumns = `id, title, description, due_date, is_completed, tags, priority, owner_id, created_at, updated_at`

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) error {
	query := `
		INSERT INTO tasks (id, title, description, due_date, is_completed, tags, priority, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.Title, task.Description, task.DueDate,
		task.IsCompleted, pq.Array(task.Tags), task.Priority, task.OwnerID,
	).Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, ownerID, taskID uuid.UUID) (*entities.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND owner_id = $2`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, taskID, ownerID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task by id: %w", err)
	}

	return task, nil
}

func (r *TaskRepositoryImpl) List(ctx context.Context, ownerID uuid.UUID, filter ports.TaskFilter) ([]*entities.Task, error) {
	query, args := buildListQuery(ownerID, filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*entities.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, task *entities.Task) error {
	query := `
		UPDATE tasks
		SET title = $3, description = $4, due_date = $5, is_completed = $6,
			tags = $7, priority = $8, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND owner_id = $2
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.OwnerID, task.Title, task.Description, task.DueDate,
		task.IsCompleted, pq.Array(task.Tags), task.Priority,
	).Scan(&task.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return entities.ErrTaskNotFound
		}
		return fmt.Errorf("update task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	query := `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`

	result, err := r.db.ExecContext(ctx, query, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTaskNotFound
	}

	return nil
}

// buildListQuery assembles the filtered listing. The owner predicate is
// unconditional; filter fields append clauses only when set. Results are
// newest first, ties broken by id for a stable order.
func buildListQuery(ownerID uuid.UUID, filter ports.TaskFilter) (string, []interface{}) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1`

	args := []interface{}{ownerID}
	argIndex := 2

	if filter.Completed != nil {
		query += fmt.Sprintf(" AND is_completed = $%d", argIndex)
		args = append(args, *filter.Completed)
		argIndex++
	}

	if filter.Tag != nil {
		query += fmt.Sprintf(" AND $%d = ANY(tags)", argIndex)
		args = append(args, *filter.Tag)
		argIndex++
	}

	if filter.Priority != nil {
		query += fmt.Sprintf(" AND priority = $%d", argIndex)
		args = append(args, *filter.Priority)
		argIndex++
	}

	if filter.DueAfter != nil {
		query += fmt.Sprintf(" AND due_date >= $%d", argIndex)
		args = append(args, *filter.DueAfter)
		argIndex++
	}

	if filter.DueBefore != nil {
		query += fmt.Sprintf(" AND due_date < $%d", argIndex)
		args = append(args, *filter.DueBefore)
		argIndex++
	}

	query += " ORDER BY created_at DESC, id DESC"

	return query, args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*entities.Task, error) {
	var task entities.Task
	err := row.Scan(
		&task.ID, &task.Title, &task.Description, &task.DueDate,
		&task.IsCompleted, pq.Array(&task.Tags), &task.Priority,
		&task.OwnerID, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}
