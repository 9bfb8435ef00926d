package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/firetask/backend/domain"
	"github.com/firetask/backend/repository"
)

// updatableColumns is the fixed set of fields a partial update may touch.
// Keys outside this list are ignored rather than interpolated into SQL.
var updatableColumns = []string{"title", "description", "completed"}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of
// TaskRepository, for deployments that self-host the record store instead of
// using the hosted document database.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) Get(ctx context.Context, id string) (*domain.Task, error) {
	const query = `
	SELECT id, user_id, title, description, completed
	FROM tasks
	WHERE id = $1
	`
	var task domain.Task
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Completed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) ListByOwner(ctx context.Context, uid string) ([]domain.Task, error) {
	const query = `
	SELECT id, user_id, title, description, completed
	FROM tasks
	WHERE user_id = $1
	`
	rows, err := r.pool.Query(ctx, query, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(&task.ID, &task.UserID, &task.Title, &task.Description, &task.Completed); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (string, error) {
	if task == nil {
		return "", domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO tasks (id, user_id, title, description, completed)
	VALUES ($1, $2, $3, $4, $5)
	`
	id := uuid.NewString()
	if _, err := r.pool.Exec(ctx, query, id, task.UserID, task.Title, task.Description, task.Completed); err != nil {
		return "", err
	}
	return id, nil
}

func (r *taskRepository) UpdateFields(ctx context.Context, id string, fields domain.TaskFields) error {
	set := make([]string, 0, len(fields))
	args := []interface{}{id}
	for _, column := range updatableColumns {
		if v, ok := fields[column]; ok {
			args = append(args, v)
			set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	if len(set) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = $1", strings.Join(set, ", "))
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
