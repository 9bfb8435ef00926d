package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/firetask/backend/domain"
	"github.com/firetask/backend/repository"
)

// UseCase implements the task operations together with the per-record
// ownership check.
type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
	}
}

func (uc *UseCase) ListTasks(ctx context.Context, callerUID string) ([]domain.Task, error) {
	tasks, err := uc.tasks.ListByOwner(ctx, callerUID)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

func (uc *UseCase) CreateTask(ctx context.Context, callerUID string, task *domain.Task) (string, error) {
	if task == nil {
		return "", domain.ErrInvalidPayload
	}
	task.UserID = callerUID

	id, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return "", err
	}
	uc.logger.Debug("task created", zap.String("task_id", id))
	return id, nil
}

func (uc *UseCase) UpdateTask(ctx context.Context, callerUID, id string, update domain.TaskUpdate) error {
	if err := uc.authorize(ctx, callerUID, id); err != nil {
		return err
	}

	fields := update.Fields()
	if len(fields) == 0 {
		// Empty partial update is a successful no-op.
		return nil
	}
	return uc.tasks.UpdateFields(ctx, id, fields)
}

func (uc *UseCase) CompleteTask(ctx context.Context, callerUID, id string) error {
	if err := uc.authorize(ctx, callerUID, id); err != nil {
		return err
	}
	return uc.tasks.UpdateFields(ctx, id, domain.TaskFields{"completed": true})
}

func (uc *UseCase) DeleteTask(ctx context.Context, callerUID, id string) error {
	if err := uc.authorize(ctx, callerUID, id); err != nil {
		return err
	}
	return uc.tasks.Delete(ctx, id)
}

// authorize fetches the record and enforces ownership. Existence is checked
// before ownership: a missing record is always 404, a record owned by someone
// else is 403.
func (uc *UseCase) authorize(ctx context.Context, callerUID, id string) error {
	task, err := uc.tasks.Get(ctx, id)
	if err != nil {
		return err
	}
	if task.UserID != callerUID {
		return domain.ErrForbidden
	}
	return nil
}
