package task

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/firetask/backend/domain"
)

type fakeTaskRepo struct {
	tasks   map[string]*domain.Task
	updates []domain.TaskFields
	nextID  int
	getErr  error
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[string]*domain.Task{}}
}

func (f *fakeTaskRepo) Get(_ context.Context, id string) (*domain.Task, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	task, ok := f.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (f *fakeTaskRepo) ListByOwner(_ context.Context, uid string) ([]domain.Task, error) {
	var tasks []domain.Task
	for _, task := range f.tasks {
		if task.UserID == uid {
			tasks = append(tasks, *task)
		}
	}
	return tasks, nil
}

func (f *fakeTaskRepo) Create(_ context.Context, task *domain.Task) (string, error) {
	f.nextID++
	id := fmt.Sprintf("task-%d", f.nextID)
	stored := *task
	stored.ID = id
	f.tasks[id] = &stored
	return id, nil
}

func (f *fakeTaskRepo) UpdateFields(_ context.Context, id string, fields domain.TaskFields) error {
	task, ok := f.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	f.updates = append(f.updates, fields)
	if v, ok := fields["title"]; ok {
		task.Title = v.(string)
	}
	if v, ok := fields["description"]; ok {
		task.Description = v.(string)
	}
	if v, ok := fields["completed"]; ok {
		task.Completed = v.(bool)
	}
	return nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) Ping(context.Context) error { return nil }

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCreateTaskAssignsOwner(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil)

	id, err := uc.CreateTask(context.Background(), "u1", &domain.Task{Title: "A", Description: "B"})
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.Equal(t, "u1", repo.tasks[id].UserID)
}

func TestListTasksNeverNil(t *testing.T) {
	uc := New(newFakeTaskRepo(), nil)

	tasks, err := uc.ListTasks(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, tasks)
	require.Empty(t, tasks)
}

func TestListTasksIsolatedPerOwner(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil)

	idA, err := uc.CreateTask(context.Background(), "u1", &domain.Task{Title: "A"})
	require.NoError(t, err)
	_, err = uc.CreateTask(context.Background(), "u2", &domain.Task{Title: "B"})
	require.NoError(t, err)

	tasks, err := uc.ListTasks(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, idA, tasks[0].ID)
	require.Equal(t, "u1", tasks[0].UserID)
}

func TestUpdateTaskMissingBeforeForbidden(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil)

	// A non-owner probing a missing record gets 404, not 403.
	err := uc.UpdateTask(context.Background(), "u2", "absent", domain.TaskUpdate{Title: strPtr("X")})
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestUpdateTaskForbiddenForNonOwner(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil)

	id, err := uc.CreateTask(context.Background(), "u1", &domain.Task{Title: "A"})
	require.NoError(t, err)

	err = uc.UpdateTask(context.Background(), "u2", id, domain.TaskUpdate{Title: strPtr("X")})
	require.ErrorIs(t, err, domain.ErrForbidden)
	require.Equal(t, "A", repo.tasks[id].Title)
}

func TestUpdateTaskEmptyPartialIsNoOp(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil)

	id, err := uc.CreateTask(context.Background(), "u1", &domain.Task{Title: "A", Description: "B"})
	require.NoError(t, err)

	err = uc.UpdateTask(context.Background(), "u1", id, domain.TaskUpdate{})
	require.NoError(t, err)
	require.Empty(t, repo.updates, "empty partial update must never reach the store")
	require.Equal(t, "A", repo.tasks[id].Title)
	require.Equal(t, "B", repo.tasks[id].Description)
}

func TestUpdateTaskAppliesOnlySuppliedFields(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil)

	id, err := uc.CreateTask(context.Background(), "u1", &domain.Task{Title: "A", Description: "B"})
	require.NoError(t, err)

	err = uc.UpdateTask(context.Background(), "u1", id, domain.TaskUpdate{Completed: boolPtr(true)})
	require.NoError(t, err)

	require.Len(t, repo.updates, 1)
	require.Equal(t, domain.TaskFields{"completed": true}, repo.updates[0])
	require.Equal(t, "A", repo.tasks[id].Title)
	require.Equal(t, "B", repo.tasks[id].Description)
	require.True(t, repo.tasks[id].Completed)
}

func TestUpdateTaskExplicitZeroValuesApply(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil)

	id, err := uc.CreateTask(context.Background(), "u1", &domain.Task{Title: "A", Completed: true})
	require.NoError(t, err)

	err = uc.UpdateTask(context.Background(), "u1", id, domain.TaskUpdate{
		Title:     strPtr(""),
		Completed: boolPtr(false),
	})
	require.NoError(t, err)
	require.Equal(t, "", repo.tasks[id].Title)
	require.False(t, repo.tasks[id].Completed)
}

func TestCompleteTaskFlipsOnlyCompleted(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil)

	id, err := uc.CreateTask(context.Background(), "u1", &domain.Task{Title: "A", Description: "B"})
	require.NoError(t, err)

	require.NoError(t, uc.CompleteTask(context.Background(), "u1", id))
	require.Len(t, repo.updates, 1)
	require.Equal(t, domain.TaskFields{"completed": true}, repo.updates[0])
	require.Equal(t, "A", repo.tasks[id].Title)
}

func TestCompleteTaskGuarded(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil)

	id, err := uc.CreateTask(context.Background(), "u1", &domain.Task{Title: "A"})
	require.NoError(t, err)

	require.ErrorIs(t, uc.CompleteTask(context.Background(), "u2", id), domain.ErrForbidden)
	require.ErrorIs(t, uc.CompleteTask(context.Background(), "u1", "absent"), domain.ErrTaskNotFound)
}

func TestDeleteTaskTwice(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil)

	id, err := uc.CreateTask(context.Background(), "u1", &domain.Task{Title: "A"})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteTask(context.Background(), "u1", id))
	require.ErrorIs(t, uc.DeleteTask(context.Background(), "u1", id), domain.ErrTaskNotFound)
}

func TestDeleteTaskForbiddenForNonOwner(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil)

	id, err := uc.CreateTask(context.Background(), "u1", &domain.Task{Title: "A"})
	require.NoError(t, err)

	require.ErrorIs(t, uc.DeleteTask(context.Background(), "u2", id), domain.ErrForbidden)
	require.Contains(t, repo.tasks, id)
}

func TestStoreErrorsPropagate(t *testing.T) {
	repo := newFakeTaskRepo()
	repo.getErr = errors.New("store offline")
	uc := New(repo, nil)

	err := uc.DeleteTask(context.Background(), "u1", "t1")
	require.ErrorContains(t, err, "store offline")
}
