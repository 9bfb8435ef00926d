package repository

import (
	"context"

	"github.com/firetask/backend/domain"
)

// TaskRepository abstracts the document store holding task records so the HTTP
// layer never depends on a specific backend's client shape.
type TaskRepository interface {
	// Get returns the stored task or domain.ErrTaskNotFound.
	Get(ctx context.Context, id string) (*domain.Task, error)
	// ListByOwner returns every task owned by uid, in store-native order.
	ListByOwner(ctx context.Context, uid string) ([]domain.Task, error)
	// Create persists the task under a store-assigned id and returns that id.
	Create(ctx context.Context, task *domain.Task) (string, error)
	// UpdateFields merges only the supplied keys into the stored record.
	UpdateFields(ctx context.Context, id string, fields domain.TaskFields) error
	// Delete removes the record; missing records yield domain.ErrTaskNotFound.
	Delete(ctx context.Context, id string) error
	// Ping reports backend reachability for health checks.
	Ping(ctx context.Context) error
}
