package api

import (
	"context"

	"todo-api/domain"
)

// Storage abstracts persistence for handlers.
type Storage interface {
	InsertTask(ctx context.Context, t domain.TaskCreate) (string, error)
	ListTasks(ctx context.Context, f domain.ListFilter) ([]domain.Task, error)
	UpdateTask(ctx context.Context, id string, changes domain.TaskUpdate) (domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	CollectionNames(ctx context.Context) ([]string, error)
	Connected() bool
}

// NotFoundError is returned by a Storage when no document matches the
// requested identifier.
type NotFoundError interface {
	error
	NotFound()
}
