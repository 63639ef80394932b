package ports

import (
	"context"
	"time"

	"todoapp/internal/core/domain"
)

// TodoRepository is the record store. Every mutating method is a single guarded
// UPDATE and reports whether a row matched.
type TodoRepository interface {
	Insert(ctx context.Context, todo domain.Todo) error
	FindActive(ctx context.Context, id string) (domain.Todo, error)
	List(ctx context.Context, filter domain.StatusFilter) ([]domain.Todo, error)
	ListDeleted(ctx context.Context) ([]domain.Todo, error)
	SetCompleted(ctx context.Context, id string, completed bool, at time.Time) (bool, error)
	SetTitle(ctx context.Context, id, title string, at time.Time) (bool, error)
	MarkDeleted(ctx context.Context, id string, at time.Time) (bool, error)
	ClearDeleted(ctx context.Context, id string, at time.Time) (bool, error)
}

// TodoService is the operation surface consumed by clients, in process or over HTTP.
type TodoService interface {
	List(ctx context.Context, filter domain.StatusFilter) ([]domain.Todo, error)
	ListDeleted(ctx context.Context) ([]domain.Todo, error)
	Create(ctx context.Context, title string) (domain.Todo, error)
	Toggle(ctx context.Context, id string, completed bool) (bool, error)
	UpdateTitle(ctx context.Context, id, title string) (bool, error)
	Remove(ctx context.Context, id string) (domain.RemoveResult, error)
	Restore(ctx context.Context, id string) (bool, error)
}
