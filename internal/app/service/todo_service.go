package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"todoapp/internal/core/domain"
	"todoapp/internal/core/ports"
)

type TodoService struct {
	todoRepository ports.TodoRepository
	now            func() time.Time
	newID          func() string
}

type Option func(*TodoService)

// WithClock replaces the wall clock used for createdAt, updatedAt and deletedAt.
func WithClock(now func() time.Time) Option {
	return func(s *TodoService) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *TodoService) { s.newID = newID }
}

func NewTodoService(todoRepository ports.TodoRepository, opts ...Option) *TodoService {
	s := &TodoService{
		todoRepository: todoRepository,
		now:            time.Now,
		newID:          newTodoID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.TodoService = (*TodoService)(nil)

func (s *TodoService) Create(ctx context.Context, title string) (domain.Todo, error) {
	value, err := domain.NormalizeTitle(title)
	if err != nil {
		return domain.Todo{}, err
	}

	now := s.timestamp()
	todo := domain.Todo{
		ID:        s.newID(),
		Title:     value,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.todoRepository.Insert(ctx, todo); err != nil {
		return domain.Todo{}, &domain.PersistenceError{Op: "create todo", Err: err}
	}
	return todo, nil
}

// Toggle only touches active rows; a deleted row reports ok=false until restored.
func (s *TodoService) Toggle(ctx context.Context, id string, completed bool) (bool, error) {
	ok, err := s.todoRepository.SetCompleted(ctx, id, completed, s.timestamp())
	if err != nil {
		return false, &domain.PersistenceError{Op: "toggle todo", Err: err}
	}
	return ok, nil
}

func (s *TodoService) UpdateTitle(ctx context.Context, id, title string) (bool, error) {
	value, err := domain.NormalizeTitle(title)
	if err != nil {
		return false, err
	}

	ok, err := s.todoRepository.SetTitle(ctx, id, value, s.timestamp())
	if err != nil {
		return false, &domain.PersistenceError{Op: "update todo title", Err: err}
	}
	return ok, nil
}

func (s *TodoService) Remove(ctx context.Context, id string) (domain.RemoveResult, error) {
	return s.SoftDelete(ctx, id)
}

// timestamp drops precision the SQL engines cannot store so values round-trip unchanged.
func (s *TodoService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func newTodoID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
