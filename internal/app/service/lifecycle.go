package service

import (
	"context"
	"errors"

	"todoapp/internal/core/domain"
)

// SoftDelete marks an active todo as deleted. A missing or already deleted todo
// is reported through RemoveResult.Found rather than an error.
func (s *TodoService) SoftDelete(ctx context.Context, id string) (domain.RemoveResult, error) {
	todo, err := s.todoRepository.FindActive(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			return domain.RemoveResult{Found: false}, nil
		}
		return domain.RemoveResult{}, &domain.PersistenceError{Op: "find todo", Err: err}
	}

	ok, err := s.todoRepository.MarkDeleted(ctx, id, s.timestamp())
	if err != nil {
		return domain.RemoveResult{}, &domain.PersistenceError{Op: "delete todo", Err: err}
	}
	if !ok {
		// Deleted by someone else between the read and the update.
		return domain.RemoveResult{Found: false}, nil
	}

	return domain.RemoveResult{Found: true, Todo: &todo}, nil
}

// Restore clears deletedAt whatever the current state, so repeating it is harmless.
func (s *TodoService) Restore(ctx context.Context, id string) (bool, error) {
	ok, err := s.todoRepository.ClearDeleted(ctx, id, s.timestamp())
	if err != nil {
		return false, &domain.PersistenceError{Op: "restore todo", Err: err}
	}
	return ok, nil
}
