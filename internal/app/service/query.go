package service

import (
	"context"

	"todoapp/internal/core/domain"
)

func (s *TodoService) List(ctx context.Context, filter domain.StatusFilter) ([]domain.Todo, error) {
	filter, err := domain.ParseStatusFilter(string(filter))
	if err != nil {
		return nil, err
	}

	todos, err := s.todoRepository.List(ctx, filter)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list todos", Err: err}
	}
	return todos, nil
}

func (s *TodoService) ListDeleted(ctx context.Context) ([]domain.Todo, error) {
	todos, err := s.todoRepository.ListDeleted(ctx)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list deleted todos", Err: err}
	}
	return todos, nil
}
