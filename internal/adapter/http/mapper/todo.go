package mapper

import (
	"fmt"
	"time"

	"todoapp/internal/adapter/http/dto"
	"todoapp/internal/core/domain"
)

func ToTodoItems(todos []domain.Todo) []dto.TodoItem {
	items := make([]dto.TodoItem, 0, len(todos))
	for _, todo := range todos {
		items = append(items, ToTodoItem(todo))
	}
	return items
}

func ToTodoItem(todo domain.Todo) dto.TodoItem {
	item := dto.TodoItem{
		ID:        todo.ID,
		Title:     todo.Title,
		Completed: todo.Completed,
		CreatedAt: todo.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: todo.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}

	if todo.DeletedAt != nil {
		value := todo.DeletedAt.UTC().Format(time.RFC3339Nano)
		item.DeletedAt = &value
	}

	return item
}

func ToRemoveTodoResponse(result domain.RemoveResult) dto.RemoveTodoResponse {
	response := dto.RemoveTodoResponse{OK: result.Found}
	if result.Found && result.Todo != nil {
		item := ToTodoItem(*result.Todo)
		response.Todo = &item
	}
	return response
}

func FromTodoItems(items []dto.TodoItem) ([]domain.Todo, error) {
	todos := make([]domain.Todo, 0, len(items))
	for _, item := range items {
		todo, err := FromTodoItem(item)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, nil
}

func FromTodoItem(item dto.TodoItem) (domain.Todo, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("parse createdAt of %s: %w", item.ID, err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, item.UpdatedAt)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("parse updatedAt of %s: %w", item.ID, err)
	}

	todo := domain.Todo{
		ID:        item.ID,
		Title:     item.Title,
		Completed: item.Completed,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}

	if item.DeletedAt != nil {
		deletedAt, err := time.Parse(time.RFC3339Nano, *item.DeletedAt)
		if err != nil {
			return domain.Todo{}, fmt.Errorf("parse deletedAt of %s: %w", item.ID, err)
		}
		todo.DeletedAt = &deletedAt
	}

	return todo, nil
}
