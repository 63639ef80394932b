package validation

import (
	"errors"
	"strings"

	"todoapp/internal/core/domain"
)

var (
	ErrInvalidTodoID      = errors.New("invalid todo id")
	ErrInvalidTodoPayload = errors.New("invalid todo payload")
)

// TodoID validates the :id path parameter. Ids are opaque, so only blank and
// oversized values are rejected here.
func TodoID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > 64 {
		return "", ErrInvalidTodoID
	}
	return id, nil
}

// StatusFilter reads the ?status query value.
func StatusFilter(raw string) (domain.StatusFilter, error) {
	return domain.ParseStatusFilter(strings.ToLower(strings.TrimSpace(raw)))
}
