package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const MaxTitleLength = 200

type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusActive    StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
)

// ParseStatusFilter accepts the three listing filters; an empty value means all.
func ParseStatusFilter(value string) (StatusFilter, error) {
	switch StatusFilter(value) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusActive, StatusCompleted:
		return StatusFilter(value), nil
	}
	return "", &ValidationError{Field: "status", Reason: "must be one of all, active, completed"}
}

type Todo struct {
	ID        string
	Title     string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func (t Todo) IsDeleted() bool {
	return t.DeletedAt != nil
}

// RemoveResult carries the row as it was before the soft delete so callers can offer an undo.
type RemoveResult struct {
	Found bool
	Todo  *Todo
}

// NormalizeTitle trims the title and checks its length in characters.
func NormalizeTitle(title string) (string, error) {
	value := strings.TrimSpace(title)
	if value == "" {
		return "", &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(value) > MaxTitleLength {
		return "", &ValidationError{Field: "title", Reason: "must be at most 200 characters"}
	}
	return value, nil
}
