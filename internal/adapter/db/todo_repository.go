package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"todoapp/internal/core/domain"
	"todoapp/internal/core/ports"
)

// Queries are written with {{name}} identifiers and ? placeholders, then quoted
// and rebound for the dialect once at construction.
const (
	insertTodoQuery = `
INSERT INTO {{Todo}} ({{id}}, {{title}}, {{completed}}, {{createdAt}}, {{updatedAt}}, {{deletedAt}})
VALUES (?, ?, ?, ?, ?, NULL)`

	findActiveTodoQuery = `
SELECT {{id}}, {{title}}, {{completed}}, {{createdAt}}, {{updatedAt}}, {{deletedAt}}
FROM {{Todo}}
WHERE {{id}} = ? AND {{deletedAt}} IS NULL`

	listTodosQuery = `
SELECT {{id}}, {{title}}, {{completed}}, {{createdAt}}, {{updatedAt}}, {{deletedAt}}
FROM {{Todo}}
WHERE {{deletedAt}} IS NULL
ORDER BY {{createdAt}} DESC, {{id}} DESC`

	listTodosByCompletedQuery = `
SELECT {{id}}, {{title}}, {{completed}}, {{createdAt}}, {{updatedAt}}, {{deletedAt}}
FROM {{Todo}}
WHERE {{deletedAt}} IS NULL AND {{completed}} = ?
ORDER BY {{createdAt}} DESC, {{id}} DESC`

	listDeletedTodosQuery = `
SELECT {{id}}, {{title}}, {{completed}}, {{createdAt}}, {{updatedAt}}, {{deletedAt}}
FROM {{Todo}}
WHERE {{deletedAt}} IS NOT NULL
ORDER BY {{deletedAt}} DESC, {{id}} DESC`

	setCompletedQuery = `
UPDATE {{Todo}} SET {{completed}} = ?, {{updatedAt}} = ?
WHERE {{id}} = ? AND {{deletedAt}} IS NULL`

	setTitleQuery = `
UPDATE {{Todo}} SET {{title}} = ?, {{updatedAt}} = ?
WHERE {{id}} = ? AND {{deletedAt}} IS NULL`

	markDeletedQuery = `
UPDATE {{Todo}} SET {{deletedAt}} = ?, {{updatedAt}} = ?
WHERE {{id}} = ? AND {{deletedAt}} IS NULL`

	clearDeletedQuery = `
UPDATE {{Todo}} SET {{deletedAt}} = NULL, {{updatedAt}} = ?
WHERE {{id}} = ?`
)

var identifiers = []string{"Todo", "id", "title", "completed", "createdAt", "updatedAt", "deletedAt"}

type TodoRepository struct {
	db      *sqlx.DB
	queries map[string]string
}

type todoRow struct {
	ID        string       `db:"id"`
	Title     string       `db:"title"`
	Completed bool         `db:"completed"`
	CreatedAt time.Time    `db:"createdAt"`
	UpdatedAt time.Time    `db:"updatedAt"`
	DeletedAt sql.NullTime `db:"deletedAt"`
}

var _ ports.TodoRepository = (*TodoRepository)(nil)

func NewTodoRepository(db *sqlx.DB, dialect Dialect) *TodoRepository {
	quote := `"`
	if dialect == DialectMySQL {
		quote = "`"
	}

	pairs := make([]string, 0, len(identifiers)*2)
	for _, name := range identifiers {
		pairs = append(pairs, "{{"+name+"}}", quote+name+quote)
	}
	replacer := strings.NewReplacer(pairs...)

	queries := map[string]string{}
	for name, query := range map[string]string{
		"insert":          insertTodoQuery,
		"findActive":      findActiveTodoQuery,
		"list":            listTodosQuery,
		"listByCompleted": listTodosByCompletedQuery,
		"listDeleted":     listDeletedTodosQuery,
		"setCompleted":    setCompletedQuery,
		"setTitle":        setTitleQuery,
		"markDeleted":     markDeletedQuery,
		"clearDeleted":    clearDeletedQuery,
	} {
		queries[name] = db.Rebind(replacer.Replace(query))
	}

	return &TodoRepository{db: db, queries: queries}
}

func (r *TodoRepository) Insert(ctx context.Context, todo domain.Todo) error {
	_, err := r.db.ExecContext(ctx, r.queries["insert"], todo.ID, todo.Title, todo.Completed, todo.CreatedAt, todo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

func (r *TodoRepository) FindActive(ctx context.Context, id string) (domain.Todo, error) {
	var row todoRow
	if err := r.db.GetContext(ctx, &row, r.queries["findActive"], id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Todo{}, domain.ErrTodoNotFound
		}
		return domain.Todo{}, fmt.Errorf("find todo: %w", err)
	}
	return mapTodoRowToDomainTodo(row), nil
}

func (r *TodoRepository) List(ctx context.Context, filter domain.StatusFilter) ([]domain.Todo, error) {
	switch filter {
	case domain.StatusActive:
		return r.selectTodos(ctx, r.queries["listByCompleted"], false)
	case domain.StatusCompleted:
		return r.selectTodos(ctx, r.queries["listByCompleted"], true)
	default:
		return r.selectTodos(ctx, r.queries["list"])
	}
}

func (r *TodoRepository) ListDeleted(ctx context.Context) ([]domain.Todo, error) {
	return r.selectTodos(ctx, r.queries["listDeleted"])
}

func (r *TodoRepository) SetCompleted(ctx context.Context, id string, completed bool, at time.Time) (bool, error) {
	return r.update(ctx, r.queries["setCompleted"], completed, at, id)
}

func (r *TodoRepository) SetTitle(ctx context.Context, id, title string, at time.Time) (bool, error) {
	return r.update(ctx, r.queries["setTitle"], title, at, id)
}

func (r *TodoRepository) MarkDeleted(ctx context.Context, id string, at time.Time) (bool, error) {
	return r.update(ctx, r.queries["markDeleted"], at, at, id)
}

func (r *TodoRepository) ClearDeleted(ctx context.Context, id string, at time.Time) (bool, error) {
	return r.update(ctx, r.queries["clearDeleted"], at, id)
}

func (r *TodoRepository) selectTodos(ctx context.Context, query string, args ...any) ([]domain.Todo, error) {
	var rows []todoRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select todos: %w", err)
	}

	todos := make([]domain.Todo, 0, len(rows))
	for _, row := range rows {
		todos = append(todos, mapTodoRowToDomainTodo(row))
	}

	return todos, nil
}

func (r *TodoRepository) update(ctx context.Context, query string, args ...any) (bool, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update todo: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update todo: %w", err)
	}
	return affected > 0, nil
}

func mapTodoRowToDomainTodo(row todoRow) domain.Todo {
	todo := domain.Todo{
		ID:        row.ID,
		Title:     row.Title,
		Completed: row.Completed,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}

	if row.DeletedAt.Valid {
		value := row.DeletedAt.Time.UTC()
		todo.DeletedAt = &value
	}

	return todo
}
