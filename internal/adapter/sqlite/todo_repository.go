package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"todoapp/internal/core/domain"
	"todoapp/internal/core/ports"
)

// todoRecord maps the Todo table. Timestamps are written by the service, so
// gorm's automatic time tracking is switched off.
type todoRecord struct {
	ID        string     `gorm:"column:id;primaryKey"`
	Title     string     `gorm:"column:title;not null"`
	Completed bool       `gorm:"column:completed;not null;default:false"`
	CreatedAt time.Time  `gorm:"column:createdAt;not null;autoCreateTime:false;index:Todo_deletedAt_createdAt_idx,priority:2"`
	UpdatedAt time.Time  `gorm:"column:updatedAt;not null;autoUpdateTime:false"`
	DeletedAt *time.Time `gorm:"column:deletedAt;index:Todo_deletedAt_createdAt_idx,priority:1"`
}

func (todoRecord) TableName() string {
	return "Todo"
}

var (
	newestFirst = []clause.OrderByColumn{
		{Column: clause.Column{Name: "createdAt"}, Desc: true},
		{Column: clause.Column{Name: "id"}, Desc: true},
	}
	recentlyDeletedFirst = []clause.OrderByColumn{
		{Column: clause.Column{Name: "deletedAt"}, Desc: true},
		{Column: clause.Column{Name: "id"}, Desc: true},
	}
	isActive  = clause.Eq{Column: clause.Column{Name: "deletedAt"}, Value: nil}
	isDeleted = clause.Neq{Column: clause.Column{Name: "deletedAt"}, Value: nil}
)

type TodoRepository struct {
	db *gorm.DB
}

var _ ports.TodoRepository = (*TodoRepository)(nil)

func NewTodoRepository(db *gorm.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Insert(ctx context.Context, todo domain.Todo) error {
	record := todoRecord{
		ID:        todo.ID,
		Title:     todo.Title,
		Completed: todo.Completed,
		CreatedAt: todo.CreatedAt,
		UpdatedAt: todo.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

func (r *TodoRepository) FindActive(ctx context.Context, id string) (domain.Todo, error) {
	var record todoRecord
	err := r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: "id"}, Value: id}).
		Where(isActive).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Todo{}, domain.ErrTodoNotFound
		}
		return domain.Todo{}, fmt.Errorf("failed to find todo: %w", err)
	}
	return record.toDomain(), nil
}

func (r *TodoRepository) List(ctx context.Context, filter domain.StatusFilter) ([]domain.Todo, error) {
	query := r.db.WithContext(ctx).Where(isActive)
	switch filter {
	case domain.StatusActive:
		query = query.Where(clause.Eq{Column: clause.Column{Name: "completed"}, Value: false})
	case domain.StatusCompleted:
		query = query.Where(clause.Eq{Column: clause.Column{Name: "completed"}, Value: true})
	}
	return r.find(query.Clauses(clause.OrderBy{Columns: newestFirst}))
}

func (r *TodoRepository) ListDeleted(ctx context.Context) ([]domain.Todo, error) {
	return r.find(r.db.WithContext(ctx).Where(isDeleted).Clauses(clause.OrderBy{Columns: recentlyDeletedFirst}))
}

func (r *TodoRepository) SetCompleted(ctx context.Context, id string, completed bool, at time.Time) (bool, error) {
	return r.updateActive(ctx, id, map[string]any{"completed": completed, "updatedAt": at})
}

func (r *TodoRepository) SetTitle(ctx context.Context, id, title string, at time.Time) (bool, error) {
	return r.updateActive(ctx, id, map[string]any{"title": title, "updatedAt": at})
}

func (r *TodoRepository) MarkDeleted(ctx context.Context, id string, at time.Time) (bool, error) {
	return r.updateActive(ctx, id, map[string]any{"deletedAt": at, "updatedAt": at})
}

func (r *TodoRepository) ClearDeleted(ctx context.Context, id string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&todoRecord{}).
		Where(clause.Eq{Column: clause.Column{Name: "id"}, Value: id}).
		Updates(map[string]any{"deletedAt": nil, "updatedAt": at})
	if err := result.Error; err != nil {
		return false, fmt.Errorf("failed to restore todo: %w", err)
	}
	return result.RowsAffected > 0, nil
}

func (r *TodoRepository) updateActive(ctx context.Context, id string, values map[string]any) (bool, error) {
	result := r.db.WithContext(ctx).Model(&todoRecord{}).
		Where(clause.Eq{Column: clause.Column{Name: "id"}, Value: id}).
		Where(isActive).
		Updates(values)
	if err := result.Error; err != nil {
		return false, fmt.Errorf("failed to update todo: %w", err)
	}
	return result.RowsAffected > 0, nil
}

func (r *TodoRepository) find(query *gorm.DB) ([]domain.Todo, error) {
	var records []todoRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to find todos: %w", err)
	}

	todos := make([]domain.Todo, 0, len(records))
	for _, record := range records {
		todos = append(todos, record.toDomain())
	}
	return todos, nil
}

func (r todoRecord) toDomain() domain.Todo {
	todo := domain.Todo{
		ID:        r.ID,
		Title:     r.Title,
		Completed: r.Completed,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
	if r.DeletedAt != nil {
		value := r.DeletedAt.UTC()
		todo.DeletedAt = &value
	}
	return todo
}
