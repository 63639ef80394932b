// Package storetest holds the behaviour every ports.TodoRepository must share,
// run against each backing engine from that engine's own tests.
package storetest

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/suite"

	"todoapp/internal/core/domain"
	"todoapp/internal/core/ports"
)

type RepositorySuite struct {
	suite.Suite

	// NewRepository returns a repository over an empty Todo table.
	NewRepository func() ports.TodoRepository

	repo ports.TodoRepository
	ctx  context.Context
	base time.Time
	seq  int
}

func (s *RepositorySuite) SetupTest() {
	s.repo = s.NewRepository()
	s.ctx = context.Background()
	s.base = time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	s.seq = 0
}

// insert creates an active todo one second after the previous one.
func (s *RepositorySuite) insert(title string) domain.Todo {
	s.seq++
	at := s.base.Add(time.Duration(s.seq) * time.Second)
	todo := domain.Todo{
		ID:        fmt.Sprintf("todo-%03d", s.seq),
		Title:     title,
		CreatedAt: at,
		UpdatedAt: at,
	}
	s.Require().NoError(s.repo.Insert(s.ctx, todo))
	return todo
}

func (s *RepositorySuite) list(filter domain.StatusFilter) []domain.Todo {
	todos, err := s.repo.List(s.ctx, filter)
	s.Require().NoError(err)
	return todos
}

func ids(todos []domain.Todo) []string {
	out := make([]string, 0, len(todos))
	for _, todo := range todos {
		out = append(out, todo.ID)
	}
	return out
}

func (s *RepositorySuite) TestInsertThenFindActive() {
	created := s.insert("Buy milk")

	got, err := s.repo.FindActive(s.ctx, created.ID)

	s.Require().NoError(err)
	s.Require().Equal(created.ID, got.ID)
	s.Require().Equal("Buy milk", got.Title)
	s.Require().False(got.Completed)
	s.Require().True(created.CreatedAt.Equal(got.CreatedAt))
	s.Require().True(created.UpdatedAt.Equal(got.UpdatedAt))
	s.Require().Nil(got.DeletedAt)
}

func (s *RepositorySuite) TestFindActive_MissingAndDeleted() {
	_, err := s.repo.FindActive(s.ctx, "nonexistent-id")
	s.Require().ErrorIs(err, domain.ErrTodoNotFound)

	deleted := s.insert("gone")
	ok, err := s.repo.MarkDeleted(s.ctx, deleted.ID, s.base.Add(time.Hour))
	s.Require().NoError(err)
	s.Require().True(ok)

	_, err = s.repo.FindActive(s.ctx, deleted.ID)
	s.Require().ErrorIs(err, domain.ErrTodoNotFound)
}

func (s *RepositorySuite) TestList_NewestFirstWithIDTieBreak() {
	first := s.insert("first")
	second := s.insert("second")
	third := s.insert("third")

	tieAt := s.base.Add(time.Minute)
	tieA := domain.Todo{ID: "todo-tie-a", Title: "tie a", CreatedAt: tieAt, UpdatedAt: tieAt}
	tieB := domain.Todo{ID: "todo-tie-b", Title: "tie b", CreatedAt: tieAt, UpdatedAt: tieAt}
	s.Require().NoError(s.repo.Insert(s.ctx, tieA))
	s.Require().NoError(s.repo.Insert(s.ctx, tieB))

	s.Require().Equal(
		[]string{tieB.ID, tieA.ID, third.ID, second.ID, first.ID},
		ids(s.list(domain.StatusAll)),
	)
}

func (s *RepositorySuite) TestList_FiltersPartitionActiveRows() {
	open := s.insert("open")
	done := s.insert("done")
	deleted := s.insert("deleted")

	ok, err := s.repo.SetCompleted(s.ctx, done.ID, true, s.base.Add(time.Hour))
	s.Require().NoError(err)
	s.Require().True(ok)
	ok, err = s.repo.MarkDeleted(s.ctx, deleted.ID, s.base.Add(time.Hour))
	s.Require().NoError(err)
	s.Require().True(ok)

	all := s.list(domain.StatusAll)
	active := s.list(domain.StatusActive)
	completed := s.list(domain.StatusCompleted)

	s.Require().Equal([]string{done.ID, open.ID}, ids(all))
	s.Require().Equal([]string{open.ID}, ids(active))
	s.Require().Equal([]string{done.ID}, ids(completed))
	s.Require().Len(all, len(active)+len(completed))
	for _, todo := range active {
		s.Require().False(todo.Completed)
		s.Require().Nil(todo.DeletedAt)
	}
	for _, todo := range completed {
		s.Require().True(todo.Completed)
		s.Require().Nil(todo.DeletedAt)
	}
}

func (s *RepositorySuite) TestListDeleted_MostRecentlyDeletedFirst() {
	a := s.insert("a")
	b := s.insert("b")
	s.insert("still active")

	_, err := s.repo.MarkDeleted(s.ctx, b.ID, s.base.Add(time.Hour))
	s.Require().NoError(err)
	_, err = s.repo.MarkDeleted(s.ctx, a.ID, s.base.Add(2*time.Hour))
	s.Require().NoError(err)

	deleted, err := s.repo.ListDeleted(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal([]string{a.ID, b.ID}, ids(deleted))
	for _, todo := range deleted {
		s.Require().NotNil(todo.DeletedAt)
	}
	s.Require().True(deleted[0].DeletedAt.Equal(s.base.Add(2 * time.Hour)))
}

func (s *RepositorySuite) TestMarkDeleted_OnlyActiveRows() {
	todo := s.insert("Buy milk")
	at := s.base.Add(time.Hour)

	ok, err := s.repo.MarkDeleted(s.ctx, todo.ID, at)
	s.Require().NoError(err)
	s.Require().True(ok)

	ok, err = s.repo.MarkDeleted(s.ctx, todo.ID, at.Add(time.Minute))
	s.Require().NoError(err)
	s.Require().False(ok)

	ok, err = s.repo.MarkDeleted(s.ctx, "nonexistent-id", at)
	s.Require().NoError(err)
	s.Require().False(ok)

	deleted, err := s.repo.ListDeleted(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(deleted, 1)
	s.Require().True(deleted[0].DeletedAt.Equal(at))
	s.Require().True(deleted[0].UpdatedAt.Equal(at))
}

func (s *RepositorySuite) TestMutationsSkipDeletedRows() {
	todo := s.insert("Buy milk")
	_, err := s.repo.MarkDeleted(s.ctx, todo.ID, s.base.Add(time.Hour))
	s.Require().NoError(err)

	ok, err := s.repo.SetCompleted(s.ctx, todo.ID, true, s.base.Add(2*time.Hour))
	s.Require().NoError(err)
	s.Require().False(ok)

	ok, err = s.repo.SetTitle(s.ctx, todo.ID, "Buy oat milk", s.base.Add(2*time.Hour))
	s.Require().NoError(err)
	s.Require().False(ok)

	deleted, err := s.repo.ListDeleted(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal("Buy milk", deleted[0].Title)
	s.Require().False(deleted[0].Completed)
}

func (s *RepositorySuite) TestSetTitleAndCompleted_BumpUpdatedAt() {
	todo := s.insert("Buy milk")
	at := s.base.Add(time.Hour)

	ok, err := s.repo.SetTitle(s.ctx, todo.ID, "Buy oat milk", at)
	s.Require().NoError(err)
	s.Require().True(ok)
	ok, err = s.repo.SetCompleted(s.ctx, todo.ID, true, at.Add(time.Second))
	s.Require().NoError(err)
	s.Require().True(ok)

	got, err := s.repo.FindActive(s.ctx, todo.ID)
	s.Require().NoError(err)
	s.Require().Equal("Buy oat milk", got.Title)
	s.Require().True(got.Completed)
	s.Require().True(got.UpdatedAt.Equal(at.Add(time.Second)))
	s.Require().True(got.CreatedAt.Equal(todo.CreatedAt))
}

func (s *RepositorySuite) TestClearDeleted_RestoresAndIsIdempotent() {
	todo := s.insert("Buy milk")
	_, err := s.repo.SetCompleted(s.ctx, todo.ID, true, s.base.Add(time.Minute))
	s.Require().NoError(err)
	_, err = s.repo.MarkDeleted(s.ctx, todo.ID, s.base.Add(time.Hour))
	s.Require().NoError(err)

	for i := 1; i <= 2; i++ {
		ok, err := s.repo.ClearDeleted(s.ctx, todo.ID, s.base.Add(time.Duration(i+1)*time.Hour))
		s.Require().NoError(err)
		s.Require().True(ok)
	}

	got, err := s.repo.FindActive(s.ctx, todo.ID)
	s.Require().NoError(err)
	s.Require().Nil(got.DeletedAt)
	s.Require().True(got.Completed)
	s.Require().Equal("Buy milk", got.Title)
	s.Require().True(got.UpdatedAt.Equal(s.base.Add(3 * time.Hour)))

	deleted, err := s.repo.ListDeleted(s.ctx)
	s.Require().NoError(err)
	s.Require().Empty(deleted)

	ok, err := s.repo.ClearDeleted(s.ctx, "nonexistent-id", s.base)
	s.Require().NoError(err)
	s.Require().False(ok)
}
