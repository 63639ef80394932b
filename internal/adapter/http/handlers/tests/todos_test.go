package tests

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpadapter "todoapp/internal/adapter/http"
	"todoapp/internal/adapter/http/dto"
	"todoapp/internal/adapter/http/handlers"
	"todoapp/internal/core/domain"
	"todoapp/pkg/apierrors"
)

type todoServiceMock struct {
	mock.Mock
}

func (m *todoServiceMock) List(ctx context.Context, filter domain.StatusFilter) ([]domain.Todo, error) {
	args := m.Called(ctx, filter)

	var todos []domain.Todo
	if value := args.Get(0); value != nil {
		todos = value.([]domain.Todo)
	}
	return todos, args.Error(1)
}

func (m *todoServiceMock) ListDeleted(ctx context.Context) ([]domain.Todo, error) {
	args := m.Called(ctx)

	var todos []domain.Todo
	if value := args.Get(0); value != nil {
		todos = value.([]domain.Todo)
	}
	return todos, args.Error(1)
}

func (m *todoServiceMock) Create(ctx context.Context, title string) (domain.Todo, error) {
	args := m.Called(ctx, title)
	return args.Get(0).(domain.Todo), args.Error(1)
}

func (m *todoServiceMock) Toggle(ctx context.Context, id string, completed bool) (bool, error) {
	args := m.Called(ctx, id, completed)
	return args.Bool(0), args.Error(1)
}

func (m *todoServiceMock) UpdateTitle(ctx context.Context, id, title string) (bool, error) {
	args := m.Called(ctx, id, title)
	return args.Bool(0), args.Error(1)
}

func (m *todoServiceMock) Remove(ctx context.Context, id string) (domain.RemoveResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.RemoveResult), args.Error(1)
}

func (m *todoServiceMock) Restore(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

var (
	createdAt = time.Date(2026, 2, 13, 10, 20, 30, 123456000, time.UTC)
	updatedAt = time.Date(2026, 2, 13, 11, 20, 30, 0, time.UTC)
)

func newRouter(serviceMock *todoServiceMock) *gin.Engine {
	router := gin.New()
	httpadapter.RegisterRoutes(router, handlers.NewHealthHandler(nil, "sqlite"), handlers.NewTodoHandler(serviceMock))
	return router
}

func serve(router *gin.Engine, method, target, body, lang string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apierrors.JsonErr {
	t.Helper()
	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func TestTodoHandler_ListTodos_Success(t *testing.T) {
	serviceMock := new(todoServiceMock)
	serviceMock.On("List", mock.Anything, domain.StatusActive).Return(
		[]domain.Todo{
			{ID: "todo-2", Title: "Walk dog", CreatedAt: createdAt, UpdatedAt: updatedAt},
			{ID: "todo-1", Title: "Buy milk", CreatedAt: createdAt, UpdatedAt: createdAt},
		},
		nil,
	).Once()

	rec := serve(newRouter(serviceMock), http.MethodGet, "/api/todos?status=active", "", "en")

	require.Equal(t, http.StatusOK, rec.Code)

	var got []dto.TodoItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	require.Equal(t, "todo-2", got[0].ID)
	require.Equal(t, "Walk dog", got[0].Title)
	require.False(t, got[0].Completed)
	require.Equal(t, "2026-02-13T10:20:30.123456Z", got[0].CreatedAt)
	require.Equal(t, "2026-02-13T11:20:30Z", got[0].UpdatedAt)
	require.Nil(t, got[0].DeletedAt)
	serviceMock.AssertExpectations(t)
}

func TestTodoHandler_ListTodos_DefaultsToAll(t *testing.T) {
	serviceMock := new(todoServiceMock)
	serviceMock.On("List", mock.Anything, domain.StatusAll).Return([]domain.Todo{}, nil).Once()

	rec := serve(newRouter(serviceMock), http.MethodGet, "/api/todos", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
	serviceMock.AssertExpectations(t)
}

func TestTodoHandler_ListTodos_InvalidStatus(t *testing.T) {
	serviceMock := new(todoServiceMock)

	rec := serve(newRouter(serviceMock), http.MethodGet, "/api/todos?status=archived", "", "en")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeError(t, rec)
	require.Equal(t, http.StatusBadRequest, got.ErrDetails.Code)
	require.NotEmpty(t, got.ErrDetails.Message)
	serviceMock.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestTodoHandler_ListTodos_Error(t *testing.T) {
	serviceMock := new(todoServiceMock)
	serviceMock.On("List", mock.Anything, domain.StatusAll).Return(nil, errors.New("db is down")).Once()

	rec := serve(newRouter(serviceMock), http.MethodGet, "/api/todos", "", "en")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	got := decodeError(t, rec)
	require.Equal(t, http.StatusInternalServerError, got.ErrDetails.Code)
	require.NotContains(t, got.ErrDetails.Message, "db is down")
	serviceMock.AssertExpectations(t)
}

func TestTodoHandler_ListDeletedTodos_Success(t *testing.T) {
	deletedAt := updatedAt
	serviceMock := new(todoServiceMock)
	serviceMock.On("ListDeleted", mock.Anything).Return(
		[]domain.Todo{{ID: "todo-1", Title: "Buy milk", CreatedAt: createdAt, UpdatedAt: updatedAt, DeletedAt: &deletedAt}},
		nil,
	).Once()

	rec := serve(newRouter(serviceMock), http.MethodGet, "/api/todos/deleted", "", "en")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []dto.TodoItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.NotNil(t, got[0].DeletedAt)
	require.Equal(t, "2026-02-13T11:20:30Z", *got[0].DeletedAt)
	serviceMock.AssertExpectations(t)
}

func TestTodoHandler_CreateTodo_Success(t *testing.T) {
	serviceMock := new(todoServiceMock)
	serviceMock.On("Create", mock.Anything, "  Buy milk ").Return(
		domain.Todo{ID: "todo-1", Title: "Buy milk", CreatedAt: createdAt, UpdatedAt: createdAt},
		nil,
	).Once()

	rec := serve(newRouter(serviceMock), http.MethodPost, "/api/todos", `{"title":"  Buy milk "}`, "en")

	require.Equal(t, http.StatusCreated, rec.Code)
	var got dto.TodoItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "todo-1", got.ID)
	require.Equal(t, "Buy milk", got.Title)
	serviceMock.AssertExpectations(t)
}

func TestTodoHandler_CreateTodo_BlankTitlesShareOneError(t *testing.T) {
	for _, body := range []string{`{"title":""}`, `{"title":"   "}`, `{}`} {
		t.Run(body, func(t *testing.T) {
			serviceMock := new(todoServiceMock)
			serviceMock.On("Create", mock.Anything, mock.AnythingOfType("string")).Return(
				domain.Todo{},
				&domain.ValidationError{Field: "title", Reason: "must not be empty"},
			).Once()

			rec := serve(newRouter(serviceMock), http.MethodPost, "/api/todos", body, "en")

			require.Equal(t, http.StatusBadRequest, rec.Code)
			got := decodeError(t, rec)
			require.Equal(t, http.StatusBadRequest, got.ErrDetails.Code)
			require.Equal(t, apierrors.GetTransErrorMsg(apierrors.MsgInvalidTodoTitle, "en"), got.ErrDetails.Message)
			serviceMock.AssertExpectations(t)
		})
	}
}

func TestTodoHandler_CreateTodo_InvalidPayload(t *testing.T) {
	for _, body := range []string{`{`, `{"title":42}`, `[]`} {
		t.Run(body, func(t *testing.T) {
			serviceMock := new(todoServiceMock)

			rec := serve(newRouter(serviceMock), http.MethodPost, "/api/todos", body, "en")

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, apierrors.GetTransErrorMsg(apierrors.MsgInvalidTodoPayload, "en"), decodeError(t, rec).ErrDetails.Message)
			serviceMock.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestTodoHandler_CreateTodo_Error(t *testing.T) {
	serviceMock := new(todoServiceMock)
	serviceMock.On("Create", mock.Anything, "Buy milk").Return(
		domain.Todo{},
		&domain.PersistenceError{Op: "create todo", Err: errors.New("disk full")},
	).Once()

	rec := serve(newRouter(serviceMock), http.MethodPost, "/api/todos", `{"title":"Buy milk"}`, "en")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, decodeError(t, rec).ErrDetails.Message, "disk full")
	serviceMock.AssertExpectations(t)
}

func TestTodoHandler_ToggleTodo(t *testing.T) {
	serviceMock := new(todoServiceMock)
	serviceMock.On("Toggle", mock.Anything, "todo-1", true).Return(true, nil).Once()
	serviceMock.On("Toggle", mock.Anything, "nonexistent-id", false).Return(false, nil).Once()
	router := newRouter(serviceMock)

	rec := serve(router, http.MethodPatch, "/api/todos/todo-1/completed", `{"completed":true}`, "en")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = serve(router, http.MethodPatch, "/api/todos/nonexistent-id/completed", `{"completed":false}`, "en")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"ok":false}`, rec.Body.String())

	serviceMock.AssertExpectations(t)
}

func TestTodoHandler_ToggleTodo_MissingCompleted(t *testing.T) {
	serviceMock := new(todoServiceMock)

	rec := serve(newRouter(serviceMock), http.MethodPatch, "/api/todos/todo-1/completed", `{}`, "en")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	serviceMock.AssertNotCalled(t, "Toggle", mock.Anything, mock.Anything, mock.Anything)
}

func TestTodoHandler_UpdateTodoTitle(t *testing.T) {
	serviceMock := new(todoServiceMock)
	serviceMock.On("UpdateTitle", mock.Anything, "todo-1", "Buy oat milk").Return(true, nil).Once()
	serviceMock.On("UpdateTitle", mock.Anything, "todo-1", "").Return(
		false,
		&domain.ValidationError{Field: "title", Reason: "must not be empty"},
	).Once()
	serviceMock.On("UpdateTitle", mock.Anything, "todo-1", strings.Repeat("a", 201)).Return(
		false,
		&domain.ValidationError{Field: "title", Reason: "must be at most 200 characters"},
	).Once()
	router := newRouter(serviceMock)

	rec := serve(router, http.MethodPatch, "/api/todos/todo-1/title", `{"title":"Buy oat milk"}`, "en")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = serve(router, http.MethodPatch, "/api/todos/todo-1/title", `{"title":"`+strings.Repeat("a", 201)+`"}`, "en")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodPatch, "/api/todos/todo-1/title", `{"title":""}`, "en")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, apierrors.GetTransErrorMsg(apierrors.MsgInvalidTodoTitle, "en"), decodeError(t, rec).ErrDetails.Message)

	serviceMock.AssertExpectations(t)
}

func TestTodoHandler_RemoveTodo(t *testing.T) {
	deletedAt := updatedAt
	serviceMock := new(todoServiceMock)
	serviceMock.On("Remove", mock.Anything, "todo-1").Return(
		domain.RemoveResult{Found: true, Todo: &domain.Todo{
			ID: "todo-1", Title: "Buy milk", CreatedAt: createdAt, UpdatedAt: updatedAt, DeletedAt: &deletedAt,
		}},
		nil,
	).Once()
	serviceMock.On("Remove", mock.Anything, "nonexistent-id").Return(domain.RemoveResult{}, nil).Once()
	router := newRouter(serviceMock)

	rec := serve(router, http.MethodDelete, "/api/todos/todo-1", "", "en")
	require.Equal(t, http.StatusOK, rec.Code)
	var got dto.RemoveTodoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.True(t, got.OK)
	require.NotNil(t, got.Todo)
	require.Equal(t, "Buy milk", got.Todo.Title)
	require.NotNil(t, got.Todo.DeletedAt)

	rec = serve(router, http.MethodDelete, "/api/todos/nonexistent-id", "", "en")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"ok":false,"todo":null}`, rec.Body.String())

	serviceMock.AssertExpectations(t)
}

func TestTodoHandler_RemoveTodo_Error(t *testing.T) {
	serviceMock := new(todoServiceMock)
	serviceMock.On("Remove", mock.Anything, "todo-1").Return(domain.RemoveResult{}, errors.New("db is down")).Once()

	rec := serve(newRouter(serviceMock), http.MethodDelete, "/api/todos/todo-1", "", "ja")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotEmpty(t, decodeError(t, rec).ErrDetails.Message)
	serviceMock.AssertExpectations(t)
}

func TestTodoHandler_RestoreTodo(t *testing.T) {
	serviceMock := new(todoServiceMock)
	serviceMock.On("Restore", mock.Anything, "todo-1").Return(true, nil).Twice()
	serviceMock.On("Restore", mock.Anything, "nonexistent-id").Return(false, nil).Once()
	router := newRouter(serviceMock)

	for i := 0; i < 2; i++ {
		rec := serve(router, http.MethodPost, "/api/todos/todo-1/restore", "", "en")
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"ok":true}`, rec.Body.String())
	}

	rec := serve(router, http.MethodPost, "/api/todos/nonexistent-id/restore", "", "en")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"ok":false}`, rec.Body.String())

	serviceMock.AssertExpectations(t)
}

func TestTodoHandler_ErrorMessagesAreTranslated(t *testing.T) {
	serviceMock := new(todoServiceMock)
	router := newRouter(serviceMock)

	en := decodeError(t, serve(router, http.MethodGet, "/api/todos?status=bogus", "", "en"))
	ja := decodeError(t, serve(router, http.MethodGet, "/api/todos?status=bogus", "", "ja"))

	require.NotEmpty(t, en.ErrDetails.Message)
	require.NotEmpty(t, ja.ErrDetails.Message)
	require.NotEqual(t, en.ErrDetails.Message, ja.ErrDetails.Message)
}
