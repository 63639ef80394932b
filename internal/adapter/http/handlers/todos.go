package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todoapp/internal/adapter/http/dto"
	"todoapp/internal/adapter/http/mapper"
	"todoapp/internal/adapter/http/middleware"
	"todoapp/internal/adapter/http/validation"
	"todoapp/internal/core/domain"
	"todoapp/internal/core/ports"
	"todoapp/pkg/apierrors"
)

type TodoHandler struct {
	todoService ports.TodoService
}

func NewTodoHandler(todoService ports.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

func (h *TodoHandler) ListTodos(c *gin.Context) {
	lang := middleware.GetLang(c)

	filter, err := validation.StatusFilter(c.Query("status"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, apierrors.MsgInvalidStatusFilter, lang)
		return
	}

	todos, err := h.todoService.List(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			abortWithError(c, http.StatusBadRequest, apierrors.MsgInvalidStatusFilter, lang)
			return
		}
		zap.L().Error("failed to list todos", zap.String("status", string(filter)), zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, apierrors.MsgFailListTodos, lang)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTodoItems(todos))
}

func (h *TodoHandler) ListDeletedTodos(c *gin.Context) {
	lang := middleware.GetLang(c)

	todos, err := h.todoService.ListDeleted(c.Request.Context())
	if err != nil {
		zap.L().Error("failed to list deleted todos", zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, apierrors.MsgFailListDeletedTodos, lang)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTodoItems(todos))
}

func (h *TodoHandler) CreateTodo(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, apierrors.MsgInvalidTodoPayload, lang)
		return
	}

	todo, err := h.todoService.Create(c.Request.Context(), req.Title)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			abortWithError(c, http.StatusBadRequest, apierrors.MsgInvalidTodoTitle, lang)
			return
		}
		zap.L().Error("failed to create todo", zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, apierrors.MsgFailCreateTodo, lang)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTodoItem(todo))
}

func (h *TodoHandler) ToggleTodo(c *gin.Context) {
	lang := middleware.GetLang(c)

	id, err := validation.TodoID(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, apierrors.MsgInvalidTodoID, lang)
		return
	}

	var req dto.ToggleTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, apierrors.MsgInvalidTodoPayload, lang)
		return
	}

	ok, err := h.todoService.Toggle(c.Request.Context(), id, *req.Completed)
	if err != nil {
		zap.L().Error("failed to toggle todo", zap.String("todo_id", id), zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, apierrors.MsgFailUpdateTodo, lang)
		return
	}

	c.JSON(http.StatusOK, dto.OkResponse{OK: ok})
}

func (h *TodoHandler) UpdateTodoTitle(c *gin.Context) {
	lang := middleware.GetLang(c)

	id, err := validation.TodoID(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, apierrors.MsgInvalidTodoID, lang)
		return
	}

	var req dto.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, apierrors.MsgInvalidTodoPayload, lang)
		return
	}

	ok, err := h.todoService.UpdateTitle(c.Request.Context(), id, req.Title)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			abortWithError(c, http.StatusBadRequest, apierrors.MsgInvalidTodoTitle, lang)
			return
		}
		zap.L().Error("failed to update todo title", zap.String("todo_id", id), zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, apierrors.MsgFailUpdateTodo, lang)
		return
	}

	c.JSON(http.StatusOK, dto.OkResponse{OK: ok})
}

func (h *TodoHandler) RemoveTodo(c *gin.Context) {
	lang := middleware.GetLang(c)

	id, err := validation.TodoID(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, apierrors.MsgInvalidTodoID, lang)
		return
	}

	result, err := h.todoService.Remove(c.Request.Context(), id)
	if err != nil {
		zap.L().Error("failed to remove todo", zap.String("todo_id", id), zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, apierrors.MsgFailRemoveTodo, lang)
		return
	}

	c.JSON(http.StatusOK, mapper.ToRemoveTodoResponse(result))
}

func (h *TodoHandler) RestoreTodo(c *gin.Context) {
	lang := middleware.GetLang(c)

	id, err := validation.TodoID(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, apierrors.MsgInvalidTodoID, lang)
		return
	}

	ok, err := h.todoService.Restore(c.Request.Context(), id)
	if err != nil {
		zap.L().Error("failed to restore todo", zap.String("todo_id", id), zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, apierrors.MsgFailRestoreTodo, lang)
		return
	}

	c.JSON(http.StatusOK, dto.OkResponse{OK: ok})
}

func abortWithError(c *gin.Context, code int, msgKey, lang string) {
	c.AbortWithStatusJSON(code, apierrors.CreateError(code, msgKey, lang))
}
