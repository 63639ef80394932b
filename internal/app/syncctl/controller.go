// Package syncctl keeps a client's view of the todo list in step with the
// server. Mutations run in the background; every settle re-reads the lists
// instead of trusting the mutation's own response.
package syncctl

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"todoapp/internal/core/domain"
	"todoapp/internal/core/ports"
	"todoapp/pkg/apierrors"
	"todoapp/pkg/translator"
)

var (
	ErrControlDisabled = errors.New("control disabled while a mutation is pending")
	ErrNothingToUndo   = errors.New("no undo action available")
)

type Mutation string

const (
	MutationCreate  Mutation = "create"
	MutationToggle  Mutation = "toggle"
	MutationRename  Mutation = "rename"
	MutationRemove  Mutation = "remove"
	MutationRestore Mutation = "restore"
)

// createKey is the pending key for create, which has no row yet.
const createKey = ""

// State is a copy of the controller's view, safe to keep after it changes.
type State struct {
	Filter       domain.StatusFilter
	Todos        []domain.Todo
	ShowDeleted  bool
	Deleted      []domain.Todo
	Pending      map[string]Mutation
	Notification *Notification
	LoadErr      error
}

type Controller struct {
	service  ports.TodoService
	logger   *zap.Logger
	lang     string
	onChange func(State)

	mu           sync.Mutex
	filter       domain.StatusFilter
	todos        []domain.Todo
	showDeleted  bool
	deleted      []domain.Todo
	pending      map[string]Mutation
	notification *Notification
	loadErr      error
	generation   uint64

	inflight sync.WaitGroup
}

type Option func(*Controller)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithLanguage(lang string) Option {
	return func(c *Controller) {
		c.lang = lang
	}
}

// WithOnChange registers a callback invoked after every state change. It may
// run on a mutation goroutine.
func WithOnChange(fn func(State)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

func New(service ports.TodoService, opts ...Option) *Controller {
	c := &Controller{
		service: service,
		logger:  zap.L(),
		lang:    translator.LanguageEn,
		filter:  domain.StatusAll,
		pending: map[string]Mutation{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the list, and the deleted list when it is visible.
func (c *Controller) Load(ctx context.Context) error {
	err := c.refresh(ctx)
	c.emit()
	return err
}

func (c *Controller) SetFilter(ctx context.Context, filter domain.StatusFilter) error {
	if err := c.setFilter(filter); err != nil {
		return err
	}
	return c.Load(ctx)
}

// Configure sets the filter and deleted-list visibility without fetching, so
// a caller can set up the view before its first Load.
func (c *Controller) Configure(filter domain.StatusFilter, showDeleted bool) error {
	if err := c.setFilter(filter); err != nil {
		return err
	}

	c.mu.Lock()
	c.showDeleted = showDeleted
	if !showDeleted {
		c.deleted = nil
	}
	c.mu.Unlock()
	return nil
}

func (c *Controller) setFilter(filter domain.StatusFilter) error {
	parsed, err := domain.ParseStatusFilter(string(filter))
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) > 0 {
		return ErrControlDisabled
	}
	c.filter = parsed
	return nil
}

func (c *Controller) ShowDeleted(ctx context.Context, show bool) error {
	c.mu.Lock()
	c.showDeleted = show
	if !show {
		c.deleted = nil
	}
	c.mu.Unlock()

	return c.Load(ctx)
}

// Create adds a todo. A blank title is ignored without calling the service.
func (c *Controller) Create(ctx context.Context, title string) error {
	if strings.TrimSpace(title) == "" {
		return nil
	}
	return c.mutate(ctx, createKey, MutationCreate, func(ctx context.Context) (*Notification, error) {
		if _, err := c.service.Create(ctx, title); err != nil {
			return nil, err
		}
		return c.success(apierrors.MsgTodoCreated, nil), nil
	})
}

func (c *Controller) Toggle(ctx context.Context, id string, completed bool) error {
	return c.mutate(ctx, id, MutationToggle, func(ctx context.Context) (*Notification, error) {
		ok, err := c.service.Toggle(ctx, id, completed)
		if err != nil {
			return nil, err
		}
		if !ok {
			return c.notFound(), nil
		}
		return nil, nil
	})
}

// Rename changes a title. A blank title is ignored without calling the service.
func (c *Controller) Rename(ctx context.Context, id, title string) error {
	if strings.TrimSpace(title) == "" {
		return nil
	}
	return c.mutate(ctx, id, MutationRename, func(ctx context.Context) (*Notification, error) {
		ok, err := c.service.UpdateTitle(ctx, id, title)
		if err != nil {
			return nil, err
		}
		if !ok {
			return c.notFound(), nil
		}
		return c.success(apierrors.MsgTodoTitleUpdated, nil), nil
	})
}

func (c *Controller) Remove(ctx context.Context, id string) error {
	return c.mutate(ctx, id, MutationRemove, func(ctx context.Context) (*Notification, error) {
		result, err := c.service.Remove(ctx, id)
		if err != nil {
			return nil, err
		}
		if !result.Found || result.Todo == nil {
			return c.notFound(), nil
		}
		note := c.success(apierrors.MsgTodoDeleted, map[string]any{"Title": result.Todo.Title})
		note.ActionLabel = translator.Localize(c.lang, apierrors.MsgUndoAction, nil)
		note.TodoID = id
		return note, nil
	})
}

func (c *Controller) Restore(ctx context.Context, id string) error {
	return c.mutate(ctx, id, MutationRestore, func(ctx context.Context) (*Notification, error) {
		ok, err := c.service.Restore(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return c.notFound(), nil
		}
		return c.success(apierrors.MsgTodoRestored, nil), nil
	})
}

// Undo restores the todo named by the current notification.
func (c *Controller) Undo(ctx context.Context) error {
	c.mu.Lock()
	note := c.notification
	if !note.HasUndo() {
		c.mu.Unlock()
		return ErrNothingToUndo
	}
	if _, busy := c.pending[note.TodoID]; busy {
		c.mu.Unlock()
		return ErrControlDisabled
	}
	c.mu.Unlock()

	return c.Restore(ctx, note.TodoID)
}

func (c *Controller) Dismiss() {
	c.mu.Lock()
	c.notification = nil
	c.mu.Unlock()
	c.emit()
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Wait blocks until every issued mutation has settled.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

func (c *Controller) IsMutating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending) > 0
}

// CanMutate reports whether a mutation on id would be accepted now. Use ""
// for create.
func (c *Controller) CanMutate(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, busy := c.pending[id]
	return !busy
}

func (c *Controller) mutate(ctx context.Context, key string, kind Mutation, run func(context.Context) (*Notification, error)) error {
	c.mu.Lock()
	if _, busy := c.pending[key]; busy {
		c.mu.Unlock()
		return ErrControlDisabled
	}
	c.pending[key] = kind
	c.inflight.Add(1)
	c.notification = nil
	c.mu.Unlock()

	// Once issued a mutation runs to completion.
	ctx = context.WithoutCancel(ctx)

	// Started before the pending state is published so an OnChange callback
	// may call Wait.
	go func() {
		defer c.inflight.Done()

		note, err := run(ctx)
		if err != nil {
			c.logger.Warn("todo mutation failed",
				zap.String("mutation", string(kind)),
				zap.String("todo_id", key),
				zap.Error(err),
			)
			note = &Notification{Status: NotificationError, Message: c.errorMessage(err)}
		}

		if err := c.refresh(ctx); err != nil {
			c.logger.Warn("todo refresh failed", zap.String("mutation", string(kind)), zap.Error(err))
		}

		c.mu.Lock()
		delete(c.pending, key)
		c.notification = note
		c.mu.Unlock()
		c.emit()
	}()

	c.emit()
	return nil
}

// refresh re-reads the visible lists. Results from a refresh that was
// overtaken by a newer one are dropped.
func (c *Controller) refresh(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	generation := c.generation
	filter := c.filter
	showDeleted := c.showDeleted
	c.mu.Unlock()

	todos, err := c.service.List(ctx, filter)

	var (
		deleted    []domain.Todo
		deletedErr error
	)
	if showDeleted {
		deleted, deletedErr = c.service.ListDeleted(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		return errors.Join(err, deletedErr)
	}
	if err == nil {
		c.todos = todos
	}
	if showDeleted && deletedErr == nil {
		c.deleted = deleted
	}
	c.loadErr = errors.Join(err, deletedErr)
	return c.loadErr
}

func (c *Controller) emit() {
	if c.onChange == nil {
		return
	}
	c.onChange(c.Snapshot())
}

func (c *Controller) snapshotLocked() State {
	state := State{
		Filter:      c.filter,
		Todos:       slices.Clone(c.todos),
		ShowDeleted: c.showDeleted,
		Deleted:     slices.Clone(c.deleted),
		Pending:     maps.Clone(c.pending),
		LoadErr:     c.loadErr,
	}
	if c.notification != nil {
		note := *c.notification
		state.Notification = &note
	}
	return state
}

func (c *Controller) success(msgKey string, data map[string]any) *Notification {
	return &Notification{
		Status:  NotificationSuccess,
		Message: translator.Localize(c.lang, msgKey, data),
	}
}

func (c *Controller) notFound() *Notification {
	return &Notification{
		Status:  NotificationError,
		Message: translator.Localize(c.lang, apierrors.MsgTodoNotFound, nil),
	}
}

// errorMessage translates validation failures raised in process, where no
// server has localized them yet.
func (c *Controller) errorMessage(err error) string {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		key := apierrors.MsgInvalidTodoTitle
		if validationErr.Field == "status" {
			key = apierrors.MsgInvalidStatusFilter
		}
		return translator.Localize(c.lang, key, nil)
	}
	return ErrorMessage(err, translator.Localize(c.lang, apierrors.MsgUnexpectedError, nil))
}
