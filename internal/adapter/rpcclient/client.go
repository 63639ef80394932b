// Package rpcclient implements ports.TodoService against the HTTP API, so
// clients can run the same code in process or against a remote server.
package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"todoapp/internal/adapter/http/dto"
	"todoapp/internal/adapter/http/mapper"
	"todoapp/internal/core/domain"
	"todoapp/internal/core/ports"
	"todoapp/pkg/apierrors"
)

const defaultTimeout = 10 * time.Second

var _ ports.TodoService = (*Client)(nil)

type Client struct {
	baseURL    string
	httpClient *http.Client
	lang       string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLanguage sets the Accept-Language sent with every call.
func WithLanguage(lang string) Option {
	return func(c *Client) {
		c.lang = lang
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) List(ctx context.Context, filter domain.StatusFilter) ([]domain.Todo, error) {
	path := "/api/todos"
	if filter != "" {
		path += "?" + url.Values{"status": {string(filter)}}.Encode()
	}

	var items []dto.TodoItem
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return mapper.FromTodoItems(items)
}

func (c *Client) ListDeleted(ctx context.Context) ([]domain.Todo, error) {
	var items []dto.TodoItem
	if err := c.do(ctx, http.MethodGet, "/api/todos/deleted", nil, &items); err != nil {
		return nil, err
	}
	return mapper.FromTodoItems(items)
}

func (c *Client) Create(ctx context.Context, title string) (domain.Todo, error) {
	var item dto.TodoItem
	if err := c.do(ctx, http.MethodPost, "/api/todos", dto.CreateTodoRequest{Title: title}, &item); err != nil {
		return domain.Todo{}, err
	}
	return mapper.FromTodoItem(item)
}

func (c *Client) Toggle(ctx context.Context, id string, completed bool) (bool, error) {
	var res dto.OkResponse
	err := c.do(ctx, http.MethodPatch, todoPath(id, "completed"), dto.ToggleTodoRequest{Completed: &completed}, &res)
	return res.OK, err
}

func (c *Client) UpdateTitle(ctx context.Context, id, title string) (bool, error) {
	var res dto.OkResponse
	err := c.do(ctx, http.MethodPatch, todoPath(id, "title"), dto.UpdateTitleRequest{Title: title}, &res)
	return res.OK, err
}

func (c *Client) Remove(ctx context.Context, id string) (domain.RemoveResult, error) {
	var res dto.RemoveTodoResponse
	if err := c.do(ctx, http.MethodDelete, todoPath(id, ""), nil, &res); err != nil {
		return domain.RemoveResult{}, err
	}
	if !res.OK || res.Todo == nil {
		return domain.RemoveResult{}, nil
	}

	todo, err := mapper.FromTodoItem(*res.Todo)
	if err != nil {
		return domain.RemoveResult{}, err
	}
	return domain.RemoveResult{Found: true, Todo: &todo}, nil
}

func (c *Client) Restore(ctx context.Context, id string) (bool, error) {
	var res dto.OkResponse
	err := c.do(ctx, http.MethodPost, todoPath(id, "restore"), nil, &res)
	return res.OK, err
}

func todoPath(id, action string) string {
	path := "/api/todos/" + url.PathEscape(id)
	if action != "" {
		path += "/" + action
	}
	return path
}

// do sends one call and decodes the response into out. Non-2xx responses are
// returned as *APIError so callers can show the server's message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.lang != "" {
		req.Header.Set("Accept-Language", c.lang)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// APIError is a non-2xx response. It matches domain.ErrValidation for 400 and
// domain.ErrPersistence for 5xx, like the errors of the in-process service,
// and unwraps to the server's apierrors.JsonErr.
type APIError struct {
	Response apierrors.JsonErr
}

func (e *APIError) Error() string {
	return e.Response.Error()
}

func (e *APIError) Unwrap() error {
	return e.Response
}

func (e *APIError) Is(target error) bool {
	code := e.Response.ErrDetails.Code
	switch target {
	case domain.ErrValidation:
		return code == http.StatusBadRequest
	case domain.ErrPersistence:
		return code >= http.StatusInternalServerError
	}
	return false
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var apiErr apierrors.JsonErr
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.ErrDetails.Message != "" {
		if apiErr.ErrDetails.Code == 0 {
			apiErr.ErrDetails.Code = resp.StatusCode
		}
		return &APIError{Response: apiErr}
	}

	return &APIError{Response: apierrors.JsonErr{ErrDetails: apierrors.Err{
		Code:    resp.StatusCode,
		Message: strings.TrimSpace(string(raw)),
	}}}
}

// IsStatus reports whether err is an API error with the given HTTP status.
func IsStatus(err error, code int) bool {
	var apiErr apierrors.JsonErr
	return errors.As(err, &apiErr) && apiErr.ErrDetails.Code == code
}
