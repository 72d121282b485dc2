// Package client talks to the remote /tasks collection.
package client

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

	"github.com/DhananjayDev21/task-management-system/internal/models"
)

// Store is the CRUD surface the views depend on.
type Store interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (models.Task, error)
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)
	UpdateTask(ctx context.Context, id string, task models.Task) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Observer is told about every finished store call.
type Observer func(op string, duration time.Duration, err error)

type Config struct {
	BaseURL string
	Timeout time.Duration
	Breaker *BreakerConfig
}

type TaskStore struct {
	baseURL  string
	http     *http.Client
	breaker  *Breaker
	observer Observer
}

func NewTaskStore(config Config) (*TaskStore, error) {
	base, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid task store url %q: %w", config.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid task store url %q: scheme and host are required", config.BaseURL)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &TaskStore{
		baseURL: base.String(),
		http:    &http.Client{Timeout: timeout},
		breaker: NewBreaker(config.Breaker),
	}, nil
}

// WithHTTPClient replaces the transport, mostly for tests.
func (s *TaskStore) WithHTTPClient(c *http.Client) *TaskStore {
	s.http = c
	return s
}

func (s *TaskStore) WithObserver(o Observer) *TaskStore {
	s.observer = o
	return s
}

func (s *TaskStore) Breaker() *Breaker {
	return s.breaker
}

func (s *TaskStore) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.call(ctx, "list tasks", http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

func (s *TaskStore) GetTask(ctx context.Context, id string) (models.Task, error) {
	var task models.Task
	err := s.call(ctx, "get task", http.MethodGet, taskPath(id), nil, &task)
	return task, err
}

// CreateTask validates locally and only then posts the task without an id.
func (s *TaskStore) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	if err := task.Validate(); err != nil {
		return models.Task{}, err
	}
	task.ID = ""
	task.IsOverdue = false

	var created models.Task
	err := s.call(ctx, "create task", http.MethodPost, "/tasks", task, &created)
	return created, err
}

func (s *TaskStore) UpdateTask(ctx context.Context, id string, task models.Task) (models.Task, error) {
	if err := task.Validate(); err != nil {
		return models.Task{}, err
	}
	task.ID = id
	task.IsOverdue = false

	var updated models.Task
	err := s.call(ctx, "update task", http.MethodPut, taskPath(id), task, &updated)
	return updated, err
}

func (s *TaskStore) DeleteTask(ctx context.Context, id string) error {
	return s.call(ctx, "delete task", http.MethodDelete, taskPath(id), nil, nil)
}

func taskPath(id string) string {
	return "/tasks/" + url.PathEscape(id)
}

func (s *TaskStore) call(ctx context.Context, op, method, path string, in, out interface{}) error {
	start := time.Now()

	var result error
	err := s.breaker.Execute(func() error {
		result = s.do(ctx, op, method, path, in, out)
		if !tripsBreaker(ctx, result) {
			return nil
		}
		return result
	})
	if errors.Is(err, ErrCircuitOpen) {
		result = err
	}

	if s.observer != nil {
		s.observer(op, time.Since(start), result)
	}
	return result
}

// tripsBreaker is true for network failures and 5xx responses. Rejected
// requests, missing tasks and cancelled calls say nothing about store health.
func tripsBreaker(ctx context.Context, err error) bool {
	if err == nil || errors.Is(err, ErrNotFound) || ctx.Err() != nil {
		return false
	}
	var terr *TransportError
	if errors.As(err, &terr) && terr.StatusCode >= 400 && terr.StatusCode < 500 {
		return false
	}
	return true
}

func (s *TaskStore) do(ctx context.Context, op, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal task: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
