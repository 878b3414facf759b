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
	"time"

	"task-reminder/backend/internal/models"

	"github.com/gofrs/uuid"
)

var ErrNotFound = errors.New("task not found")

// Client wraps the remote task store's REST surface. It holds no state
// between calls beyond the base URL and the bearer token obtained at login;
// every call is independent and carries its own context.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type TaskInput struct {
	Title       string          `json:"title"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	Priority    models.Priority `json:"priority"`
	Owner       string          `json:"owner,omitempty"`
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken installs the bearer token used for protected calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login exchanges credentials for an access token and installs it on the
// client.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	c.token = resp.AccessToken
	return nil
}

// Signup registers a new account. The caller still logs in afterwards.
func (c *Client) Signup(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", body, nil); err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}
	return nil
}

// ListTasks returns all tasks for an owner, ordered by scheduled instant.
func (c *Client) ListTasks(ctx context.Context, owner string) ([]models.Task, error) {
	var tasks []models.Task
	path := "/tasks/user/" + url.PathEscape(owner)
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, fmt.Errorf("list tasks for %s: %w", owner, err)
	}
	return tasks, nil
}

// CreateTask creates a task and returns it with its server-assigned id.
func (c *Client) CreateTask(ctx context.Context, input TaskInput) (models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", input, &task); err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// GetTask reads one task, used to populate the edit form.
func (c *Client) GetTask(ctx context.Context, id uuid.UUID) (models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+id.String(), nil, &task); err != nil {
		return models.Task{}, fmt.Errorf("get task %s: %w", id, err)
	}
	return task, nil
}

// UpdateTask updates title, scheduled instant and priority. Id and owner
// never change.
func (c *Client) UpdateTask(ctx context.Context, id uuid.UUID, input TaskInput) error {
	input.Owner = ""
	if err := c.do(ctx, http.MethodPut, "/tasks/"+id.String(), input, nil); err != nil {
		return fmt.Errorf("update task %s: %w", id, err)
	}
	return nil
}

// DeleteTask removes a task from the store.
func (c *Client) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := c.do(ctx, http.MethodDelete, "/tasks/"+id.String(), nil, nil); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(data))
	}

	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
