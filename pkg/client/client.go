package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/core/internal/domain/entities"
	"github.com/taskhive/core/internal/ports"
)

// APIError is the decoded error payload of a failed request.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether the request targeted a task that does not exist
// for the caller (which includes tasks owned by someone else).
func (e *APIError) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

// IsValidation reports whether the request failed field validation.
func (e *APIError) IsValidation() bool {
	return e.Status == http.StatusBadRequest
}

// IsAuth reports whether the request was rejected for a missing or invalid
// token.
func (e *APIError) IsAuth() bool {
	return e.Status == http.StatusUnauthorized
}

// Filters is the optional-fields query descriptor for a task listing.
// A nil/empty field means "no constraint"; Completed keeps its pointer form
// because false is a real predicate, distinct from "show all".
type Filters struct {
	Completed *bool
	Tag       string
	Priority  string
	DueDate   string // calendar date, YYYY-MM-DD
}

func (f Filters) query() url.Values {
	values := url.Values{}
	if f.Completed != nil {
		values.Set("completed", strconv.FormatBool(*f.Completed))
	}
	if f.Tag != "" {
		values.Set("tag", f.Tag)
	}
	if f.Priority != "" {
		values.Set("priority", f.Priority)
	}
	if f.DueDate != "" {
		values.Set("dueDate", f.DueDate)
	}
	return values
}

// IsZero reports whether no filter field is set.
func (f Filters) IsZero() bool {
	return f.Completed == nil && f.Tag == "" && f.Priority == "" && f.DueDate == ""
}

// Client talks to the task API. Every request carries the session's bearer
// token; a 401 on any request expires the session.
type Client struct {
	// HTTPClient may be replaced before first use.
	HTTPClient *http.Client

	baseURL string
	session *Session
}

// New creates a client for the API at baseURL bound to the given session.
func New(baseURL string, session *Session) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		session:    session,
	}
}

// Session returns the session the client is bound to.
func (c *Client) Session() *Session {
	return c.session
}

type authPayload struct {
	Message      string         `json:"message"`
	Token        string         `json:"token"`
	RefreshToken string         `json:"refreshToken"`
	User         *entities.User `json:"user"`
}

type taskPayload struct {
	Message string         `json:"message"`
	Task    *entities.Task `json:"task"`
}

type listPayload struct {
	Count int              `json:"count"`
	Tasks []*entities.Task `json:"tasks"`
}

type deletePayload struct {
	Message string `json:"message"`
	TaskID  string `json:"taskId"`
}

type errorPayload struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// Login exchanges credentials for a token and establishes the session.
func (c *Client) Login(ctx context.Context, email, password string) (*entities.User, error) {
	var payload authPayload
	req := ports.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &payload); err != nil {
		return nil, err
	}

	c.session.Establish(payload.Token, payload.User)
	return payload.User, nil
}

// Signup creates an account and establishes the session.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*entities.User, error) {
	var payload authPayload
	req := ports.RegisterRequest{Name: name, Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &payload); err != nil {
		return nil, err
	}

	c.session.Establish(payload.Token, payload.User)
	return payload.User, nil
}

// CurrentUser resolves the user the held token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*entities.User, error) {
	var user entities.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout tells the server to revoke the refresh token and clears the
// session either way.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.session.Clear()
	return err
}

// ListTasks fetches the caller's tasks under the given filters, newest
// first. Filtering happens server-side.
func (c *Client) ListTasks(ctx context.Context, filters Filters) ([]*entities.Task, error) {
	path := "/api/tasks"
	if q := filters.query().Encode(); q != "" {
		path += "?" + q
	}

	var payload listPayload
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Tasks, nil
}

// CreateTask creates a task and returns the server's record.
func (c *Client) CreateTask(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	var payload taskPayload
	if err := c.do(ctx, http.MethodPost, "/api/tasks", req, &payload); err != nil {
		return nil, err
	}
	return payload.Task, nil
}

// UpdateTask applies a partial update and returns the server's record.
func (c *Client) UpdateTask(ctx context.Context, id uuid.UUID, req ports.UpdateTaskRequest) (*entities.Task, error) {
	var payload taskPayload
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+id.String(), req, &payload); err != nil {
		return nil, err
	}
	return payload.Task, nil
}

// DeleteTask permanently deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id uuid.UUID) error {
	var payload deletePayload
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+id.String(), nil, &payload)
}

// ToggleTask flips a task's completion flag and returns the server's record.
func (c *Client) ToggleTask(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	var payload taskPayload
	if err := c.do(ctx, http.MethodPatch, "/api/tasks/"+id.String()+"/toggle", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Task, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Message: "request failed"}

		var payload errorPayload
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Message != "" {
			apiErr.Message = payload.Message
			apiErr.Fields = payload.Errors
		}

		// Any 401 invalidates the whole session
		if resp.StatusCode == http.StatusUnauthorized {
			c.session.expire()
		}

		return apiErr
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
