package ports

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskhive/core/internal/domain/entities"
)

// AuthService interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*entities.User, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ValidateToken(tokenString string) (*Claims, error)
}

// TaskService interface for owner-scoped task operations
type TaskService interface {
	ListTasks(ctx context.Context, ownerID uuid.UUID, q ListTasksQuery) ([]*entities.Task, error)
	CreateTask(ctx context.Context, ownerID uuid.UUID, req CreateTaskRequest) (*entities.Task, error)
	UpdateTask(ctx context.Context, ownerID, taskID uuid.UUID, req UpdateTaskRequest) (*entities.Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error
	ToggleTask(ctx context.Context, ownerID, taskID uuid.UUID) (*entities.Task, error)
}

// Claims represents the JWT claims carried by an access token
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Request/Response Types

// Auth related types
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token        string         `json:"token"`
	RefreshToken string         `json:"refreshToken,omitempty"`
	User         *entities.User `json:"user"`
}

// Task related types

// ListTasksQuery carries the raw filter options from the query string.
// Empty strings mean the option was not supplied.
type ListTasksQuery struct {
	Completed string
	Tag       string
	Priority  string
	DueDate   string
}

// CreateTaskRequest carries the fields accepted on task creation. DueDate is
// transported as a string and parsed by the service so an unparseable value
// surfaces as a per-field validation message rather than a bind failure.
type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	DueDate     *string  `json:"dueDate,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// UpdateTaskRequest carries a partial update: only non-nil fields are
// applied. An explicitly empty DueDate clears the stored due date.
type UpdateTaskRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	DueDate     *string  `json:"dueDate,omitempty"`
	Priority    *string  `json:"priority,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	IsCompleted *bool    `json:"isCompleted,omitempty"`
}
