package entities

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Field limits enforced on create and update
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	MaxTagLength         = 20
)

// Priority of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid reports whether p is one of the three known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities for display sorting: high before medium before low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// User represents an account that owns tasks
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Task is the sole domain entity. Every task belongs to exactly one owner;
// all reads and mutations are scoped to that owner.
type Task struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	DueDate     *time.Time `json:"dueDate" db:"due_date"`
	IsCompleted bool       `json:"isCompleted" db:"is_completed"`
	Tags        []string   `json:"tags" db:"tags"`
	Priority    Priority   `json:"priority" db:"priority"`
	OwnerID     uuid.UUID  `json:"ownerId" db:"owner_id"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// IsOverdue reports whether the task's due date has passed. A completed task
// or a task with no due date is never overdue.
func (t *Task) IsOverdue() bool {
	return t.IsOverdueAt(time.Now())
}

// IsOverdueAt is IsOverdue evaluated against an explicit clock.
func (t *Task) IsOverdueAt(now time.Time) bool {
	if t.DueDate == nil || t.IsCompleted {
		return false
	}
	return t.DueDate.Before(now)
}

// MarshalJSON serializes the derived isOverdue flag alongside the stored
// attributes. The flag is recomputed on every read and never persisted.
func (t Task) MarshalJSON() ([]byte, error) {
	type alias Task
	return json.Marshal(struct {
		alias
		IsOverdue bool `json:"isOverdue"`
	}{
		alias:     alias(t),
		IsOverdue: t.IsOverdue(),
	})
}

// ValidationError carries per-field messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates an empty validation error ready to collect
// field messages.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a message for a field and returns the error for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields[field] = message
	return e
}

// HasErrors reports whether any field message was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	for field, msg := range e.Fields {
		return "validation failed: " + field + ": " + msg
	}
	return "validation failed"
}
