package http

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/taskhive/core/internal/domain/entities"
)

// MessageResponse is a bare confirmation payload
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse carries an error message and optional per-field details
type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// TaskResponse wraps a single task with a confirmation message
type TaskResponse struct {
	Message string         `json:"message"`
	Task    *entities.Task `json:"task"`
}

// TaskListResponse is the filtered listing payload
type TaskListResponse struct {
	Count int              `json:"count"`
	Tasks []*entities.Task `json:"tasks"`
}

// DeleteTaskResponse confirms a deletion with the removed id
type DeleteTaskResponse struct {
	Message string `json:"message"`
	TaskID  string `json:"taskId"`
}

// AuthMessageResponse wraps an auth payload with a confirmation message
type AuthMessageResponse struct {
	Message      string         `json:"message"`
	Token        string         `json:"token"`
	RefreshToken string         `json:"refreshToken,omitempty"`
	User         *entities.User `json:"user"`
}

// ownerIDFromContext extracts the authenticated user's id set by the auth
// middleware.
func ownerIDFromContext(c echo.Context) uuid.UUID {
	userIDStr, ok := c.Get("user").(string)
	if !ok {
		return uuid.Nil
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil
	}

	return userID
}
