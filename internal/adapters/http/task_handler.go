package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/taskhive/core/internal/domain/entities"
	"github.com/taskhive/core/internal/infrastructure/logger"
	"github.com/taskhive/core/internal/ports"
)

// TaskHandler handles task-related requests. Every operation resolves the
// caller's id from the request context and threads it into the service, so
// the handler never sees another owner's records.
type TaskHandler struct {
	taskService ports.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// ListTasks handles GET /api/tasks
// @Summary List tasks
// @Description List the caller's tasks, optionally filtered by completion, tag, priority or due date
// @Tags Tasks
// @Security BearerAuth
// @Param completed query string false "Filter by completion status (true/false)"
// @Param tag query string false "Filter by tag"
// @Param priority query string false "Filter by priority (low/medium/high)"
// @Param dueDate query string false "Filter by due date (YYYY-MM-DD)"
// @Success 200 {object} TaskListResponse
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	ownerID := ownerIDFromContext(c)

	q := ports.ListTasksQuery{
		Completed: c.QueryParam("completed"),
		Tag:       c.QueryParam("tag"),
		Priority:  c.QueryParam("priority"),
		DueDate:   c.QueryParam("dueDate"),
	}

	tasks, err := h.taskService.ListTasks(c.Request().Context(), ownerID, q)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, TaskListResponse{
		Count: len(tasks),
		Tasks: tasks,
	})
}

// CreateTask handles POST /api/tasks
// @Summary Create a task
// @Tags Tasks
// @Security BearerAuth
// @Param request body ports.CreateTaskRequest true "Task fields"
// @Success 201 {object} TaskResponse
// @Failure 400 {object} ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	ownerID := ownerIDFromContext(c)

	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), ownerID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, TaskResponse{
		Message: "Task created successfully",
		Task:    task,
	})
}

// UpdateTask handles PUT /api/tasks/:id
// @Summary Update a task
// @Description Apply a partial update; only supplied fields change
// @Tags Tasks
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body ports.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} TaskResponse
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	ownerID := ownerIDFromContext(c)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// A malformed id cannot name an owned task
		return entities.ErrTaskNotFound
	}

	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), ownerID, taskID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, TaskResponse{
		Message: "Task updated successfully",
		Task:    task,
	})
}

// DeleteTask handles DELETE /api/tasks/:id
// @Summary Delete a task
// @Tags Tasks
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} DeleteTaskResponse
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	ownerID := ownerIDFromContext(c)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return entities.ErrTaskNotFound
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), ownerID, taskID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, DeleteTaskResponse{
		Message: "Task deleted successfully",
		TaskID:  taskID.String(),
	})
}

// ToggleTask handles PATCH /api/tasks/:id/toggle
// @Summary Toggle task completion
// @Tags Tasks
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} TaskResponse
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id}/toggle [patch]
func (h *TaskHandler) ToggleTask(c echo.Context) error {
	ownerID := ownerIDFromContext(c)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return entities.ErrTaskNotFound
	}

	task, err := h.taskService.ToggleTask(c.Request().Context(), ownerID, taskID)
	if err != nil {
		return err
	}

	message := "Task marked as incomplete"
	if task.IsCompleted {
		message = "Task marked as completed"
	}

	return c.JSON(http.StatusOK, TaskResponse{
		Message: message,
		Task:    task,
	})
}
