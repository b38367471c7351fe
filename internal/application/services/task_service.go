package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/taskhive/core/internal/domain/entities"
	"github.com/taskhive/core/internal/infrastructure/logger"
	"github.com/taskhive/core/internal/ports"
)

// dueDateLayouts are the accepted due-date formats, tried in order.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// TaskService handles owner-scoped task operations. The owner id is threaded
// through every call down to the repository predicate, never checked as a
// separate authorization step.
type TaskService struct {
	taskRepo ports.TaskRepository
	logger   *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		logger:   logger,
	}
}

// ListTasks maps the raw filter options to a query predicate and executes
// it. An unknown priority value or an unparseable due date drops that option
// instead of failing the request.
func (s *TaskService) ListTasks(ctx context.Context, ownerID uuid.UUID, q ports.ListTasksQuery) ([]*entities.Task, error) {
	var filter ports.TaskFilter

	if q.Completed != "" {
		completed := q.Completed == "true"
		filter.Completed = &completed
	}

	if q.Tag != "" {
		tag := q.Tag
		filter.Tag = &tag
	}

	if q.Priority != "" {
		if priority := entities.Priority(q.Priority); priority.IsValid() {
			filter.Priority = &priority
		}
	}

	if q.DueDate != "" {
		if day, err := parseDueDate(q.DueDate); err == nil {
			// Whole-day window: [date 00:00, date+1d 00:00)
			start := day.Truncate(24 * time.Hour)
			end := start.Add(24 * time.Hour)
			filter.DueAfter = &start
			filter.DueBefore = &end
		}
	}

	tasks, err := s.taskRepo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// CreateTask validates the request and persists a new task for the owner.
func (s *TaskService) CreateTask(ctx context.Context, ownerID uuid.UUID, req ports.CreateTaskRequest) (*entities.Task, error) {
	verr := entities.NewValidationError()

	title := strings.TrimSpace(req.Title)
	if title == "" {
		verr.Add("title", "Title is required")
	} else if utf8.RuneCountInString(title) > entities.MaxTitleLength {
		verr.Add("title", fmt.Sprintf("Title cannot exceed %d characters", entities.MaxTitleLength))
	}

	description := strings.TrimSpace(req.Description)
	if utf8.RuneCountInString(description) > entities.MaxDescriptionLength {
		verr.Add("description", fmt.Sprintf("Description cannot exceed %d characters", entities.MaxDescriptionLength))
	}

	priority := entities.PriorityMedium
	if req.Priority != "" {
		priority = entities.Priority(req.Priority)
		if !priority.IsValid() {
			verr.Add("priority", "Priority must be low, medium, or high")
		}
	}

	tags := validateTags(req.Tags, verr)

	var dueDate *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		parsed, err := parseDueDate(*req.DueDate)
		if err != nil {
			verr.Add("dueDate", "Invalid date format")
		} else {
			dueDate = &parsed
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}

	task := &entities.Task{
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Priority:    priority,
		Tags:        tags,
		OwnerID:     ownerID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Infow("Task created", "task_id", task.ID, "owner_id", ownerID)

	return task, nil
}

// UpdateTask applies a partial update to an owned task. Only fields present
// in the request change; validation matches CreateTask for any supplied
// field. A task owned by someone else surfaces as not found.
func (s *TaskService) UpdateTask(ctx context.Context, ownerID, taskID uuid.UUID, req ports.UpdateTaskRequest) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	verr := entities.NewValidationError()

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			verr.Add("title", "Title is required")
		} else if utf8.RuneCountInString(title) > entities.MaxTitleLength {
			verr.Add("title", fmt.Sprintf("Title cannot exceed %d characters", entities.MaxTitleLength))
		} else {
			task.Title = title
		}
	}

	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if utf8.RuneCountInString(description) > entities.MaxDescriptionLength {
			verr.Add("description", fmt.Sprintf("Description cannot exceed %d characters", entities.MaxDescriptionLength))
		} else {
			task.Description = description
		}
	}

	if req.Priority != nil {
		priority := entities.Priority(*req.Priority)
		if !priority.IsValid() {
			verr.Add("priority", "Priority must be low, medium, or high")
		} else {
			task.Priority = priority
		}
	}

	if req.Tags != nil {
		task.Tags = validateTags(req.Tags, verr)
	}

	if req.DueDate != nil {
		if *req.DueDate == "" {
			task.DueDate = nil
		} else if parsed, err := parseDueDate(*req.DueDate); err != nil {
			verr.Add("dueDate", "Invalid date format")
		} else {
			task.DueDate = &parsed
		}
	}

	if req.IsCompleted != nil {
		task.IsCompleted = *req.IsCompleted
	}

	if verr.HasErrors() {
		return nil, verr
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Infow("Task updated", "task_id", task.ID, "owner_id", ownerID)

	return task, nil
}

// DeleteTask permanently removes an owned task.
func (s *TaskService) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error {
	if err := s.taskRepo.Delete(ctx, ownerID, taskID); err != nil {
		return err
	}

	s.logger.Infow("Task deleted", "task_id", taskID, "owner_id", ownerID)

	return nil
}

// ToggleTask flips the completion flag of an owned task.
func (s *TaskService) ToggleTask(ctx context.Context, ownerID, taskID uuid.UUID) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	task.IsCompleted = !task.IsCompleted

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Infow("Task toggled", "task_id", task.ID, "owner_id", ownerID, "is_completed", task.IsCompleted)

	return task, nil
}

func validateTags(tags []string, verr *entities.ValidationError) []string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if utf8.RuneCountInString(tag) > entities.MaxTagLength {
			verr.Add("tags", fmt.Sprintf("Tag cannot exceed %d characters", entities.MaxTagLength))
			continue
		}
		if tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	return cleaned
}

func parseDueDate(value string) (time.Time, error) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date: %q", value)
}
