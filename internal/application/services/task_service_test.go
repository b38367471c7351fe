package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/core/internal/domain/entities"
	"github.com/taskhive/core/internal/infrastructure/logger"
	"github.com/taskhive/core/internal/ports"
)

// fakeTaskRepo is an in-memory TaskRepository that honors the owner
// predicate the same way the Postgres implementation does.
type fakeTaskRepo struct {
	tasks      map[uuid.UUID]*entities.Task
	lastFilter ports.TaskFilter
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[uuid.UUID]*entities.Task)}
}

func (r *fakeTaskRepo) Create(ctx context.Context, task *entities.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	stored := *task
	r.tasks[task.ID] = &stored
	return nil
}

func (r *fakeTaskRepo) GetByID(ctx context.Context, ownerID, taskID uuid.UUID) (*entities.Task, error) {
	task, ok := r.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return nil, entities.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (r *fakeTaskRepo) List(ctx context.Context, ownerID uuid.UUID, filter ports.TaskFilter) ([]*entities.Task, error) {
	r.lastFilter = filter
	result := make([]*entities.Task, 0)
	for _, task := range r.tasks {
		if task.OwnerID != ownerID {
			continue
		}
		result = append(result, task)
	}
	return result, nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, task *entities.Task) error {
	stored, ok := r.tasks[task.ID]
	if !ok || stored.OwnerID != task.OwnerID {
		return entities.ErrTaskNotFound
	}
	task.UpdatedAt = time.Now()
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *fakeTaskRepo) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	task, ok := r.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return entities.ErrTaskNotFound
	}
	delete(r.tasks, taskID)
	return nil
}

func newTestService() (*TaskService, *fakeTaskRepo) {
	repo := newFakeTaskRepo()
	return NewTaskService(repo, logger.NewNop()), repo
}

func strPtr(s string) *string { return &s }

func TestCreateTaskValidation(t *testing.T) {
	svc, repo := newTestService()
	ownerID := uuid.New()

	tests := []struct {
		name      string
		req       ports.CreateTaskRequest
		wantField string
	}{
		{
			name:      "missing title",
			req:       ports.CreateTaskRequest{},
			wantField: "title",
		},
		{
			name:      "whitespace-only title",
			req:       ports.CreateTaskRequest{Title: "   "},
			wantField: "title",
		},
		{
			name:      "title over 100 characters",
			req:       ports.CreateTaskRequest{Title: strings.Repeat("a", 101)},
			wantField: "title",
		},
		{
			name: "description over 500 characters",
			req: ports.CreateTaskRequest{
				Title:       "ok",
				Description: strings.Repeat("d", 501),
			},
			wantField: "description",
		},
		{
			name:      "unknown priority",
			req:       ports.CreateTaskRequest{Title: "ok", Priority: "urgent"},
			wantField: "priority",
		},
		{
			name:      "tag over 20 characters",
			req:       ports.CreateTaskRequest{Title: "ok", Tags: []string{strings.Repeat("t", 21)}},
			wantField: "tags",
		},
		{
			name:      "unparseable due date",
			req:       ports.CreateTaskRequest{Title: "ok", DueDate: strPtr("not-a-date")},
			wantField: "dueDate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(repo.tasks)

			_, err := svc.CreateTask(context.Background(), ownerID, tt.req)

			var verr *entities.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("CreateTask() error = %v, want ValidationError", err)
			}
			if _, ok := verr.Fields[tt.wantField]; !ok {
				t.Errorf("ValidationError fields = %v, want message for %q", verr.Fields, tt.wantField)
			}
			if len(repo.tasks) != before {
				t.Errorf("invalid create persisted a record")
			}
		})
	}
}

func TestCreateTaskDefaults(t *testing.T) {
	svc, _ := newTestService()
	ownerID := uuid.New()

	task, err := svc.CreateTask(context.Background(), ownerID, ports.CreateTaskRequest{
		Title: "  Pay rent  ",
	})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	if task.Title != "Pay rent" {
		t.Errorf("Title = %q, want trimmed %q", task.Title, "Pay rent")
	}
	if task.Priority != entities.PriorityMedium {
		t.Errorf("Priority = %q, want default medium", task.Priority)
	}
	if task.IsCompleted {
		t.Errorf("IsCompleted = true, want false")
	}
	if task.DueDate != nil {
		t.Errorf("DueDate = %v, want nil", task.DueDate)
	}
	if task.OwnerID != ownerID {
		t.Errorf("OwnerID = %v, want %v", task.OwnerID, ownerID)
	}
	if task.ID == uuid.Nil {
		t.Errorf("ID not assigned")
	}
}

func TestCreateTaskParsesDueDateFormats(t *testing.T) {
	svc, _ := newTestService()
	ownerID := uuid.New()

	tests := []struct {
		name  string
		value string
	}{
		{"date only", "2024-01-01"},
		{"rfc3339", "2024-01-01T15:30:00Z"},
		{"no zone", "2024-01-01T15:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := svc.CreateTask(context.Background(), ownerID, ports.CreateTaskRequest{
				Title:   "with due date",
				DueDate: &tt.value,
			})
			if err != nil {
				t.Fatalf("CreateTask() error = %v", err)
			}
			if task.DueDate == nil {
				t.Fatalf("DueDate = nil, want parsed %q", tt.value)
			}
		})
	}
}

func TestListTasksFilterMapping(t *testing.T) {
	svc, repo := newTestService()
	ownerID := uuid.New()

	t.Run("no filters means no predicates", func(t *testing.T) {
		if _, err := svc.ListTasks(context.Background(), ownerID, ports.ListTasksQuery{}); err != nil {
			t.Fatalf("ListTasks() error = %v", err)
		}
		f := repo.lastFilter
		if f.Completed != nil || f.Tag != nil || f.Priority != nil || f.DueAfter != nil || f.DueBefore != nil {
			t.Errorf("filter = %+v, want all nil", f)
		}
	})

	t.Run("completed false is a real predicate", func(t *testing.T) {
		if _, err := svc.ListTasks(context.Background(), ownerID, ports.ListTasksQuery{Completed: "false"}); err != nil {
			t.Fatalf("ListTasks() error = %v", err)
		}
		if repo.lastFilter.Completed == nil || *repo.lastFilter.Completed {
			t.Errorf("Completed = %v, want pointer to false", repo.lastFilter.Completed)
		}
	})

	t.Run("valid priority is applied", func(t *testing.T) {
		if _, err := svc.ListTasks(context.Background(), ownerID, ports.ListTasksQuery{Priority: "high"}); err != nil {
			t.Fatalf("ListTasks() error = %v", err)
		}
		if repo.lastFilter.Priority == nil || *repo.lastFilter.Priority != entities.PriorityHigh {
			t.Errorf("Priority = %v, want high", repo.lastFilter.Priority)
		}
	})

	t.Run("invalid priority is silently dropped", func(t *testing.T) {
		if _, err := svc.ListTasks(context.Background(), ownerID, ports.ListTasksQuery{Priority: "urgent"}); err != nil {
			t.Fatalf("ListTasks() error = %v", err)
		}
		if repo.lastFilter.Priority != nil {
			t.Errorf("Priority = %v, want nil for invalid value", repo.lastFilter.Priority)
		}
	})

	t.Run("due date maps to whole-day window", func(t *testing.T) {
		if _, err := svc.ListTasks(context.Background(), ownerID, ports.ListTasksQuery{DueDate: "2024-01-01"}); err != nil {
			t.Fatalf("ListTasks() error = %v", err)
		}
		f := repo.lastFilter
		if f.DueAfter == nil || f.DueBefore == nil {
			t.Fatalf("due window not set: %+v", f)
		}
		wantStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		if !f.DueAfter.Equal(wantStart) {
			t.Errorf("DueAfter = %v, want %v", f.DueAfter, wantStart)
		}
		if got := f.DueBefore.Sub(*f.DueAfter); got != 24*time.Hour {
			t.Errorf("window width = %v, want 24h", got)
		}
	})
}

func TestUpdateTaskPartialSemantics(t *testing.T) {
	svc, _ := newTestService()
	ownerID := uuid.New()

	due := "2024-05-01"
	task, err := svc.CreateTask(context.Background(), ownerID, ports.CreateTaskRequest{
		Title:       "Original",
		Description: "Original description",
		Priority:    "high",
		DueDate:     &due,
		Tags:        []string{"home"},
	})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	// Only the title is supplied; everything else must survive.
	updated, err := svc.UpdateTask(context.Background(), ownerID, task.ID, ports.UpdateTaskRequest{
		Title: strPtr("Renamed"),
	})
	if err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}

	if updated.Title != "Renamed" {
		t.Errorf("Title = %q, want %q", updated.Title, "Renamed")
	}
	if updated.Description != "Original description" {
		t.Errorf("Description changed on partial update: %q", updated.Description)
	}
	if updated.Priority != entities.PriorityHigh {
		t.Errorf("Priority changed on partial update: %q", updated.Priority)
	}
	if updated.DueDate == nil {
		t.Errorf("DueDate cleared on partial update")
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "home" {
		t.Errorf("Tags changed on partial update: %v", updated.Tags)
	}

	// An explicitly empty due date clears it.
	cleared, err := svc.UpdateTask(context.Background(), ownerID, task.ID, ports.UpdateTaskRequest{
		DueDate: strPtr(""),
	})
	if err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	if cleared.DueDate != nil {
		t.Errorf("DueDate = %v, want cleared", cleared.DueDate)
	}

	// isCompleted may be set directly through update.
	done := true
	completed, err := svc.UpdateTask(context.Background(), ownerID, task.ID, ports.UpdateTaskRequest{
		IsCompleted: &done,
	})
	if err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	if !completed.IsCompleted {
		t.Errorf("IsCompleted = false, want true")
	}
}

func TestUpdateTaskValidationDoesNotPersist(t *testing.T) {
	svc, repo := newTestService()
	ownerID := uuid.New()

	task, err := svc.CreateTask(context.Background(), ownerID, ports.CreateTaskRequest{Title: "Keep me"})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	_, err = svc.UpdateTask(context.Background(), ownerID, task.ID, ports.UpdateTaskRequest{
		Title: strPtr(strings.Repeat("x", 101)),
	})

	var verr *entities.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("UpdateTask() error = %v, want ValidationError", err)
	}

	if repo.tasks[task.ID].Title != "Keep me" {
		t.Errorf("stored title = %q, want unchanged", repo.tasks[task.ID].Title)
	}
}

func TestCrossOwnerMutationsAreNotFound(t *testing.T) {
	svc, repo := newTestService()
	ownerA := uuid.New()
	ownerB := uuid.New()

	task, err := svc.CreateTask(context.Background(), ownerA, ports.CreateTaskRequest{Title: "A's task"})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	if _, err := svc.UpdateTask(context.Background(), ownerB, task.ID, ports.UpdateTaskRequest{Title: strPtr("stolen")}); !errors.Is(err, entities.ErrTaskNotFound) {
		t.Errorf("Update as other owner: error = %v, want ErrTaskNotFound", err)
	}

	if err := svc.DeleteTask(context.Background(), ownerB, task.ID); !errors.Is(err, entities.ErrTaskNotFound) {
		t.Errorf("Delete as other owner: error = %v, want ErrTaskNotFound", err)
	}

	if _, err := svc.ToggleTask(context.Background(), ownerB, task.ID); !errors.Is(err, entities.ErrTaskNotFound) {
		t.Errorf("Toggle as other owner: error = %v, want ErrTaskNotFound", err)
	}

	stored := repo.tasks[task.ID]
	if stored == nil || stored.Title != "A's task" || stored.IsCompleted {
		t.Errorf("record changed by cross-owner attempts: %+v", stored)
	}

	// And the other owner's listing never includes it.
	tasks, err := svc.ListTasks(context.Background(), ownerB, ports.ListTasksQuery{})
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("owner B sees %d tasks, want 0", len(tasks))
	}
}

func TestToggleTaskRoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ownerID := uuid.New()

	task, err := svc.CreateTask(context.Background(), ownerID, ports.CreateTaskRequest{Title: "Flip me"})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	once, err := svc.ToggleTask(context.Background(), ownerID, task.ID)
	if err != nil {
		t.Fatalf("ToggleTask() error = %v", err)
	}
	if !once.IsCompleted {
		t.Errorf("after first toggle IsCompleted = false, want true")
	}

	twice, err := svc.ToggleTask(context.Background(), ownerID, task.ID)
	if err != nil {
		t.Fatalf("ToggleTask() error = %v", err)
	}
	if twice.IsCompleted != task.IsCompleted {
		t.Errorf("after two toggles IsCompleted = %v, want original %v", twice.IsCompleted, task.IsCompleted)
	}
}

func TestDeleteTaskIsPermanent(t *testing.T) {
	svc, repo := newTestService()
	ownerID := uuid.New()

	task, err := svc.CreateTask(context.Background(), ownerID, ports.CreateTaskRequest{Title: "Short lived"})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	if err := svc.DeleteTask(context.Background(), ownerID, task.ID); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}

	if _, ok := repo.tasks[task.ID]; ok {
		t.Errorf("task still stored after delete")
	}

	if err := svc.DeleteTask(context.Background(), ownerID, task.ID); !errors.Is(err, entities.ErrTaskNotFound) {
		t.Errorf("second delete: error = %v, want ErrTaskNotFound", err)
	}
}
