package client

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/core/internal/domain/entities"
	"github.com/taskhive/core/internal/ports"
)

// Stats summarizes the current collection. Recomputed from the in-memory
// tasks on demand, never fetched separately.
type Stats struct {
	Total     int
	Completed int
	Pending   int
	Overdue   int
}

// Collection maintains the client-visible task set for one session.
// Changing the filters re-fetches from the server rather than narrowing a
// local superset. Mutations are optimistic-on-success: local state is
// patched from the server's returned record after the round-trip resolves,
// and a failed mutation leaves prior state untouched.
type Collection struct {
	client  *Client
	filters Filters
	tasks   []*entities.Task
}

// NewCollection creates an empty collection bound to a client.
func NewCollection(client *Client) *Collection {
	return &Collection{client: client}
}

// Tasks returns the current in-memory task set, newest first as the server
// delivered it.
func (c *Collection) Tasks() []*entities.Task {
	return c.tasks
}

// Filters returns the active filter state.
func (c *Collection) Filters() Filters {
	return c.filters
}

// SetFilters replaces the filter state and re-fetches.
func (c *Collection) SetFilters(ctx context.Context, filters Filters) error {
	c.filters = filters
	return c.Refresh(ctx)
}

// ClearFilters removes every predicate and re-fetches.
func (c *Collection) ClearFilters(ctx context.Context) error {
	return c.SetFilters(ctx, Filters{})
}

// Refresh re-fetches the collection under the current filters.
func (c *Collection) Refresh(ctx context.Context) error {
	tasks, err := c.client.ListTasks(ctx, c.filters)
	if err != nil {
		return err
	}

	c.tasks = tasks
	return nil
}

// Create submits a new task and prepends the server's record on success.
func (c *Collection) Create(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	task, err := c.client.CreateTask(ctx, req)
	if err != nil {
		return nil, err
	}

	c.tasks = append([]*entities.Task{task}, c.tasks...)
	return task, nil
}

// Update submits a partial update and replaces the local record on success.
func (c *Collection) Update(ctx context.Context, id uuid.UUID, req ports.UpdateTaskRequest) (*entities.Task, error) {
	task, err := c.client.UpdateTask(ctx, id, req)
	if err != nil {
		return nil, err
	}

	c.replace(task)
	return task, nil
}

// Delete removes a task on the server and locally on success.
func (c *Collection) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.client.DeleteTask(ctx, id); err != nil {
		return err
	}

	kept := c.tasks[:0]
	for _, t := range c.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	c.tasks = kept
	return nil
}

// Toggle flips a task's completion flag and replaces the local record on
// success.
func (c *Collection) Toggle(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	task, err := c.client.ToggleTask(ctx, id)
	if err != nil {
		return nil, err
	}

	c.replace(task)
	return task, nil
}

// Stats computes summary counts over the in-memory collection.
func (c *Collection) Stats() Stats {
	return c.StatsAt(time.Now())
}

// StatsAt is Stats evaluated against an explicit clock.
func (c *Collection) StatsAt(now time.Time) Stats {
	stats := Stats{Total: len(c.tasks)}
	for _, t := range c.tasks {
		if t.IsCompleted {
			stats.Completed++
			continue
		}
		stats.Pending++
		if t.DueDate != nil && t.DueDate.Before(now) {
			stats.Overdue++
		}
	}
	return stats
}

func (c *Collection) replace(task *entities.Task) {
	for i, t := range c.tasks {
		if t.ID == task.ID {
			c.tasks[i] = task
			return
		}
	}
}
