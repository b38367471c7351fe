package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/core/internal/domain/entities"
)

// TaskFilter narrows a task listing. Nil fields mean "no constraint", which
// is distinct from a constraint on the zero value (Completed=false matches
// only incomplete tasks). The owner is never part of the filter: it is a
// mandatory parameter on every repository operation so cross-owner records
// are structurally unreachable.
type TaskFilter struct {
	Completed *bool
	Tag       *string
	Priority  *entities.Priority
	DueAfter  *time.Time // inclusive
	DueBefore *time.Time // exclusive
}

// TaskRepository defines the interface for task data operations. Every
// method takes the owner's id and matches it as part of the query predicate;
// a task belonging to another owner behaves exactly like a missing task.
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	GetByID(ctx context.Context, ownerID, taskID uuid.UUID) (*entities.Task, error)
	List(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]*entities.Task, error)
	Update(ctx context.Context, task *entities.Task) error
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
}

// TokenRepository stores issued refresh tokens with a TTL so they can be
// revoked on logout.
type TokenRepository interface {
	Store(ctx context.Context, userID uuid.UUID, token string, ttl time.Duration) error
	UserFor(ctx context.Context, token string) (uuid.UUID, error)
	Revoke(ctx context.Context, userID uuid.UUID) error
}
