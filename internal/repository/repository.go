package repository

import (
	"alcyxob/workout-roulette/internal/domain" // Import our defined domain models
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// TxManager defines the unit-of-work boundary. Repository calls made with
// the context passed to fn are committed or rolled back together.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// SessionRepository defines the interface for interacting with session data.
// Create returns ErrDuplicate when another session is already active; the
// single-active-session invariant lives in the database index, so concurrent
// creates race safely.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	GetActive(ctx context.Context) (*domain.Session, error) // ErrNotFound when no session is active
	GetAll(ctx context.Context) ([]domain.Session, error)
	Update(ctx context.Context, session *domain.Session) error
}

// ActionRepository defines the interface for interacting with action data.
type ActionRepository interface {
	Create(ctx context.Context, action *domain.Action) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Action, error)
	GetAll(ctx context.Context) ([]domain.Action, error)
	Update(ctx context.Context, action *domain.Action) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Workout, error)
	GetAll(ctx context.Context) ([]domain.Workout, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutPoolRepository defines the interface for interacting with pool data.
type WorkoutPoolRepository interface {
	Create(ctx context.Context, pool *domain.WorkoutPool) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPool, error)
	GetAll(ctx context.Context) ([]domain.WorkoutPool, error)
	Update(ctx context.Context, pool *domain.WorkoutPool) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PoolMembershipRepository owns the pool <-> workout relation.
// Create returns ErrDuplicate when the (poolId, workoutId) pair already
// exists; uniqueness is enforced by a compound unique index.
type PoolMembershipRepository interface {
	Create(ctx context.Context, membership *domain.WorkoutPoolWorkout) (primitive.ObjectID, error)
	GetByPoolID(ctx context.Context, poolID primitive.ObjectID) ([]domain.WorkoutPoolWorkout, error)
	GetAll(ctx context.Context) ([]domain.WorkoutPoolWorkout, error)
	Delete(ctx context.Context, poolID, workoutID primitive.ObjectID) error
	DeleteByPoolID(ctx context.Context, poolID primitive.ObjectID) error
	DeleteByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) error
}

// ActionCompletionRepository stores the append-only completion log.
// No Update or Delete: completions are immutable once written.
type ActionCompletionRepository interface {
	Create(ctx context.Context, completion *domain.ActionCompletion) (primitive.ObjectID, error)
	GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ActionCompletion, error)
	GetAll(ctx context.Context) ([]domain.ActionCompletion, error)
}

// WorkoutReceivedRepository stores the append-only draw receipt log.
type WorkoutReceivedRepository interface {
	Create(ctx context.Context, received *domain.WorkoutReceived) (primitive.ObjectID, error)
	GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.WorkoutReceived, error)
	GetAll(ctx context.Context) ([]domain.WorkoutReceived, error)
}
