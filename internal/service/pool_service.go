package service

import (
	"alcyxob/workout-roulette/internal/domain"
	"alcyxob/workout-roulette/internal/repository"
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPoolNotFound         = errors.New("workout pool not found")
	ErrPoolNameRequired     = errors.New("pool name is required")
	ErrWorkoutAlreadyInPool = errors.New("workout is already in this pool")
	ErrWorkoutNotInPool     = errors.New("workout is not in this pool")
	ErrEmptyPool            = errors.New("cannot get random workout from empty pool")
)

// WorkoutPoolService owns pool CRUD and the pool <-> workout relation.
// It is the only component that reads or writes membership edges.
type WorkoutPoolService interface {
	CreatePool(ctx context.Context, name string) (*domain.WorkoutPool, error)
	GetPoolByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPool, error)
	GetAllPools(ctx context.Context) ([]domain.WorkoutPool, error)
	DeletePool(ctx context.Context, id primitive.ObjectID) error
	AddWorkoutToPool(ctx context.Context, poolID, workoutID primitive.ObjectID) error
	RemoveWorkoutFromPool(ctx context.Context, poolID, workoutID primitive.ObjectID) error
	GetWorkoutsInPool(ctx context.Context, poolID primitive.ObjectID) ([]domain.Workout, error)
	GetRandomWorkoutFromPool(ctx context.Context, poolID primitive.ObjectID) (*domain.Workout, error)
}

// workoutPoolService implements the WorkoutPoolService interface.
type workoutPoolService struct {
	poolRepo       repository.WorkoutPoolRepository
	workoutRepo    repository.WorkoutRepository
	membershipRepo repository.PoolMembershipRepository
	selector       *WorkoutSelector
}

// NewWorkoutPoolService creates a new instance of workoutPoolService.
func NewWorkoutPoolService(
	poolRepo repository.WorkoutPoolRepository,
	workoutRepo repository.WorkoutRepository,
	membershipRepo repository.PoolMembershipRepository,
	selector *WorkoutSelector,
) WorkoutPoolService {
	return &workoutPoolService{
		poolRepo:       poolRepo,
		workoutRepo:    workoutRepo,
		membershipRepo: membershipRepo,
		selector:       selector,
	}
}

// CreatePool creates a new named pool.
func (s *workoutPoolService) CreatePool(ctx context.Context, name string) (*domain.WorkoutPool, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrPoolNameRequired
	}

	pool := &domain.WorkoutPool{Name: strings.TrimSpace(name)}
	poolID, err := s.poolRepo.Create(ctx, pool)
	if err != nil {
		return nil, err
	}
	return s.poolRepo.GetByID(ctx, poolID) // Fetch again to get all fields
}

// GetPoolByID retrieves a single pool.
func (s *workoutPoolService) GetPoolByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPool, error) {
	pool, err := s.poolRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPoolNotFound
		}
		return nil, err
	}
	return pool, nil
}

// GetAllPools retrieves all pools.
func (s *workoutPoolService) GetAllPools(ctx context.Context) ([]domain.WorkoutPool, error) {
	return s.poolRepo.GetAll(ctx)
}

// DeletePool removes a pool and cascades its membership edges.
// The workouts themselves are never touched; they remain usable in
// other pools.
func (s *workoutPoolService) DeletePool(ctx context.Context, id primitive.ObjectID) error {
	err := s.poolRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPoolNotFound
		}
		return err
	}
	return s.membershipRepo.DeleteByPoolID(ctx, id)
}

// AddWorkoutToPool inserts a membership edge. Both the pool and the workout
// must exist. The duplicate check is not check-then-insert: the membership
// repository's unique index decides, so concurrent adds of the same pair
// leave exactly one row and the rest fail with ErrWorkoutAlreadyInPool.
func (s *workoutPoolService) AddWorkoutToPool(ctx context.Context, poolID, workoutID primitive.ObjectID) error {
	if _, err := s.poolRepo.GetByID(ctx, poolID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPoolNotFound
		}
		return err
	}
	if _, err := s.workoutRepo.GetByID(ctx, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}

	membership := &domain.WorkoutPoolWorkout{
		PoolID:    poolID,
		WorkoutID: workoutID,
	}
	if _, err := s.membershipRepo.Create(ctx, membership); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrWorkoutAlreadyInPool
		}
		return err
	}
	return nil
}

// RemoveWorkoutFromPool deletes a membership edge. Never deletes the workout.
func (s *workoutPoolService) RemoveWorkoutFromPool(ctx context.Context, poolID, workoutID primitive.ObjectID) error {
	err := s.membershipRepo.Delete(ctx, poolID, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotInPool
		}
		return err
	}
	return nil
}

// GetWorkoutsInPool returns the pool's member workouts that are currently
// visible. Visibility is re-evaluated on every call, so a workout hidden
// after being added silently disappears from the list while its membership
// edge survives. An unknown pool yields an empty list, not an error:
// listing is tolerant, the draw is not.
func (s *workoutPoolService) GetWorkoutsInPool(ctx context.Context, poolID primitive.ObjectID) ([]domain.Workout, error) {
	members, err := s.memberWorkouts(ctx, poolID)
	if err != nil {
		return nil, err
	}

	visible := make([]domain.Workout, 0, len(members))
	for _, w := range members {
		if !w.IsHidden {
			visible = append(visible, w)
		}
	}
	return visible, nil
}

// GetRandomWorkoutFromPool draws one visible member workout uniformly at
// random. Fails with ErrEmptyPool whenever the visible-member set is empty,
// whether the pool has no members, only hidden members, or doesn't exist.
// Those causes are intentionally not distinguished to the caller.
func (s *workoutPoolService) GetRandomWorkoutFromPool(ctx context.Context, poolID primitive.ObjectID) (*domain.Workout, error) {
	members, err := s.memberWorkouts(ctx, poolID)
	if err != nil {
		return nil, err
	}

	// SelectRandom skips hidden members itself.
	workout := s.selector.SelectRandom(members)
	if workout == nil {
		return nil, ErrEmptyPool
	}
	return workout, nil
}

// memberWorkouts resolves the pool's membership edges to workout documents,
// hidden ones included.
func (s *workoutPoolService) memberWorkouts(ctx context.Context, poolID primitive.ObjectID) ([]domain.Workout, error) {
	memberships, err := s.membershipRepo.GetByPoolID(ctx, poolID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return []domain.Workout{}, nil
	}

	ids := make([]primitive.ObjectID, len(memberships))
	for i, m := range memberships {
		ids[i] = m.WorkoutID
	}
	return s.workoutRepo.GetByIDs(ctx, ids)
}
