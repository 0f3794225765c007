package service

import (
	"alcyxob/workout-roulette/internal/domain"
	"alcyxob/workout-roulette/internal/repository"
	"context"
	"errors"
	"log"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound        = errors.New("workout not found")
	ErrWorkoutNameRequired    = errors.New("workout name is required")
	ErrWorkoutDurationInvalid = errors.New("workout duration must be positive")
)

// WorkoutService manages the workout library, including visibility.
// Hiding a workout leaves its pool memberships intact but excludes it from
// listings and draws until it is unhidden.
type WorkoutService interface {
	CreateWorkout(ctx context.Context, name string, durationMinutes int, difficulty string) (*domain.Workout, error)
	GetWorkoutByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetAllWorkouts(ctx context.Context) ([]domain.Workout, error)
	UpdateWorkout(ctx context.Context, id primitive.ObjectID, name string, durationMinutes int, difficulty string) (*domain.Workout, error)
	SetWorkoutHidden(ctx context.Context, id primitive.ObjectID, hidden bool) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, id primitive.ObjectID) error
	EnsurePreloadedWorkouts(ctx context.Context) error
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo    repository.WorkoutRepository
	membershipRepo repository.PoolMembershipRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	membershipRepo repository.PoolMembershipRepository,
) WorkoutService {
	return &workoutService{
		workoutRepo:    workoutRepo,
		membershipRepo: membershipRepo,
	}
}

// CreateWorkout creates a new workout definition, visible by default.
func (s *workoutService) CreateWorkout(ctx context.Context, name string, durationMinutes int, difficulty string) (*domain.Workout, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrWorkoutNameRequired
	}
	if durationMinutes <= 0 {
		return nil, ErrWorkoutDurationInvalid
	}

	workout := &domain.Workout{
		Name:            strings.TrimSpace(name),
		DurationMinutes: durationMinutes,
		Difficulty:      difficulty,
	}
	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	return s.workoutRepo.GetByID(ctx, workoutID) // Fetch again to get all fields
}

// GetWorkoutByID retrieves a single workout.
func (s *workoutService) GetWorkoutByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

// GetAllWorkouts retrieves all workouts, hidden ones included. Pool
// listings filter visibility; the library view shows everything.
func (s *workoutService) GetAllWorkouts(ctx context.Context) ([]domain.Workout, error) {
	return s.workoutRepo.GetAll(ctx)
}

// UpdateWorkout edits a workout's attributes.
func (s *workoutService) UpdateWorkout(ctx context.Context, id primitive.ObjectID, name string, durationMinutes int, difficulty string) (*domain.Workout, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrWorkoutNameRequired
	}
	if durationMinutes <= 0 {
		return nil, ErrWorkoutDurationInvalid
	}

	workout, err := s.GetWorkoutByID(ctx, id)
	if err != nil {
		return nil, err
	}

	workout.Name = strings.TrimSpace(name)
	workout.DurationMinutes = durationMinutes
	workout.Difficulty = difficulty

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

// SetWorkoutHidden toggles visibility. Pool memberships are untouched;
// the workout just stops (or starts) appearing in listings and draws.
func (s *workoutService) SetWorkoutHidden(ctx context.Context, id primitive.ObjectID, hidden bool) (*domain.Workout, error) {
	workout, err := s.GetWorkoutByID(ctx, id)
	if err != nil {
		return nil, err
	}

	workout.IsHidden = hidden

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

// DeleteWorkout removes a workout and its membership edges in every pool.
func (s *workoutService) DeleteWorkout(ctx context.Context, id primitive.ObjectID) error {
	err := s.workoutRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	return s.membershipRepo.DeleteByWorkoutID(ctx, id)
}

// preloadedWorkouts is the starter set inserted on first boot.
var preloadedWorkouts = []domain.Workout{
	{Name: "Jumping Jacks", DurationMinutes: 5, Difficulty: "Novice", IsPreloaded: true},
	{Name: "Push-Up Circuit", DurationMinutes: 10, Difficulty: "Medium", IsPreloaded: true},
	{Name: "Plank Hold Ladder", DurationMinutes: 5, Difficulty: "Medium", IsPreloaded: true},
	{Name: "Bodyweight Squats", DurationMinutes: 10, Difficulty: "Novice", IsPreloaded: true},
	{Name: "Burpee Blast", DurationMinutes: 15, Difficulty: "Advanced", IsPreloaded: true},
	{Name: "Mountain Climbers", DurationMinutes: 8, Difficulty: "Medium", IsPreloaded: true},
	{Name: "Stair Sprints", DurationMinutes: 12, Difficulty: "Advanced", IsPreloaded: true},
	{Name: "Stretch & Cooldown", DurationMinutes: 10, Difficulty: "Novice", IsPreloaded: true},
}

// EnsurePreloadedWorkouts seeds the starter workout set when the library is
// empty. Safe to call on every boot.
func (s *workoutService) EnsurePreloadedWorkouts(ctx context.Context) error {
	count, err := s.workoutRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for i := range preloadedWorkouts {
		w := preloadedWorkouts[i]
		if _, err := s.workoutRepo.Create(ctx, &w); err != nil {
			return err
		}
	}
	log.Printf("Seeded %d preloaded workouts", len(preloadedWorkouts))
	return nil
}
