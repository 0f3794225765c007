package service

import (
	"alcyxob/workout-roulette/internal/domain"
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newPoolTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnv(NewWorkoutSelector(rand.New(rand.NewSource(1))))
}

func (env *testEnv) mustCreateWorkout(t *testing.T, name string, hidden bool) primitive.ObjectID {
	t.Helper()
	id, err := env.workoutRepo.Create(context.Background(), &domain.Workout{
		Name:            name,
		DurationMinutes: 10,
		Difficulty:      "Medium",
		IsHidden:        hidden,
	})
	require.NoError(t, err)
	return id
}

func (env *testEnv) mustCreatePool(t *testing.T, name string) *domain.WorkoutPool {
	t.Helper()
	pool, err := env.poolService.CreatePool(context.Background(), name)
	require.NoError(t, err)
	return pool
}

func TestWorkoutPoolService_CreatePool(t *testing.T) {
	env := newPoolTestEnv(t)
	ctx := context.Background()

	pool := env.mustCreatePool(t, "Morning Mix")
	assert.Equal(t, "Morning Mix", pool.Name)
	assert.False(t, pool.ID.IsZero())

	_, err := env.poolService.CreatePool(ctx, "")
	assert.ErrorIs(t, err, ErrPoolNameRequired)

	// Whitespace-only names are blank too.
	_, err = env.poolService.CreatePool(ctx, "   ")
	assert.ErrorIs(t, err, ErrPoolNameRequired)

	trimmed, err := env.poolService.CreatePool(ctx, "  Evening Mix  ")
	require.NoError(t, err)
	assert.Equal(t, "Evening Mix", trimmed.Name)
}

func TestWorkoutPoolService_AddWorkoutToPool(t *testing.T) {
	env := newPoolTestEnv(t)
	ctx := context.Background()

	pool := env.mustCreatePool(t, "Morning Mix")
	workoutID := env.mustCreateWorkout(t, "Push-Up Ladder", false)

	require.NoError(t, env.poolService.AddWorkoutToPool(ctx, pool.ID, workoutID))

	// Same pair again is a conflict, not a silent no-op.
	err := env.poolService.AddWorkoutToPool(ctx, pool.ID, workoutID)
	assert.ErrorIs(t, err, ErrWorkoutAlreadyInPool)

	// The same workout can belong to several pools.
	other := env.mustCreatePool(t, "Evening Mix")
	assert.NoError(t, env.poolService.AddWorkoutToPool(ctx, other.ID, workoutID))
}

func TestWorkoutPoolService_AddWorkoutToPool_Missing(t *testing.T) {
	env := newPoolTestEnv(t)
	ctx := context.Background()

	pool := env.mustCreatePool(t, "Morning Mix")
	workoutID := env.mustCreateWorkout(t, "Push-Up Ladder", false)

	err := env.poolService.AddWorkoutToPool(ctx, primitive.NewObjectID(), workoutID)
	assert.ErrorIs(t, err, ErrPoolNotFound)

	err = env.poolService.AddWorkoutToPool(ctx, pool.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestWorkoutPoolService_RemoveWorkoutFromPool(t *testing.T) {
	env := newPoolTestEnv(t)
	ctx := context.Background()

	pool := env.mustCreatePool(t, "Morning Mix")
	workoutID := env.mustCreateWorkout(t, "Push-Up Ladder", false)
	require.NoError(t, env.poolService.AddWorkoutToPool(ctx, pool.ID, workoutID))

	require.NoError(t, env.poolService.RemoveWorkoutFromPool(ctx, pool.ID, workoutID))

	// Removing the edge never deletes the workout itself.
	_, err := env.workoutRepo.GetByID(ctx, workoutID)
	assert.NoError(t, err)

	err = env.poolService.RemoveWorkoutFromPool(ctx, pool.ID, workoutID)
	assert.ErrorIs(t, err, ErrWorkoutNotInPool)
}

func TestWorkoutPoolService_GetWorkoutsInPool_SkipsHidden(t *testing.T) {
	env := newPoolTestEnv(t)
	ctx := context.Background()

	pool := env.mustCreatePool(t, "Morning Mix")
	visibleID := env.mustCreateWorkout(t, "Push-Up Ladder", false)
	hiddenID := env.mustCreateWorkout(t, "Plank Hold", true)
	require.NoError(t, env.poolService.AddWorkoutToPool(ctx, pool.ID, visibleID))
	require.NoError(t, env.poolService.AddWorkoutToPool(ctx, pool.ID, hiddenID))

	workouts, err := env.poolService.GetWorkoutsInPool(ctx, pool.ID)
	require.NoError(t, err)
	require.Len(t, workouts, 1)
	assert.Equal(t, "Push-Up Ladder", workouts[0].Name)

	// Unhiding brings the workout back without re-adding it.
	hidden, err := env.workoutRepo.GetByID(ctx, hiddenID)
	require.NoError(t, err)
	hidden.IsHidden = false
	require.NoError(t, env.workoutRepo.Update(ctx, hidden))

	workouts, err = env.poolService.GetWorkoutsInPool(ctx, pool.ID)
	require.NoError(t, err)
	assert.Len(t, workouts, 2)
}

func TestWorkoutPoolService_GetWorkoutsInPool_UnknownPool(t *testing.T) {
	env := newPoolTestEnv(t)

	// Listing an unknown pool is tolerant and yields an empty list.
	workouts, err := env.poolService.GetWorkoutsInPool(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Empty(t, workouts)
}

func TestWorkoutPoolService_GetRandomWorkoutFromPool(t *testing.T) {
	env := newPoolTestEnv(t)
	ctx := context.Background()

	pool := env.mustCreatePool(t, "Morning Mix")
	aID := env.mustCreateWorkout(t, "Push-Up Ladder", false)
	bID := env.mustCreateWorkout(t, "Burpee Blast", false)
	hiddenID := env.mustCreateWorkout(t, "Plank Hold", true)
	require.NoError(t, env.poolService.AddWorkoutToPool(ctx, pool.ID, aID))
	require.NoError(t, env.poolService.AddWorkoutToPool(ctx, pool.ID, bID))
	require.NoError(t, env.poolService.AddWorkoutToPool(ctx, pool.ID, hiddenID))

	for i := 0; i < 50; i++ {
		workout, err := env.poolService.GetRandomWorkoutFromPool(ctx, pool.ID)
		require.NoError(t, err)
		assert.NotEqual(t, hiddenID, workout.ID)
	}
}

func TestWorkoutPoolService_GetRandomWorkoutFromPool_Empty(t *testing.T) {
	env := newPoolTestEnv(t)
	ctx := context.Background()

	// No members.
	pool := env.mustCreatePool(t, "Empty Pool")
	_, err := env.poolService.GetRandomWorkoutFromPool(ctx, pool.ID)
	assert.ErrorIs(t, err, ErrEmptyPool)

	// Only hidden members fails the same way.
	hiddenID := env.mustCreateWorkout(t, "Plank Hold", true)
	require.NoError(t, env.poolService.AddWorkoutToPool(ctx, pool.ID, hiddenID))
	_, err = env.poolService.GetRandomWorkoutFromPool(ctx, pool.ID)
	assert.ErrorIs(t, err, ErrEmptyPool)

	// So does an unknown pool.
	_, err = env.poolService.GetRandomWorkoutFromPool(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestWorkoutPoolService_DeletePool_CascadesMemberships(t *testing.T) {
	env := newPoolTestEnv(t)
	ctx := context.Background()

	pool := env.mustCreatePool(t, "Morning Mix")
	workoutID := env.mustCreateWorkout(t, "Push-Up Ladder", false)
	require.NoError(t, env.poolService.AddWorkoutToPool(ctx, pool.ID, workoutID))

	require.NoError(t, env.poolService.DeletePool(ctx, pool.ID))

	memberships, err := env.membershipRepo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, memberships)

	// The workout survives the cascade.
	_, err = env.workoutRepo.GetByID(ctx, workoutID)
	assert.NoError(t, err)

	err = env.poolService.DeletePool(ctx, pool.ID)
	assert.ErrorIs(t, err, ErrPoolNotFound)
}
