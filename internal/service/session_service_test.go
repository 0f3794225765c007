package service

import (
	"alcyxob/workout-roulette/internal/domain"
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// sessionFixture builds an env with one pool holding one visible workout,
// ready for sessions to draw from.
func sessionFixture(t *testing.T) (*testEnv, *domain.WorkoutPool) {
	t.Helper()
	env := newTestEnv(NewWorkoutSelector(rand.New(rand.NewSource(1))))
	pool := env.mustCreatePool(t, "Morning Mix")
	workoutID := env.mustCreateWorkout(t, "Push-Up Ladder", false)
	require.NoError(t, env.poolService.AddWorkoutToPool(context.Background(), pool.ID, workoutID))
	return env, pool
}

func (env *testEnv) mustStartSession(t *testing.T, poolID primitive.ObjectID) *domain.Session {
	t.Helper()
	session, err := env.sessionService.StartSession(context.Background(), "Leg Day", poolID, "")
	require.NoError(t, err)
	return session
}

func (env *testEnv) mustCreateAction(t *testing.T, description string, points int) *domain.Action {
	t.Helper()
	action, err := env.actionService.CreateAction(context.Background(), description, points)
	require.NoError(t, err)
	return action
}

func TestSessionService_StartSession(t *testing.T) {
	env, pool := sessionFixture(t)
	ctx := context.Background()

	session := env.mustStartSession(t, pool.ID)
	assert.Equal(t, "Leg Day", session.Name)
	assert.Equal(t, domain.SessionStatusActive, session.Status)
	assert.Equal(t, pool.ID, session.PoolID)
	assert.Zero(t, session.PointsEarned)
	assert.Zero(t, session.PointsSpent)
	assert.Nil(t, session.EndTime)

	_, err := env.sessionService.StartSession(ctx, "  ", pool.ID, "")
	assert.ErrorIs(t, err, ErrSessionNameRequired)

	_, err = env.sessionService.StartSession(ctx, "No Pool", primitive.NewObjectID(), "")
	assert.ErrorIs(t, err, ErrPoolNotFound)
}

func TestSessionService_StartSession_OnlyOneActive(t *testing.T) {
	env, pool := sessionFixture(t)
	ctx := context.Background()

	first := env.mustStartSession(t, pool.ID)

	_, err := env.sessionService.StartSession(ctx, "Second", pool.ID, "")
	assert.ErrorIs(t, err, ErrActiveSessionExists)

	// Ending the first session frees the slot.
	_, err = env.sessionService.EndSession(ctx, first.ID)
	require.NoError(t, err)

	second, err := env.sessionService.StartSession(ctx, "Second", pool.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusActive, second.Status)
}

// N simultaneous starts must resolve to exactly one winner; the rest get the
// conflict. The data layer decides, so the fan-out order does not matter.
func TestSessionService_StartSession_ConcurrentStartsOneWinner(t *testing.T) {
	env, pool := sessionFixture(t)
	ctx := context.Background()

	const starters = 8
	errs := make([]error, starters)
	var wg sync.WaitGroup
	for i := 0; i < starters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.sessionService.StartSession(ctx, "Leg Day", pool.ID, "")
		}(i)
	}
	wg.Wait()

	winners, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrActiveSessionExists):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, starters-1, conflicts)
}

func TestSessionService_GetActiveSession(t *testing.T) {
	env, pool := sessionFixture(t)
	ctx := context.Background()

	active, err := env.sessionService.GetActiveSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	session := env.mustStartSession(t, pool.ID)

	active, err = env.sessionService.GetActiveSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, session.ID, active.ID)
}

func TestSessionService_EndSession(t *testing.T) {
	env, pool := sessionFixture(t)
	ctx := context.Background()

	session := env.mustStartSession(t, pool.ID)

	ended, err := env.sessionService.EndSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusCompleted, ended.Status)
	require.NotNil(t, ended.EndTime)

	// Terminal states accept no further transitions.
	_, err = env.sessionService.EndSession(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotActive)
	_, err = env.sessionService.CancelSession(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotActive)

	_, err = env.sessionService.EndSession(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_CancelSession(t *testing.T) {
	env, pool := sessionFixture(t)
	ctx := context.Background()

	session := env.mustStartSession(t, pool.ID)

	cancelled, err := env.sessionService.CancelSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.EndTime)
}

func TestSessionService_CompleteAction(t *testing.T) {
	env, pool := sessionFixture(t)
	ctx := context.Background()

	session := env.mustStartSession(t, pool.ID)
	action := env.mustCreateAction(t, "Drink water", 10)

	completion, err := env.sessionService.CompleteAction(ctx, session.ID, action.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, completion.PointsAwarded)
	assert.Equal(t, session.ID, completion.SessionID)

	updated, err := env.sessionService.GetSessionByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, updated.PointsEarned)

	// The same action can be completed repeatedly.
	_, err = env.sessionService.CompleteAction(ctx, session.ID, action.ID)
	require.NoError(t, err)
	updated, err = env.sessionService.GetSessionByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, updated.PointsEarned)
}

func TestSessionService_CompleteAction_SnapshotsPointValue(t *testing.T) {
	env, pool := sessionFixture(t)
	ctx := context.Background()

	session := env.mustStartSession(t, pool.ID)
	action := env.mustCreateAction(t, "Drink water", 10)

	completion, err := env.sessionService.CompleteAction(ctx, session.ID, action.ID)
	require.NoError(t, err)

	// Raising the action's value later never rewrites history.
	_, err = env.actionService.UpdateAction(ctx, action.ID, "Drink water", 50)
	require.NoError(t, err)

	completions, err := env.sessionService.GetCompletionsForSession(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, completions, 1)
	assert.Equal(t, completion.ID, completions[0].ID)
	assert.Equal(t, 10, completions[0].PointsAwarded)

	updated, err := env.sessionService.GetSessionByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, updated.PointsEarned)
}

func TestSessionService_CompleteAction_Errors(t *testing.T) {
	env, pool := sessionFixture(t)
	ctx := context.Background()

	session := env.mustStartSession(t, pool.ID)
	action := env.mustCreateAction(t, "Drink water", 10)

	_, err := env.sessionService.CompleteAction(ctx, session.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrActionNotFound)

	_, err = env.sessionService.CompleteAction(ctx, primitive.NewObjectID(), action.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = env.sessionService.EndSession(ctx, session.ID)
	require.NoError(t, err)

	// Ended sessions earn nothing; their totals are frozen.
	_, err = env.sessionService.CompleteAction(ctx, session.ID, action.ID)
	assert.ErrorIs(t, err, ErrSessionNotActive)
	frozen, err := env.sessionService.GetSessionByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Zero(t, frozen.PointsEarned)
}

func TestSessionService_SpendPointsForWorkout(t *testing.T) {
	env, pool := sessionFixture(t)
	ctx := context.Background()

	session := env.mustStartSession(t, pool.ID)
	action := env.mustCreateAction(t, "Drink water", 30)
	_, err := env.sessionService.CompleteAction(ctx, session.ID, action.ID)
	require.NoError(t, err)

	received, err := env.sessionService.SpendPointsForWorkout(ctx, session.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, received.PointsSpent)
	assert.False(t, received.WorkoutID.IsZero())

	updated, err := env.sessionService.GetSessionByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, updated.PointsSpent)

	receipts, err := env.sessionService.GetReceivedForSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, receipts, 1)
}

func TestSessionService_SpendPointsForWorkout_InsufficientBalance(t *testing.T) {
	env, pool := sessionFixture(t)
	ctx := context.Background()

	session := env.mustStartSession(t, pool.ID)
	action := env.mustCreateAction(t, "Drink water", 10)
	_, err := env.sessionService.CompleteAction(ctx, session.ID, action.ID)
	require.NoError(t, err)

	_, err = env.sessionService.SpendPointsForWorkout(ctx, session.ID, 25)
	var insufficient *InsufficientBalanceError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 10, insufficient.Balance)
	assert.Equal(t, 25, insufficient.Required)

	// Nothing was persisted.
	updated, err := env.sessionService.GetSessionByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Zero(t, updated.PointsSpent)
	receipts, err := env.sessionService.GetReceivedForSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, receipts)
}

func TestSessionService_SpendPointsForWorkout_EmptyPoolRollsBack(t *testing.T) {
	env := newTestEnv(NewWorkoutSelector(rand.New(rand.NewSource(1))))
	ctx := context.Background()

	// A pool with no members: the draw must fail and the debit must not stick.
	pool := env.mustCreatePool(t, "Empty Pool")
	session := env.mustStartSession(t, pool.ID)
	action := env.mustCreateAction(t, "Drink water", 30)
	_, err := env.sessionService.CompleteAction(ctx, session.ID, action.ID)
	require.NoError(t, err)

	_, err = env.sessionService.SpendPointsForWorkout(ctx, session.ID, 20)
	assert.ErrorIs(t, err, ErrEmptyPool)

	updated, err := env.sessionService.GetSessionByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Zero(t, updated.PointsSpent)
	assert.Equal(t, 30, updated.PointsEarned)
	receipts, err := env.sessionService.GetReceivedForSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, receipts)
}

func TestSessionService_SpendPointsForWorkout_NotActive(t *testing.T) {
	env, pool := sessionFixture(t)
	ctx := context.Background()

	session := env.mustStartSession(t, pool.ID)
	_, err := env.sessionService.EndSession(ctx, session.ID)
	require.NoError(t, err)

	_, err = env.sessionService.SpendPointsForWorkout(ctx, session.ID, 10)
	assert.ErrorIs(t, err, ErrSessionNotActive)
}

func TestSessionService_ListingsRequireKnownSession(t *testing.T) {
	env, _ := sessionFixture(t)
	ctx := context.Background()

	_, err := env.sessionService.GetCompletionsForSession(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = env.sessionService.GetReceivedForSession(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_AverageCompletedDuration(t *testing.T) {
	env, pool := sessionFixture(t)
	ctx := context.Background()

	avg, err := env.sessionService.AverageCompletedDuration(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)

	session := env.mustStartSession(t, pool.ID)
	_, err = env.sessionService.EndSession(ctx, session.ID)
	require.NoError(t, err)

	avg, err = env.sessionService.AverageCompletedDuration(ctx)
	require.NoError(t, err)
	// The session just started and ended, so the average is near zero but real.
	assert.GreaterOrEqual(t, avg, 0.0)
	assert.Less(t, avg, 1.0)
}
