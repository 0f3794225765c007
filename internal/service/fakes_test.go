package service

import (
	"alcyxob/workout-roulette/internal/domain"
	"alcyxob/workout-roulette/internal/repository"
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is a shared in-memory backing store for the fake repositories.
// All fakes operate on the same store so the transaction fake can snapshot
// and restore everything at once. The mutex guards the session map; the
// concurrent StartSession test hits it from multiple goroutines.
type memStore struct {
	mu sync.Mutex
	sessions    map[primitive.ObjectID]domain.Session
	actions     map[primitive.ObjectID]domain.Action
	workouts    map[primitive.ObjectID]domain.Workout
	pools       map[primitive.ObjectID]domain.WorkoutPool
	memberships []domain.WorkoutPoolWorkout
	completions []domain.ActionCompletion
	received    []domain.WorkoutReceived
}

func newMemStore() *memStore {
	return &memStore{
		sessions: make(map[primitive.ObjectID]domain.Session),
		actions:  make(map[primitive.ObjectID]domain.Action),
		workouts: make(map[primitive.ObjectID]domain.Workout),
		pools:    make(map[primitive.ObjectID]domain.WorkoutPool),
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.sessions {
		c.sessions[k] = v
	}
	for k, v := range s.actions {
		c.actions[k] = v
	}
	for k, v := range s.workouts {
		c.workouts[k] = v
	}
	for k, v := range s.pools {
		c.pools[k] = v
	}
	c.memberships = append([]domain.WorkoutPoolWorkout(nil), s.memberships...)
	c.completions = append([]domain.ActionCompletion(nil), s.completions...)
	c.received = append([]domain.WorkoutReceived(nil), s.received...)
	return c
}

func (s *memStore) restore(from *memStore) {
	s.sessions = from.sessions
	s.actions = from.actions
	s.workouts = from.workouts
	s.pools = from.pools
	s.memberships = from.memberships
	s.completions = from.completions
	s.received = from.received
}

// fakeTxManager snapshots the store before running fn and restores it when
// fn fails, mirroring the rollback behaviour of a real transaction.
type fakeTxManager struct {
	store *memStore
}

func (m *fakeTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	before := m.store.clone()
	if err := fn(ctx); err != nil {
		m.store.restore(before)
		return err
	}
	return nil
}

// --- Session repository fake ---

type fakeSessionRepo struct {
	store *memStore
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if session.Status == domain.SessionStatusActive {
		for _, existing := range r.store.sessions {
			if existing.Status == domain.SessionStatusActive {
				return primitive.NilObjectID, repository.ErrDuplicate
			}
		}
	}
	if session.ID.IsZero() {
		session.ID = primitive.NewObjectID()
	}
	r.store.sessions[session.ID] = *session
	return session.ID, nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	session, ok := r.store.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &session, nil
}

func (r *fakeSessionRepo) GetActive(ctx context.Context) (*domain.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, session := range r.store.sessions {
		if session.Status == domain.SessionStatusActive {
			s := session
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSessionRepo) GetAll(ctx context.Context) ([]domain.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	all := make([]domain.Session, 0, len(r.store.sessions))
	for _, session := range r.store.sessions {
		all = append(all, session)
	}
	return all, nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *domain.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.sessions[session.ID]; !ok {
		return repository.ErrNotFound
	}
	r.store.sessions[session.ID] = *session
	return nil
}

// --- Action repository fake ---

type fakeActionRepo struct {
	store *memStore
}

func (r *fakeActionRepo) Create(ctx context.Context, action *domain.Action) (primitive.ObjectID, error) {
	if action.ID.IsZero() {
		action.ID = primitive.NewObjectID()
	}
	r.store.actions[action.ID] = *action
	return action.ID, nil
}

func (r *fakeActionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Action, error) {
	action, ok := r.store.actions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &action, nil
}

func (r *fakeActionRepo) GetAll(ctx context.Context) ([]domain.Action, error) {
	all := make([]domain.Action, 0, len(r.store.actions))
	for _, action := range r.store.actions {
		all = append(all, action)
	}
	return all, nil
}

func (r *fakeActionRepo) Update(ctx context.Context, action *domain.Action) error {
	if _, ok := r.store.actions[action.ID]; !ok {
		return repository.ErrNotFound
	}
	r.store.actions[action.ID] = *action
	return nil
}

func (r *fakeActionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.store.actions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.store.actions, id)
	return nil
}

// --- Workout repository fake ---

type fakeWorkoutRepo struct {
	store *memStore
}

func (r *fakeWorkoutRepo) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.ID.IsZero() {
		workout.ID = primitive.NewObjectID()
	}
	r.store.workouts[workout.ID] = *workout
	return workout.ID, nil
}

func (r *fakeWorkoutRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	workout, ok := r.store.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &workout, nil
}

func (r *fakeWorkoutRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Workout, error) {
	found := make([]domain.Workout, 0, len(ids))
	for _, id := range ids {
		if workout, ok := r.store.workouts[id]; ok {
			found = append(found, workout)
		}
	}
	return found, nil
}

func (r *fakeWorkoutRepo) GetAll(ctx context.Context) ([]domain.Workout, error) {
	all := make([]domain.Workout, 0, len(r.store.workouts))
	for _, workout := range r.store.workouts {
		all = append(all, workout)
	}
	return all, nil
}

func (r *fakeWorkoutRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.store.workouts)), nil
}

func (r *fakeWorkoutRepo) Update(ctx context.Context, workout *domain.Workout) error {
	if _, ok := r.store.workouts[workout.ID]; !ok {
		return repository.ErrNotFound
	}
	r.store.workouts[workout.ID] = *workout
	return nil
}

func (r *fakeWorkoutRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.store.workouts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.store.workouts, id)
	return nil
}

// --- Pool repository fake ---

type fakePoolRepo struct {
	store *memStore
}

func (r *fakePoolRepo) Create(ctx context.Context, pool *domain.WorkoutPool) (primitive.ObjectID, error) {
	if pool.ID.IsZero() {
		pool.ID = primitive.NewObjectID()
	}
	r.store.pools[pool.ID] = *pool
	return pool.ID, nil
}

func (r *fakePoolRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPool, error) {
	pool, ok := r.store.pools[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &pool, nil
}

func (r *fakePoolRepo) GetAll(ctx context.Context) ([]domain.WorkoutPool, error) {
	all := make([]domain.WorkoutPool, 0, len(r.store.pools))
	for _, pool := range r.store.pools {
		all = append(all, pool)
	}
	return all, nil
}

func (r *fakePoolRepo) Update(ctx context.Context, pool *domain.WorkoutPool) error {
	if _, ok := r.store.pools[pool.ID]; !ok {
		return repository.ErrNotFound
	}
	r.store.pools[pool.ID] = *pool
	return nil
}

func (r *fakePoolRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.store.pools[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.store.pools, id)
	return nil
}

// --- Pool membership repository fake ---

type fakeMembershipRepo struct {
	store *memStore
}

func (r *fakeMembershipRepo) Create(ctx context.Context, membership *domain.WorkoutPoolWorkout) (primitive.ObjectID, error) {
	for _, m := range r.store.memberships {
		if m.PoolID == membership.PoolID && m.WorkoutID == membership.WorkoutID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	if membership.ID.IsZero() {
		membership.ID = primitive.NewObjectID()
	}
	r.store.memberships = append(r.store.memberships, *membership)
	return membership.ID, nil
}

func (r *fakeMembershipRepo) GetByPoolID(ctx context.Context, poolID primitive.ObjectID) ([]domain.WorkoutPoolWorkout, error) {
	matches := make([]domain.WorkoutPoolWorkout, 0)
	for _, m := range r.store.memberships {
		if m.PoolID == poolID {
			matches = append(matches, m)
		}
	}
	return matches, nil
}

func (r *fakeMembershipRepo) GetAll(ctx context.Context) ([]domain.WorkoutPoolWorkout, error) {
	return append([]domain.WorkoutPoolWorkout(nil), r.store.memberships...), nil
}

func (r *fakeMembershipRepo) Delete(ctx context.Context, poolID, workoutID primitive.ObjectID) error {
	for i, m := range r.store.memberships {
		if m.PoolID == poolID && m.WorkoutID == workoutID {
			r.store.memberships = append(r.store.memberships[:i], r.store.memberships[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeMembershipRepo) DeleteByPoolID(ctx context.Context, poolID primitive.ObjectID) error {
	kept := r.store.memberships[:0]
	for _, m := range r.store.memberships {
		if m.PoolID != poolID {
			kept = append(kept, m)
		}
	}
	r.store.memberships = kept
	return nil
}

func (r *fakeMembershipRepo) DeleteByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) error {
	kept := r.store.memberships[:0]
	for _, m := range r.store.memberships {
		if m.WorkoutID != workoutID {
			kept = append(kept, m)
		}
	}
	r.store.memberships = kept
	return nil
}

// --- Completion repository fake ---

type fakeCompletionRepo struct {
	store *memStore
}

func (r *fakeCompletionRepo) Create(ctx context.Context, completion *domain.ActionCompletion) (primitive.ObjectID, error) {
	if completion.ID.IsZero() {
		completion.ID = primitive.NewObjectID()
	}
	r.store.completions = append(r.store.completions, *completion)
	return completion.ID, nil
}

func (r *fakeCompletionRepo) GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ActionCompletion, error) {
	matches := make([]domain.ActionCompletion, 0)
	for _, c := range r.store.completions {
		if c.SessionID == sessionID {
			matches = append(matches, c)
		}
	}
	return matches, nil
}

func (r *fakeCompletionRepo) GetAll(ctx context.Context) ([]domain.ActionCompletion, error) {
	return append([]domain.ActionCompletion(nil), r.store.completions...), nil
}

// --- Received repository fake ---

type fakeReceivedRepo struct {
	store *memStore
}

func (r *fakeReceivedRepo) Create(ctx context.Context, received *domain.WorkoutReceived) (primitive.ObjectID, error) {
	if received.ID.IsZero() {
		received.ID = primitive.NewObjectID()
	}
	r.store.received = append(r.store.received, *received)
	return received.ID, nil
}

func (r *fakeReceivedRepo) GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.WorkoutReceived, error) {
	matches := make([]domain.WorkoutReceived, 0)
	for _, w := range r.store.received {
		if w.SessionID == sessionID {
			matches = append(matches, w)
		}
	}
	return matches, nil
}

func (r *fakeReceivedRepo) GetAll(ctx context.Context) ([]domain.WorkoutReceived, error) {
	return append([]domain.WorkoutReceived(nil), r.store.received...), nil
}

// --- Test fixture wiring ---

// testEnv wires real services over the in-memory fakes.
type testEnv struct {
	store          *memStore
	sessionRepo    *fakeSessionRepo
	actionRepo     *fakeActionRepo
	workoutRepo    *fakeWorkoutRepo
	poolRepo       *fakePoolRepo
	membershipRepo *fakeMembershipRepo
	completionRepo *fakeCompletionRepo
	receivedRepo   *fakeReceivedRepo

	poolService    WorkoutPoolService
	sessionService SessionService
	workoutService WorkoutService
	actionService  ActionService
}

func newTestEnv(selector *WorkoutSelector) *testEnv {
	store := newMemStore()
	env := &testEnv{
		store:          store,
		sessionRepo:    &fakeSessionRepo{store: store},
		actionRepo:     &fakeActionRepo{store: store},
		workoutRepo:    &fakeWorkoutRepo{store: store},
		poolRepo:       &fakePoolRepo{store: store},
		membershipRepo: &fakeMembershipRepo{store: store},
		completionRepo: &fakeCompletionRepo{store: store},
		receivedRepo:   &fakeReceivedRepo{store: store},
	}

	env.poolService = NewWorkoutPoolService(env.poolRepo, env.workoutRepo, env.membershipRepo, selector)
	env.workoutService = NewWorkoutService(env.workoutRepo, env.membershipRepo)
	env.actionService = NewActionService(env.actionRepo)
	env.sessionService = NewSessionService(
		env.sessionRepo,
		env.actionRepo,
		env.completionRepo,
		env.receivedRepo,
		env.poolService,
		NewPointCalculator(),
		&fakeTxManager{store: store},
	)
	return env
}
