package service

import (
	"alcyxob/workout-roulette/internal/domain"
	"alcyxob/workout-roulette/internal/repository"
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrSessionNameRequired = errors.New("session name is required")
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionNotActive    = errors.New("session is not active")
	ErrActiveSessionExists = errors.New("an active session already exists")
	ErrActionNotFound      = errors.New("action not found")
)

// SessionService drives the session state machine:
// Active -> Completed (EndSession) or Active -> Cancelled (CancelSession),
// with no transitions out of a terminal state. At most one session is
// active store-wide; the session repository's partial unique index makes
// concurrent StartSession calls resolve to exactly one winner.
type SessionService interface {
	StartSession(ctx context.Context, name string, poolID primitive.ObjectID, description string) (*domain.Session, error)
	GetActiveSession(ctx context.Context) (*domain.Session, error) // (nil, nil) when no session is active
	GetSessionByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	GetAllSessions(ctx context.Context) ([]domain.Session, error)
	EndSession(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	CancelSession(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	CompleteAction(ctx context.Context, sessionID, actionID primitive.ObjectID) (*domain.ActionCompletion, error)
	SpendPointsForWorkout(ctx context.Context, sessionID primitive.ObjectID, pointCost int) (*domain.WorkoutReceived, error)
	GetCompletionsForSession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ActionCompletion, error)
	GetReceivedForSession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.WorkoutReceived, error)
	AverageCompletedDuration(ctx context.Context) (float64, error)
}

// sessionService implements the SessionService interface.
type sessionService struct {
	sessionRepo    repository.SessionRepository
	actionRepo     repository.ActionRepository
	completionRepo repository.ActionCompletionRepository
	receivedRepo   repository.WorkoutReceivedRepository
	poolService    WorkoutPoolService
	calculator     *PointCalculator
	txManager      repository.TxManager
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(
	sessionRepo repository.SessionRepository,
	actionRepo repository.ActionRepository,
	completionRepo repository.ActionCompletionRepository,
	receivedRepo repository.WorkoutReceivedRepository,
	poolService WorkoutPoolService,
	calculator *PointCalculator,
	txManager repository.TxManager,
) SessionService {
	return &sessionService{
		sessionRepo:    sessionRepo,
		actionRepo:     actionRepo,
		completionRepo: completionRepo,
		receivedRepo:   receivedRepo,
		poolService:    poolService,
		calculator:     calculator,
		txManager:      txManager,
	}
}

// StartSession creates a new active session against a pool. The pool must
// exist; the name must not be blank. If another session is already active
// the data layer rejects the insert and this fails with
// ErrActiveSessionExists; there is no check-then-insert race.
func (s *sessionService) StartSession(ctx context.Context, name string, poolID primitive.ObjectID, description string) (*domain.Session, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrSessionNameRequired
	}
	if _, err := s.poolService.GetPoolByID(ctx, poolID); err != nil {
		return nil, err // ErrPoolNotFound or a repo error
	}

	session := &domain.Session{
		Name:         strings.TrimSpace(name),
		Description:  description,
		PoolID:       poolID,
		Status:       domain.SessionStatusActive,
		StartTime:    time.Now().UTC(),
		PointsEarned: 0,
		PointsSpent:  0,
	}

	sessionID, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrActiveSessionExists
		}
		return nil, err
	}
	return s.sessionRepo.GetByID(ctx, sessionID) // Fetch again to get all fields
}

// GetActiveSession returns the one active session, or (nil, nil) when there
// is none.
func (s *sessionService) GetActiveSession(ctx context.Context) (*domain.Session, error) {
	session, err := s.sessionRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// GetSessionByID retrieves a single session.
func (s *sessionService) GetSessionByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// GetAllSessions retrieves all sessions.
func (s *sessionService) GetAllSessions(ctx context.Context) ([]domain.Session, error) {
	return s.sessionRepo.GetAll(ctx)
}

// EndSession transitions an active session to Completed and stamps its end
// time. The ledger totals are frozen from this point: every mutating
// operation checks for Active status and rejects terminal sessions.
func (s *sessionService) EndSession(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	return s.closeSession(ctx, id, domain.SessionStatusCompleted)
}

// CancelSession transitions an active session to Cancelled.
func (s *sessionService) CancelSession(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	return s.closeSession(ctx, id, domain.SessionStatusCancelled)
}

func (s *sessionService) closeSession(ctx context.Context, id primitive.ObjectID, status domain.SessionStatus) (*domain.Session, error) {
	session, err := s.GetSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, ErrSessionNotActive
	}

	now := time.Now().UTC()
	session.Status = status
	session.EndTime = &now

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// CompleteAction records one completion of an action inside a session and
// credits the session with the action's point value. PointsAwarded is a
// value copy of the action's PointValue at completion time, so editing the
// action later never changes historical totals.
func (s *sessionService) CompleteAction(ctx context.Context, sessionID, actionID primitive.ObjectID) (*domain.ActionCompletion, error) {
	var completion *domain.ActionCompletion

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		session, err := s.GetSessionByID(ctx, sessionID)
		if err != nil {
			return err
		}
		if !session.IsActive() {
			return ErrSessionNotActive
		}

		action, err := s.actionRepo.GetByID(ctx, actionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrActionNotFound
			}
			return err
		}

		updated, err := s.calculator.AddEarned(*session, action.PointValue)
		if err != nil {
			return err
		}
		if err := s.sessionRepo.Update(ctx, &updated); err != nil {
			return err
		}

		completion = &domain.ActionCompletion{
			SessionID:     sessionID,
			ActionID:      actionID,
			PointsAwarded: action.PointValue, // Snapshot, not a reference
			CompletedAt:   time.Now().UTC(),
		}
		completionID, err := s.completionRepo.Create(ctx, completion)
		if err != nil {
			return err
		}
		completion.ID = completionID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completion, nil
}

// SpendPointsForWorkout debits the session's ledger, draws a random visible
// workout from the session's pool, and records the receipt as one unit of
// work. If the draw fails (ErrEmptyPool) or the debit is rejected
// (*InsufficientBalanceError), nothing is persisted: the ledger is never
// left debited without a matching receipt, nor vice versa.
func (s *sessionService) SpendPointsForWorkout(ctx context.Context, sessionID primitive.ObjectID, pointCost int) (*domain.WorkoutReceived, error) {
	var received *domain.WorkoutReceived

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		session, err := s.GetSessionByID(ctx, sessionID)
		if err != nil {
			return err
		}
		if !session.IsActive() {
			return ErrSessionNotActive
		}

		updated, err := s.calculator.SpendFromBalance(*session, pointCost)
		if err != nil {
			return err // ErrInvalidPointAmount or *InsufficientBalanceError, unchanged
		}

		workout, err := s.poolService.GetRandomWorkoutFromPool(ctx, session.PoolID)
		if err != nil {
			return err // ErrEmptyPool propagates unchanged; the debit rolls back with it
		}

		if err := s.sessionRepo.Update(ctx, &updated); err != nil {
			return err
		}

		received = &domain.WorkoutReceived{
			SessionID:   sessionID,
			WorkoutID:   workout.ID,
			PointsSpent: pointCost,
			ReceivedAt:  time.Now().UTC(),
		}
		receivedID, err := s.receivedRepo.Create(ctx, received)
		if err != nil {
			return err
		}
		received.ID = receivedID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return received, nil
}

// GetCompletionsForSession lists the session's completion log.
func (s *sessionService) GetCompletionsForSession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ActionCompletion, error) {
	if _, err := s.GetSessionByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.completionRepo.GetBySessionID(ctx, sessionID)
}

// GetReceivedForSession lists the session's draw receipts.
func (s *sessionService) GetReceivedForSession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.WorkoutReceived, error) {
	if _, err := s.GetSessionByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.receivedRepo.GetBySessionID(ctx, sessionID)
}

// AverageCompletedDuration returns the mean duration of completed sessions
// in minutes, 0 when there are none.
func (s *sessionService) AverageCompletedDuration(ctx context.Context) (float64, error) {
	sessions, err := s.sessionRepo.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	return s.calculator.AverageCompletedDuration(sessions), nil
}
