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
	ErrActionDescriptionRequired = errors.New("action description is required")
	ErrActionPointValueInvalid   = errors.New("action point value must be positive")
)

// ActionService manages the point-earning task definitions.
type ActionService interface {
	CreateAction(ctx context.Context, description string, pointValue int) (*domain.Action, error)
	GetActionByID(ctx context.Context, id primitive.ObjectID) (*domain.Action, error)
	GetAllActions(ctx context.Context) ([]domain.Action, error)
	UpdateAction(ctx context.Context, id primitive.ObjectID, description string, pointValue int) (*domain.Action, error)
	DeleteAction(ctx context.Context, id primitive.ObjectID) error
}

// actionService implements the ActionService interface.
type actionService struct {
	actionRepo repository.ActionRepository
}

// NewActionService creates a new instance of actionService.
func NewActionService(actionRepo repository.ActionRepository) ActionService {
	return &actionService{actionRepo: actionRepo}
}

// CreateAction creates a new action definition.
func (s *actionService) CreateAction(ctx context.Context, description string, pointValue int) (*domain.Action, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrActionDescriptionRequired
	}
	if pointValue <= 0 {
		return nil, ErrActionPointValueInvalid
	}

	action := &domain.Action{
		Description: strings.TrimSpace(description),
		PointValue:  pointValue,
	}
	actionID, err := s.actionRepo.Create(ctx, action)
	if err != nil {
		return nil, err
	}
	return s.actionRepo.GetByID(ctx, actionID) // Fetch again to get all fields
}

// GetActionByID retrieves a single action.
func (s *actionService) GetActionByID(ctx context.Context, id primitive.ObjectID) (*domain.Action, error) {
	action, err := s.actionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActionNotFound
		}
		return nil, err
	}
	return action, nil
}

// GetAllActions retrieves all actions.
func (s *actionService) GetAllActions(ctx context.Context) ([]domain.Action, error) {
	return s.actionRepo.GetAll(ctx)
}

// UpdateAction edits an action's description and point value. Completions
// already recorded keep their snapshotted PointsAwarded; only future
// completions see the new value.
func (s *actionService) UpdateAction(ctx context.Context, id primitive.ObjectID, description string, pointValue int) (*domain.Action, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrActionDescriptionRequired
	}
	if pointValue <= 0 {
		return nil, ErrActionPointValueInvalid
	}

	action, err := s.GetActionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	action.Description = strings.TrimSpace(description)
	action.PointValue = pointValue

	if err := s.actionRepo.Update(ctx, action); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActionNotFound
		}
		return nil, err
	}
	return action, nil
}

// DeleteAction removes an action definition. Its past completions survive;
// they reference, never own, the action.
func (s *actionService) DeleteAction(ctx context.Context, id primitive.ObjectID) error {
	err := s.actionRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrActionNotFound
		}
		return err
	}
	return nil
}
