package mongo

import (
	"alcyxob/workout-roulette/internal/domain"
	"alcyxob/workout-roulette/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const actionCollectionName = "actions"

// mongoActionRepository implements repository.ActionRepository
type mongoActionRepository struct {
	collection *mongo.Collection
}

// NewMongoActionRepository creates a new Action repository.
func NewMongoActionRepository(db *mongo.Database) repository.ActionRepository {
	return &mongoActionRepository{
		collection: db.Collection(actionCollectionName),
	}
}

// Create inserts a new action.
func (r *mongoActionRepository) Create(ctx context.Context, action *domain.Action) (primitive.ObjectID, error) {
	if action.Description == "" || action.PointValue <= 0 {
		return primitive.NilObjectID, errors.New("action requires description and a positive pointValue")
	}
	if action.ID.IsZero() {
		action.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	action.CreatedAt = now
	action.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, action)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted action ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single action by its ID.
func (r *mongoActionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Action, error) {
	var action domain.Action
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&action)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &action, nil
}

// GetAll retrieves all actions.
func (r *mongoActionRepository) GetAll(ctx context.Context) ([]domain.Action, error) {
	var actions []domain.Action
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &actions); err != nil {
		return nil, err
	}
	return actions, nil
}

// Update persists changes to an action. Past completions keep the point
// values they snapshotted; only future completions see the new value.
func (r *mongoActionRepository) Update(ctx context.Context, action *domain.Action) error {
	if action.ID == primitive.NilObjectID {
		return errors.New("action ID is required for update")
	}

	filter := bson.M{"_id": action.ID}
	updateDoc := bson.M{
		"$set": bson.M{
			"description": action.Description,
			"pointValue":  action.PointValue,
			"updatedAt":   time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an action. Completions referencing it are kept; they
// reference, never own, the action.
func (r *mongoActionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if id == primitive.NilObjectID {
		return errors.New("action ID is required for deletion")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
