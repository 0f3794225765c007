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
	"go.mongodb.org/mongo-driver/mongo/options"
)

const completionCollectionName = "action_completions"

// mongoActionCompletionRepository implements repository.ActionCompletionRepository.
// Append-only: there is intentionally no Update or Delete.
type mongoActionCompletionRepository struct {
	collection *mongo.Collection
}

// NewMongoActionCompletionRepository creates a new ActionCompletion repository.
func NewMongoActionCompletionRepository(db *mongo.Database) repository.ActionCompletionRepository {
	return &mongoActionCompletionRepository{
		collection: db.Collection(completionCollectionName),
	}
}

// Create appends a completion record.
func (r *mongoActionCompletionRepository) Create(ctx context.Context, completion *domain.ActionCompletion) (primitive.ObjectID, error) {
	if completion.SessionID == primitive.NilObjectID || completion.ActionID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("completion requires sessionId and actionId")
	}
	if completion.ID.IsZero() {
		completion.ID = primitive.NewObjectID()
	}
	if completion.CompletedAt.IsZero() {
		completion.CompletedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, completion)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted completion ID")
	}
	return insertedID, nil
}

// GetBySessionID retrieves all completions for a session, oldest first.
func (r *mongoActionCompletionRepository) GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ActionCompletion, error) {
	var completions []domain.ActionCompletion
	filter := bson.M{"sessionId": sessionID}
	findOptions := options.Find().SetSort(bson.D{{Key: "completedAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &completions); err != nil {
		return nil, err
	}
	return completions, nil
}

// GetAll retrieves every completion. Used by the backup snapshot.
func (r *mongoActionCompletionRepository) GetAll(ctx context.Context) ([]domain.ActionCompletion, error) {
	var completions []domain.ActionCompletion
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &completions); err != nil {
		return nil, err
	}
	return completions, nil
}

// EnsureActionCompletionIndexes creates necessary indexes. Call during startup.
func EnsureActionCompletionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}, {Key: "completedAt", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
