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

const receivedCollectionName = "workouts_received"

// mongoWorkoutReceivedRepository implements repository.WorkoutReceivedRepository.
// Append-only: there is intentionally no Update or Delete.
type mongoWorkoutReceivedRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutReceivedRepository creates a new WorkoutReceived repository.
func NewMongoWorkoutReceivedRepository(db *mongo.Database) repository.WorkoutReceivedRepository {
	return &mongoWorkoutReceivedRepository{
		collection: db.Collection(receivedCollectionName),
	}
}

// Create appends a draw receipt.
func (r *mongoWorkoutReceivedRepository) Create(ctx context.Context, received *domain.WorkoutReceived) (primitive.ObjectID, error) {
	if received.SessionID == primitive.NilObjectID || received.WorkoutID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("receipt requires sessionId and workoutId")
	}
	if received.ID.IsZero() {
		received.ID = primitive.NewObjectID()
	}
	if received.ReceivedAt.IsZero() {
		received.ReceivedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, received)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted receipt ID")
	}
	return insertedID, nil
}

// GetBySessionID retrieves all receipts for a session, oldest first.
func (r *mongoWorkoutReceivedRepository) GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.WorkoutReceived, error) {
	var receipts []domain.WorkoutReceived
	filter := bson.M{"sessionId": sessionID}
	findOptions := options.Find().SetSort(bson.D{{Key: "receivedAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &receipts); err != nil {
		return nil, err
	}
	return receipts, nil
}

// GetAll retrieves every receipt. Used by the backup snapshot.
func (r *mongoWorkoutReceivedRepository) GetAll(ctx context.Context) ([]domain.WorkoutReceived, error) {
	var receipts []domain.WorkoutReceived
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &receipts); err != nil {
		return nil, err
	}
	return receipts, nil
}

// EnsureWorkoutReceivedIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutReceivedIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}, {Key: "receivedAt", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
