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

const membershipCollectionName = "workout_pool_workouts"

// mongoPoolMembershipRepository implements repository.PoolMembershipRepository
type mongoPoolMembershipRepository struct {
	collection *mongo.Collection
}

// NewMongoPoolMembershipRepository creates a new pool membership repository.
func NewMongoPoolMembershipRepository(db *mongo.Database) repository.PoolMembershipRepository {
	return &mongoPoolMembershipRepository{
		collection: db.Collection(membershipCollectionName),
	}
}

// Create inserts a membership edge. The compound unique index on
// (poolId, workoutId) is authoritative: concurrent adds of the same pair
// leave exactly one row, and the losers get repository.ErrDuplicate.
func (r *mongoPoolMembershipRepository) Create(ctx context.Context, membership *domain.WorkoutPoolWorkout) (primitive.ObjectID, error) {
	if membership.PoolID == primitive.NilObjectID || membership.WorkoutID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("membership requires poolId and workoutId")
	}
	if membership.ID.IsZero() {
		membership.ID = primitive.NewObjectID()
	}
	if membership.AddedAt.IsZero() {
		membership.AddedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, membership)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted membership ID")
	}
	return insertedID, nil
}

// GetByPoolID retrieves all membership edges for a pool.
// An unknown pool simply yields an empty slice.
func (r *mongoPoolMembershipRepository) GetByPoolID(ctx context.Context, poolID primitive.ObjectID) ([]domain.WorkoutPoolWorkout, error) {
	var memberships []domain.WorkoutPoolWorkout
	filter := bson.M{"poolId": poolID}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// GetAll retrieves every membership edge. Used by the backup snapshot.
func (r *mongoPoolMembershipRepository) GetAll(ctx context.Context) ([]domain.WorkoutPoolWorkout, error) {
	var memberships []domain.WorkoutPoolWorkout
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// Delete removes one membership edge. The underlying workout is untouched.
func (r *mongoPoolMembershipRepository) Delete(ctx context.Context, poolID, workoutID primitive.ObjectID) error {
	filter := bson.M{
		"poolId":    poolID,
		"workoutId": workoutID,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByPoolID removes all membership edges for a pool (pool deletion cascade).
func (r *mongoPoolMembershipRepository) DeleteByPoolID(ctx context.Context, poolID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"poolId": poolID})
	return err
}

// DeleteByWorkoutID removes all membership edges for a workout (workout deletion cascade).
func (r *mongoPoolMembershipRepository) DeleteByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"workoutId": workoutID})
	return err
}

// EnsurePoolMembershipIndexes creates necessary indexes. Call during startup.
// The unique compound index is what makes duplicate-add races safe; it must
// exist before requests are served.
func EnsurePoolMembershipIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "poolId", Value: 1}, {Key: "workoutId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "workoutId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
