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

const poolCollectionName = "workout_pools"

// mongoWorkoutPoolRepository implements repository.WorkoutPoolRepository
type mongoWorkoutPoolRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutPoolRepository creates a new WorkoutPool repository.
func NewMongoWorkoutPoolRepository(db *mongo.Database) repository.WorkoutPoolRepository {
	return &mongoWorkoutPoolRepository{
		collection: db.Collection(poolCollectionName),
	}
}

// Create inserts a new pool.
func (r *mongoWorkoutPoolRepository) Create(ctx context.Context, pool *domain.WorkoutPool) (primitive.ObjectID, error) {
	if pool.Name == "" {
		return primitive.NilObjectID, errors.New("pool requires a name")
	}
	if pool.ID.IsZero() {
		pool.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	pool.CreatedAt = now
	pool.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, pool)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted pool ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single pool by its ID.
func (r *mongoWorkoutPoolRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPool, error) {
	var pool domain.WorkoutPool
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&pool)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &pool, nil
}

// GetAll retrieves all pools sorted by name.
func (r *mongoWorkoutPoolRepository) GetAll(ctx context.Context) ([]domain.WorkoutPool, error) {
	var pools []domain.WorkoutPool
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &pools); err != nil {
		return nil, err
	}
	return pools, nil
}

// Update persists changes to a pool.
func (r *mongoWorkoutPoolRepository) Update(ctx context.Context, pool *domain.WorkoutPool) error {
	if pool.ID == primitive.NilObjectID {
		return errors.New("pool ID is required for update")
	}

	filter := bson.M{"_id": pool.ID}
	updateDoc := bson.M{
		"$set": bson.M{
			"name":      pool.Name,
			"updatedAt": time.Now().UTC(),
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

// Delete removes a pool. Cascading its membership rows is the pool
// service's job; this only touches the pool document itself.
func (r *mongoWorkoutPoolRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if id == primitive.NilObjectID {
		return errors.New("pool ID is required for deletion")
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
