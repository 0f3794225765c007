package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutPool is a named collection of workouts eligible for random draw.
// Deleting a pool cascades its membership edges but never the workouts.
type WorkoutPool struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutPoolWorkout is the membership edge between a pool and a workout.
// The (PoolID, WorkoutID) pair is unique, enforced by a compound unique
// index on the collection. Membership is independent of Workout.IsHidden.
type WorkoutPoolWorkout struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PoolID    primitive.ObjectID `bson:"poolId" json:"poolId"`
	WorkoutID primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	AddedAt   time.Time          `bson:"addedAt" json:"addedAt"`
}

// WorkoutReceived records one paid random draw. PointsSpent snapshots the
// cost at draw time. Receipts are append-only and never updated.
type WorkoutReceived struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID   primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	WorkoutID   primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	PointsSpent int                `bson:"pointsSpent" json:"pointsSpent"`
	ReceivedAt  time.Time          `bson:"receivedAt" json:"receivedAt"`
}
