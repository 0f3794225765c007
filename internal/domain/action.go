package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action is a user-defined task with a fixed point reward.
// Completing it during a session earns the session points.
type Action struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Description string             `bson:"description" json:"description"`
	PointValue  int                `bson:"pointValue" json:"pointValue"` // Always > 0
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ActionCompletion records one action being completed inside a session.
// PointsAwarded snapshots the action's PointValue at completion time, so
// later edits to the action never change historical session totals.
// Completions are append-only and never updated.
type ActionCompletion struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID     primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	ActionID      primitive.ObjectID `bson:"actionId" json:"actionId"`
	PointsAwarded int                `bson:"pointsAwarded" json:"pointsAwarded"`
	CompletedAt   time.Time          `bson:"completedAt" json:"completedAt"`
}
