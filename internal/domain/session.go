package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus type for session lifecycle
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed" // Ended normally, ledger frozen
	SessionStatusCancelled SessionStatus = "cancelled" // Aborted by the user
)

// Session represents one timed run of earning and spending points
// against a workout pool. At most one session may be active at a time;
// that is enforced by a partial unique index on the sessions collection,
// not by application-level checks.
type Session struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	PoolID      primitive.ObjectID `bson:"poolId" json:"poolId"` // Pool random workouts are drawn from
	Status      SessionStatus      `bson:"status" json:"status"`
	StartTime   time.Time          `bson:"startTime" json:"startTime"`
	EndTime     *time.Time         `bson:"endTime,omitempty" json:"endTime,omitempty"` // Set when the session leaves Active (pointer for nullability)

	// Ledger counters. Balance = PointsEarned - PointsSpent and is derived,
	// never stored. PointsSpent <= PointsEarned always holds.
	PointsEarned int `bson:"pointsEarned" json:"pointsEarned"`
	PointsSpent  int `bson:"pointsSpent" json:"pointsSpent"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Helper methods (Optional but can be useful)
func (s *Session) IsActive() bool {
	return s.Status == SessionStatusActive
}

func (s *Session) IsCompleted() bool {
	return s.Status == SessionStatusCompleted
}
