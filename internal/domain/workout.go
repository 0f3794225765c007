package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout represents an exercise definition that can be drawn randomly
// from a pool during a session.
type Workout struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	DurationMinutes int                `bson:"durationMinutes" json:"durationMinutes"`
	Difficulty      string             `bson:"difficulty,omitempty" json:"difficulty,omitempty"` // e.g., "Novice", "Medium", "Advanced"

	// IsHidden excludes the workout from pool listings and draws without
	// touching its pool memberships. Visibility is re-evaluated at draw
	// time, so hiding takes effect immediately.
	IsHidden bool `bson:"isHidden" json:"isHidden"`

	// IsPreloaded marks workouts inserted by the seed data on first boot.
	IsPreloaded bool `bson:"isPreloaded" json:"isPreloaded"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
