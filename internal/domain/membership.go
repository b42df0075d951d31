package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership links a user to a gym for a period of time.
// A membership created through the linking flow always has exactly one
// payment referencing it, and that payment belongs to the same user.
type Membership struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	GymID     primitive.ObjectID `bson:"gymId" json:"gymId"`
	StartDate time.Time          `bson:"startDate" json:"startDate"`
	EndDate   time.Time          `bson:"endDate" json:"endDate"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
