package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttendanceRecord represents one gym visit by a member.
// Invariant: per member, at most one record has a nil CheckOutTime at any
// time (the "open" record). A record is created on check-in and mutated
// exactly once on check-out; it is never deleted by the attendance flow.
type AttendanceRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	CheckInTime time.Time          `bson:"checkInTime" json:"checkInTime"`
	// CheckOutTime is deliberately marshalled as an explicit null while the
	// record is open: the partial unique index that enforces one open record
	// per member matches on the null value.
	CheckOutTime      *time.Time `bson:"checkOutTime" json:"checkOutTime,omitempty"`
	Type              string     `bson:"type" json:"type"` // e.g. "Gym Session", "Yoga Class"
	DurationInMinutes *int       `bson:"durationInMinutes,omitempty" json:"durationInMinutes,omitempty"`
}

// IsOpen reports whether the member is still checked in on this record.
func (r *AttendanceRecord) IsOpen() bool {
	return r.CheckOutTime == nil
}
