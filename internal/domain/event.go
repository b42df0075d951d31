package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventStatus type for the event lifecycle
type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// ParseEventStatus maps a raw status string to a known EventStatus.
func ParseEventStatus(s string) (EventStatus, bool) {
	switch EventStatus(s) {
	case EventUpcoming, EventOngoing, EventCompleted, EventCancelled:
		return EventStatus(s), true
	}
	return "", false
}

// Event represents a scheduled class or workshop with a fixed capacity.
// Invariant: the number of registrations never exceeds Capacity, and
// members can only (un)register while the event is still upcoming.
type Event struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title             string              `bson:"title" json:"title"`
	Description       string              `bson:"description,omitempty" json:"description,omitempty"`
	DateTime          time.Time           `bson:"dateTime" json:"dateTime"`
	DurationInMinutes int                 `bson:"durationInMinutes" json:"durationInMinutes"`
	Capacity          int                 `bson:"capacity" json:"capacity"`
	Location          string              `bson:"location,omitempty" json:"location,omitempty"`
	Type              string              `bson:"type" json:"type"` // e.g. "workshop", "class"
	Status            EventStatus         `bson:"status" json:"status"`
	InstructorID      *primitive.ObjectID `bson:"instructorId,omitempty" json:"instructorId,omitempty"` // User with TRAINER role
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// IsUpcoming reports whether registration-affecting operations are allowed.
func (e *Event) IsUpcoming() bool {
	return e.Status == EventUpcoming
}

// EventRegistration records that a member holds a spot at an event.
// Unique on (EventID, UserID): a member holds at most one spot per event.
type EventRegistration struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID          primitive.ObjectID `bson:"eventId" json:"eventId"`
	UserID           primitive.ObjectID `bson:"userId" json:"userId"`
	RegistrationTime time.Time          `bson:"registrationTime" json:"registrationTime"`
}
