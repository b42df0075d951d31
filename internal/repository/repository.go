package repository

import (
	"context"
	"time"

	"smartsalle/gym-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Transactor runs fn inside one storage transaction: every repository call
// made with the ctx passed to fn commits or rolls back as a unit.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for interacting with user data.
// Create and Update must enforce email uniqueness and return ErrDuplicate
// on violation.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetManyByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error)
	FindByRole(ctx context.Context, role domain.Role, page, size int) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// GymRepository defines the interface for interacting with gym data.
type GymRepository interface {
	Create(ctx context.Context, gym *domain.Gym) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Gym, error)
	List(ctx context.Context) ([]domain.Gym, error)
}

// MembershipRepository defines the interface for interacting with membership data.
type MembershipRepository interface {
	Create(ctx context.Context, membership *domain.Membership) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Membership, error)
	FindByGymID(ctx context.Context, gymID primitive.ObjectID) ([]domain.Membership, error)
}

// PaymentFilter narrows payment listings. Nil/zero fields are ignored.
// The due-date window is half-open: DueFrom <= dueDate < DueUntil.
type PaymentFilter struct {
	UserID   *primitive.ObjectID
	Status   domain.PaymentStatus
	DueFrom  *time.Time
	DueUntil *time.Time
}

// PaymentRepository defines the interface for interacting with payment data.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Payment, error)
	Update(ctx context.Context, payment *domain.Payment) error
	Find(ctx context.Context, filter PaymentFilter, page, size int) ([]domain.Payment, error)
	Count(ctx context.Context) (int64, error)
	SumAmountByStatus(ctx context.Context, status domain.PaymentStatus) (float64, error)
	SumAmount(ctx context.Context) (float64, error)
}

// EventFilter narrows event listings. Zero fields are ignored.
// The window applies to the event's dateTime: From <= dateTime < Until.
type EventFilter struct {
	Status domain.EventStatus
	Type   string
	From   *time.Time
	Until  *time.Time
}

// EventRepository defines the interface for interacting with event data.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Find(ctx context.Context, filter EventFilter, page, size int) ([]domain.Event, error)
}

// EventRegistrationRepository defines the interface for event registrations.
// Create must enforce uniqueness on (eventId, userId) and return
// ErrDuplicate on violation.
type EventRegistrationRepository interface {
	Create(ctx context.Context, reg *domain.EventRegistration) (primitive.ObjectID, error)
	Get(ctx context.Context, eventID, userID primitive.ObjectID) (*domain.EventRegistration, error)
	Delete(ctx context.Context, eventID, userID primitive.ObjectID) error
	CountByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error)
	FindByEvent(ctx context.Context, eventID primitive.ObjectID) ([]domain.EventRegistration, error)
	DeleteByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error)
}

// AttendanceFilter narrows attendance listings. Zero fields are ignored.
// The window applies to checkInTime, half-open: From <= checkInTime < Until.
type AttendanceFilter struct {
	UserID *primitive.ObjectID
	Type   string
	From   *time.Time
	Until  *time.Time
}

// AttendanceRepository defines the interface for interacting with attendance data.
// Create must refuse a second open record for the same user (ErrDuplicate);
// the mongo implementation backs this with a partial unique index so the
// single-open-record invariant holds even if callers race past the
// service-level lock.
type AttendanceRepository interface {
	Create(ctx context.Context, record *domain.AttendanceRecord) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.AttendanceRecord, error)
	FindOpenByUser(ctx context.Context, userID primitive.ObjectID) (*domain.AttendanceRecord, error)
	Update(ctx context.Context, record *domain.AttendanceRecord) error
	Find(ctx context.Context, filter AttendanceFilter, page, size int) ([]domain.AttendanceRecord, error)
	CountInWindow(ctx context.Context, from, until time.Time) (int64, error)
	CountDistinctUsersInWindow(ctx context.Context, from, until time.Time) (int64, error)
	AverageDurationInWindow(ctx context.Context, from, until time.Time) (float64, error)
}
