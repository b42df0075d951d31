package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smartsalle/gym-app/internal/domain"
	"smartsalle/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventInput carries the fields for creating an event.
type EventInput struct {
	Title             string
	Description       string
	DateTime          time.Time
	DurationInMinutes int
	Capacity          int
	Location          string
	Type              string
	Status            domain.EventStatus
	InstructorID      *primitive.ObjectID
}

// EventUpdate carries a partial update; nil fields are left untouched.
type EventUpdate struct {
	Title             *string
	Description       *string
	DateTime          *time.Time
	DurationInMinutes *int
	Capacity          *int
	Location          *string
	Type              *string
	Status            *domain.EventStatus
	InstructorID      *primitive.ObjectID
}

// --- Service Interface ---
type EventService interface {
	Create(ctx context.Context, input EventInput) (*domain.Event, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Event, error)
	Update(ctx context.Context, id primitive.ObjectID, update EventUpdate) (*domain.Event, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter repository.EventFilter, page, size int) ([]domain.Event, error)
	Register(ctx context.Context, eventID, memberID primitive.ObjectID) (*domain.EventRegistration, error)
	Unregister(ctx context.Context, eventID, memberID primitive.ObjectID) error
	Registrations(ctx context.Context, eventID primitive.ObjectID) ([]domain.EventRegistration, error)
}

// --- Service Implementation ---

// eventService owns the event lifecycle and the capacity-limited
// registration flow. Registration and unregistration serialize on a
// per-event lock: the status gate, the duplicate check, the capacity count
// and the insert form one critical section, so concurrent registrations at
// the capacity boundary cannot overshoot. The (eventId, userId) unique index
// independently rejects duplicates at the storage level.
type eventService struct {
	eventRepo  repository.EventRepository
	regRepo    repository.EventRegistrationRepository
	userRepo   repository.UserRepository
	transactor repository.Transactor
	eventLocks *keyLock
	now        func() time.Time
}

// NewEventService creates a new instance of eventService.
func NewEventService(
	eventRepo repository.EventRepository,
	regRepo repository.EventRegistrationRepository,
	userRepo repository.UserRepository,
	transactor repository.Transactor,
) EventService {
	return &eventService{
		eventRepo:  eventRepo,
		regRepo:    regRepo,
		userRepo:   userRepo,
		transactor: transactor,
		eventLocks: newKeyLock(),
		now:        time.Now,
	}
}

// Create validates and stores a new event. Status defaults to upcoming.
func (s *eventService) Create(ctx context.Context, input EventInput) (*domain.Event, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: event title is required", ErrInvalidInput)
	}
	if input.Type == "" {
		return nil, fmt.Errorf("%w: event type is required", ErrInvalidInput)
	}
	if input.Capacity < 1 {
		return nil, fmt.Errorf("%w: event capacity must be at least 1", ErrInvalidInput)
	}
	if !input.DateTime.After(s.now()) {
		return nil, fmt.Errorf("%w: event date time must be in the future", ErrInvalidInput)
	}

	status := input.Status
	if status == "" {
		status = domain.EventUpcoming
	} else if _, ok := domain.ParseEventStatus(string(status)); !ok {
		return nil, fmt.Errorf("%w: unknown event status %q", ErrInvalidInput, status)
	}

	if input.InstructorID != nil {
		if err := s.requireTrainer(ctx, *input.InstructorID); err != nil {
			return nil, err
		}
	}

	event := &domain.Event{
		Title:             input.Title,
		Description:       input.Description,
		DateTime:          input.DateTime.UTC(),
		DurationInMinutes: input.DurationInMinutes,
		Capacity:          input.Capacity,
		Location:          input.Location,
		Type:              input.Type,
		Status:            status,
		InstructorID:      input.InstructorID,
	}

	eventID, err := s.eventRepo.Create(ctx, event)
	if err != nil {
		return nil, err
	}
	event.ID = eventID
	return event, nil
}

// GetByID retrieves a single event.
func (s *eventService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// Update applies a partial update to an event.
func (s *eventService) Update(ctx context.Context, id primitive.ObjectID, update EventUpdate) (*domain.Event, error) {
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		if *update.Title == "" {
			return nil, fmt.Errorf("%w: event title cannot be blank", ErrInvalidInput)
		}
		event.Title = *update.Title
	}
	if update.Description != nil {
		event.Description = *update.Description
	}
	if update.DateTime != nil {
		if !update.DateTime.After(s.now()) {
			return nil, fmt.Errorf("%w: event date time must be in the future", ErrInvalidInput)
		}
		event.DateTime = update.DateTime.UTC()
	}
	if update.DurationInMinutes != nil {
		event.DurationInMinutes = *update.DurationInMinutes
	}
	if update.Capacity != nil {
		if *update.Capacity < 1 {
			return nil, fmt.Errorf("%w: event capacity must be at least 1", ErrInvalidInput)
		}
		event.Capacity = *update.Capacity
	}
	if update.Location != nil {
		event.Location = *update.Location
	}
	if update.Type != nil {
		event.Type = *update.Type
	}
	if update.Status != nil {
		if _, ok := domain.ParseEventStatus(string(*update.Status)); !ok {
			return nil, fmt.Errorf("%w: unknown event status %q", ErrInvalidInput, *update.Status)
		}
		event.Status = *update.Status
	}
	if update.InstructorID != nil {
		if err := s.requireTrainer(ctx, *update.InstructorID); err != nil {
			return nil, err
		}
		event.InstructorID = update.InstructorID
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes an event together with its registrations, dependents
// first, inside one transaction.
func (s *eventService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	return s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.regRepo.DeleteByEvent(txCtx, id); err != nil {
			return err
		}
		err := s.eventRepo.Delete(txCtx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	})
}

// List returns events matching the filter.
func (s *eventService) List(ctx context.Context, filter repository.EventFilter, page, size int) ([]domain.Event, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	return s.eventRepo.Find(ctx, filter, page, size)
}

// Register adds the member to the event, enforcing the status gate, the
// one-registration-per-member rule and the capacity ceiling.
func (s *eventService) Register(ctx context.Context, eventID, memberID primitive.ObjectID) (*domain.EventRegistration, error) {
	if err := s.requireMember(ctx, memberID); err != nil {
		return nil, err
	}

	// Everything from the status read to the insert happens under the
	// event's lock; a concurrent registration cannot interleave between the
	// capacity count and the write.
	s.eventLocks.Lock(eventID.Hex())
	defer s.eventLocks.Unlock(eventID.Hex())

	event, err := s.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsUpcoming() {
		return nil, ErrEventNotUpcoming
	}

	_, err = s.regRepo.Get(ctx, eventID, memberID)
	if err == nil {
		return nil, ErrAlreadyRegistered
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	count, err := s.regRepo.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if count >= int64(event.Capacity) {
		return nil, ErrEventFull
	}

	reg := &domain.EventRegistration{
		EventID:          eventID,
		UserID:           memberID,
		RegistrationTime: s.now().UTC(),
	}

	regID, err := s.regRepo.Create(ctx, reg)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}
	reg.ID = regID

	return reg, nil
}

// Unregister removes the member's registration while the event is still
// upcoming.
func (s *eventService) Unregister(ctx context.Context, eventID, memberID primitive.ObjectID) error {
	if err := s.requireMember(ctx, memberID); err != nil {
		return err
	}

	s.eventLocks.Lock(eventID.Hex())
	defer s.eventLocks.Unlock(eventID.Hex())

	event, err := s.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if !event.IsUpcoming() {
		return ErrEventNotUpcoming
	}

	err = s.regRepo.Delete(ctx, eventID, memberID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotRegistered
	}
	return err
}

// Registrations lists who holds a spot at the event, oldest first.
func (s *eventService) Registrations(ctx context.Context, eventID primitive.ObjectID) ([]domain.EventRegistration, error) {
	if _, err := s.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.regRepo.FindByEvent(ctx, eventID)
}

func (s *eventService) requireMember(ctx context.Context, memberID primitive.ObjectID) error {
	user, err := s.userRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	if !user.IsClient() {
		return ErrMemberNotFound
	}
	return nil
}

func (s *eventService) requireTrainer(ctx context.Context, trainerID primitive.ObjectID) error {
	user, err := s.userRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInstructorNotFound
		}
		return err
	}
	if !user.IsTrainer() {
		return ErrInstructorNotFound
	}
	return nil
}
