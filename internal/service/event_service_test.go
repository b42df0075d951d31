package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"smartsalle/gym-app/internal/domain"
	"smartsalle/gym-app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type eventFixture struct {
	svc    *eventService
	events *fakeEventRepo
	regs   *fakeRegistrationRepo
	users  *fakeUserRepo
}

func newEventFixture() *eventFixture {
	events := newFakeEventRepo()
	regs := newFakeRegistrationRepo()
	users := newFakeUserRepo()
	svc := NewEventService(events, regs, users, fakeTransactor{}).(*eventService)
	return &eventFixture{svc: svc, events: events, regs: regs, users: users}
}

func (f *eventFixture) addEvent(capacity int, status domain.EventStatus) primitive.ObjectID {
	return f.events.add(&domain.Event{
		Title:    "Morning Yoga",
		DateTime: time.Now().Add(48 * time.Hour),
		Capacity: capacity,
		Type:     "class",
		Status:   status,
	})
}

func TestEventCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a valid event with upcoming default", func(t *testing.T) {
		f := newEventFixture()
		event, err := f.svc.Create(ctx, EventInput{
			Title:    "Spin Class",
			DateTime: time.Now().Add(24 * time.Hour),
			Capacity: 15,
			Type:     "class",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.EventUpcoming, event.Status)
		assert.False(t, event.ID.IsZero())
	})

	t.Run("rejects a past date", func(t *testing.T) {
		f := newEventFixture()
		_, err := f.svc.Create(ctx, EventInput{
			Title:    "Spin Class",
			DateTime: time.Now().Add(-time.Hour),
			Capacity: 15,
			Type:     "class",
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects zero capacity", func(t *testing.T) {
		f := newEventFixture()
		_, err := f.svc.Create(ctx, EventInput{
			Title:    "Spin Class",
			DateTime: time.Now().Add(24 * time.Hour),
			Capacity: 0,
			Type:     "class",
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects an instructor without the trainer role", func(t *testing.T) {
		f := newEventFixture()
		clientID := f.users.addClient()
		_, err := f.svc.Create(ctx, EventInput{
			Title:        "Spin Class",
			DateTime:     time.Now().Add(24 * time.Hour),
			Capacity:     15,
			Type:         "class",
			InstructorID: &clientID,
		})
		assert.ErrorIs(t, err, ErrInstructorNotFound)
	})

	t.Run("accepts a trainer instructor", func(t *testing.T) {
		f := newEventFixture()
		trainerID := f.users.addTrainer()
		event, err := f.svc.Create(ctx, EventInput{
			Title:        "Spin Class",
			DateTime:     time.Now().Add(24 * time.Hour),
			Capacity:     15,
			Type:         "class",
			InstructorID: &trainerID,
		})
		require.NoError(t, err)
		require.NotNil(t, event.InstructorID)
		assert.Equal(t, trainerID, *event.InstructorID)
	})
}

func TestEventRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a member while capacity remains", func(t *testing.T) {
		f := newEventFixture()
		eventID := f.addEvent(2, domain.EventUpcoming)
		memberID := f.users.addClient()

		reg, err := f.svc.Register(ctx, eventID, memberID)
		require.NoError(t, err)
		assert.Equal(t, eventID, reg.EventID)
		assert.Equal(t, memberID, reg.UserID)
	})

	t.Run("fills to capacity then rejects", func(t *testing.T) {
		f := newEventFixture()
		eventID := f.addEvent(2, domain.EventUpcoming)
		a := f.users.addClient()
		b := f.users.addClient()
		c := f.users.addClient()

		_, err := f.svc.Register(ctx, eventID, a)
		require.NoError(t, err)
		_, err = f.svc.Register(ctx, eventID, b)
		require.NoError(t, err)

		_, err = f.svc.Register(ctx, eventID, c)
		assert.ErrorIs(t, err, ErrEventFull)
	})

	t.Run("rejects a duplicate registration", func(t *testing.T) {
		f := newEventFixture()
		eventID := f.addEvent(5, domain.EventUpcoming)
		memberID := f.users.addClient()

		_, err := f.svc.Register(ctx, eventID, memberID)
		require.NoError(t, err)

		_, err = f.svc.Register(ctx, eventID, memberID)
		assert.ErrorIs(t, err, ErrAlreadyRegistered)
	})

	t.Run("rejects registration on a non-upcoming event", func(t *testing.T) {
		f := newEventFixture()
		memberID := f.users.addClient()
		for _, status := range []domain.EventStatus{domain.EventOngoing, domain.EventCompleted, domain.EventCancelled} {
			eventID := f.addEvent(5, status)
			_, err := f.svc.Register(ctx, eventID, memberID)
			assert.ErrorIs(t, err, ErrEventNotUpcoming, "status %s", status)
		}
	})

	t.Run("rejects an unknown event", func(t *testing.T) {
		f := newEventFixture()
		memberID := f.users.addClient()
		_, err := f.svc.Register(ctx, primitive.NewObjectID(), memberID)
		assert.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("rejects an unknown member", func(t *testing.T) {
		f := newEventFixture()
		eventID := f.addEvent(5, domain.EventUpcoming)
		_, err := f.svc.Register(ctx, eventID, primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})
}

func TestEventRegisterConcurrentAtCapacityBoundary(t *testing.T) {
	ctx := context.Background()
	f := newEventFixture()
	eventID := f.addEvent(1, domain.EventUpcoming)

	const contenders = 16
	members := make([]primitive.ObjectID, contenders)
	for i := range members {
		members[i] = f.users.addClient()
	}

	var wg sync.WaitGroup
	errs := make(chan error, contenders)
	for _, memberID := range members {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Register(ctx, eventID, memberID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes := 0
	for err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrEventFull)
		}
	}
	assert.Equal(t, 1, successes)

	count, err := f.regs.CountByEvent(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEventList(t *testing.T) {
	ctx := context.Background()
	f := newEventFixture()
	f.addEvent(5, domain.EventUpcoming)
	f.addEvent(5, domain.EventUpcoming)
	f.addEvent(5, domain.EventCompleted)

	t.Run("returns everything without a filter", func(t *testing.T) {
		events, err := f.svc.List(ctx, repository.EventFilter{}, 0, 10)
		require.NoError(t, err)
		assert.Len(t, events, 3)
	})

	t.Run("filters by status", func(t *testing.T) {
		events, err := f.svc.List(ctx, repository.EventFilter{Status: domain.EventUpcoming}, 0, 10)
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})
}

func TestEventUnregister(t *testing.T) {
	ctx := context.Background()

	t.Run("frees the spot", func(t *testing.T) {
		f := newEventFixture()
		eventID := f.addEvent(1, domain.EventUpcoming)
		first := f.users.addClient()
		second := f.users.addClient()

		_, err := f.svc.Register(ctx, eventID, first)
		require.NoError(t, err)
		_, err = f.svc.Register(ctx, eventID, second)
		require.ErrorIs(t, err, ErrEventFull)

		require.NoError(t, f.svc.Unregister(ctx, eventID, first))

		_, err = f.svc.Register(ctx, eventID, second)
		assert.NoError(t, err)
	})

	t.Run("fails when not registered", func(t *testing.T) {
		f := newEventFixture()
		eventID := f.addEvent(1, domain.EventUpcoming)
		memberID := f.users.addClient()

		err := f.svc.Unregister(ctx, eventID, memberID)
		assert.ErrorIs(t, err, ErrNotRegistered)
	})

	t.Run("fails on a non-upcoming event", func(t *testing.T) {
		f := newEventFixture()
		eventID := f.addEvent(1, domain.EventCompleted)
		memberID := f.users.addClient()

		err := f.svc.Unregister(ctx, eventID, memberID)
		assert.ErrorIs(t, err, ErrEventNotUpcoming)
	})
}

func TestEventDeleteRemovesRegistrations(t *testing.T) {
	ctx := context.Background()
	f := newEventFixture()
	eventID := f.addEvent(5, domain.EventUpcoming)
	memberID := f.users.addClient()

	_, err := f.svc.Register(ctx, eventID, memberID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, eventID))

	_, err = f.svc.GetByID(ctx, eventID)
	assert.ErrorIs(t, err, ErrEventNotFound)

	count, err := f.regs.CountByEvent(ctx, eventID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEventUpdate(t *testing.T) {
	ctx := context.Background()
	f := newEventFixture()
	eventID := f.addEvent(5, domain.EventUpcoming)

	t.Run("applies only the provided fields", func(t *testing.T) {
		title := "Evening Yoga"
		capacity := 8
		event, err := f.svc.Update(ctx, eventID, EventUpdate{Title: &title, Capacity: &capacity})
		require.NoError(t, err)
		assert.Equal(t, "Evening Yoga", event.Title)
		assert.Equal(t, 8, event.Capacity)
		assert.Equal(t, "class", event.Type)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		bogus := domain.EventStatus("archived")
		_, err := f.svc.Update(ctx, eventID, EventUpdate{Status: &bogus})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects an unknown event", func(t *testing.T) {
		title := "whatever"
		_, err := f.svc.Update(ctx, primitive.NewObjectID(), EventUpdate{Title: &title})
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

// Cancelling an event, then attempting to register, exercises the status
// gate through the normal update path.
func TestEventCancelBlocksRegistration(t *testing.T) {
	ctx := context.Background()
	f := newEventFixture()
	eventID := f.addEvent(5, domain.EventUpcoming)
	memberID := f.users.addClient()

	cancelled := domain.EventCancelled
	_, err := f.svc.Update(ctx, eventID, EventUpdate{Status: &cancelled})
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, eventID, memberID)
	assert.ErrorIs(t, err, ErrEventNotUpcoming)
}
