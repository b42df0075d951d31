package service

import (
	"context"
	"testing"
	"time"

	"smartsalle/gym-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemberCRUD(t *testing.T) {
	ctx := context.Background()

	t.Run("create stores a client account", func(t *testing.T) {
		users := newFakeUserRepo()
		svc := NewMemberService(users)

		member, err := svc.Create(ctx, UserInput{
			Email:     "karim@example.com",
			FirstName: "Karim",
			LastName:  "Alaoui",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleClient, member.Role)
		assert.False(t, member.ID.IsZero())
	})

	t.Run("create without an email is invalid", func(t *testing.T) {
		svc := NewMemberService(newFakeUserRepo())
		_, err := svc.Create(ctx, UserInput{FirstName: "Karim"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("create with a taken email conflicts", func(t *testing.T) {
		svc := NewMemberService(newFakeUserRepo())
		_, err := svc.Create(ctx, UserInput{Email: "karim@example.com"})
		require.NoError(t, err)

		_, err = svc.Create(ctx, UserInput{Email: "karim@example.com"})
		assert.ErrorIs(t, err, ErrEmailInUse)
	})

	t.Run("update applies only the provided fields", func(t *testing.T) {
		svc := NewMemberService(newFakeUserRepo())
		member, err := svc.Create(ctx, UserInput{Email: "karim@example.com", FirstName: "Karim"})
		require.NoError(t, err)

		phone := "+212600000001"
		updated, err := svc.Update(ctx, member.ID, UserUpdate{Phone: &phone})
		require.NoError(t, err)
		assert.Equal(t, "+212600000001", updated.Phone)
		assert.Equal(t, "Karim", updated.FirstName)
		assert.Equal(t, "karim@example.com", updated.Email)
	})

	t.Run("update to a taken email conflicts", func(t *testing.T) {
		svc := NewMemberService(newFakeUserRepo())
		_, err := svc.Create(ctx, UserInput{Email: "first@example.com"})
		require.NoError(t, err)
		second, err := svc.Create(ctx, UserInput{Email: "second@example.com"})
		require.NoError(t, err)

		email := "first@example.com"
		_, err = svc.Update(ctx, second.ID, UserUpdate{Email: &email})
		assert.ErrorIs(t, err, ErrEmailInUse)
	})

	t.Run("delete removes the account", func(t *testing.T) {
		svc := NewMemberService(newFakeUserRepo())
		member, err := svc.Create(ctx, UserInput{Email: "karim@example.com"})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, member.ID))

		_, err = svc.GetByID(ctx, member.ID)
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})

	t.Run("operations on an unknown member are not found", func(t *testing.T) {
		svc := NewMemberService(newFakeUserRepo())
		unknown := primitive.NewObjectID()

		_, err := svc.GetByID(ctx, unknown)
		assert.ErrorIs(t, err, ErrMemberNotFound)
		_, err = svc.Update(ctx, unknown, UserUpdate{})
		assert.ErrorIs(t, err, ErrMemberNotFound)
		assert.ErrorIs(t, svc.Delete(ctx, unknown), ErrMemberNotFound)
	})
}

func TestCoachCRUD(t *testing.T) {
	ctx := context.Background()

	t.Run("create stores a trainer account", func(t *testing.T) {
		svc := NewCoachService(newFakeUserRepo())
		coach, err := svc.Create(ctx, UserInput{Email: "sara@example.com", FirstName: "Sara"})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleTrainer, coach.Role)
	})

	t.Run("coach lookups never resolve other roles", func(t *testing.T) {
		users := newFakeUserRepo()
		memberID := users.addClient()
		svc := NewCoachService(users)

		_, err := svc.GetByID(ctx, memberID)
		assert.ErrorIs(t, err, ErrInstructorNotFound)
		assert.ErrorIs(t, svc.Delete(ctx, memberID), ErrInstructorNotFound)
	})

	t.Run("a created coach can instruct events", func(t *testing.T) {
		f := newEventFixture()
		coachSvc := NewCoachService(f.users)
		coach, err := coachSvc.Create(ctx, UserInput{Email: "sara@example.com"})
		require.NoError(t, err)

		event, err := f.svc.Create(ctx, EventInput{
			Title:        "Boxing Basics",
			DateTime:     time.Now().Add(24 * time.Hour),
			Capacity:     10,
			Type:         "class",
			InstructorID: &coach.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, event.InstructorID)
		assert.Equal(t, coach.ID, *event.InstructorID)
	})
}

func TestListScopesByRole(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	users.addClient()
	users.addClient()
	users.addTrainer()

	members, err := NewMemberService(users).List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	coaches, err := NewCoachService(users).List(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, coaches, 1)
	assert.Equal(t, domain.RoleTrainer, coaches[0].Role)
}
