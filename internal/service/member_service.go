package service

import (
	"context"
	"errors"
	"fmt"

	"smartsalle/gym-app/internal/domain"
	"smartsalle/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserInput carries the fields for creating a member or coach account.
type UserInput struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

// UserUpdate carries a partial account update; nil fields are left untouched.
type UserUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
	Phone     *string
}

// --- Service Interfaces ---

// MemberService manages the CLIENT side of the user collection.
type MemberService interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	List(ctx context.Context, page, size int) ([]domain.User, error)
	Create(ctx context.Context, input UserInput) (*domain.User, error)
	Update(ctx context.Context, id primitive.ObjectID, update UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CoachService manages the TRAINER side of the user collection.
type CoachService interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	List(ctx context.Context, page, size int) ([]domain.User, error)
	Create(ctx context.Context, input UserInput) (*domain.User, error)
	Update(ctx context.Context, id primitive.ObjectID, update UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// --- Service Implementation ---

// userRoleService is the shared implementation behind MemberService and
// CoachService: the same CRUD over the user collection, scoped to one role.
// A lookup that resolves to a user holding a different role reports the
// scoped not-found error, so member endpoints never leak coach accounts and
// vice versa.
type userRoleService struct {
	userRepo repository.UserRepository
	role     domain.Role
	notFound error
}

// NewMemberService creates the user service scoped to CLIENT accounts.
func NewMemberService(userRepo repository.UserRepository) MemberService {
	return &userRoleService{
		userRepo: userRepo,
		role:     domain.RoleClient,
		notFound: ErrMemberNotFound,
	}
}

// NewCoachService creates the user service scoped to TRAINER accounts.
func NewCoachService(userRepo repository.UserRepository) CoachService {
	return &userRoleService{
		userRepo: userRepo,
		role:     domain.RoleTrainer,
		notFound: ErrInstructorNotFound,
	}
}

// GetByID retrieves a single account holding the service's role.
func (s *userRoleService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.notFound
		}
		return nil, err
	}
	if user.Role != s.role {
		return nil, s.notFound
	}
	return user, nil
}

// List retrieves accounts holding the service's role.
func (s *userRoleService) List(ctx context.Context, page, size int) ([]domain.User, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	return s.userRepo.FindByRole(ctx, s.role, page, size)
}

// Create stores a new account with the service's role. Fails with
// ErrEmailInUse when the email already belongs to another account.
func (s *userRoleService) Create(ctx context.Context, input UserInput) (*domain.User, error) {
	if input.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	user := &domain.User{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Role:      s.role,
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	user.ID = userID
	return user, nil
}

// Update applies a partial update to an account holding the service's role.
func (s *userRoleService) Update(ctx context.Context, id primitive.ObjectID, update UserUpdate) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Email != nil {
		if *update.Email == "" {
			return nil, fmt.Errorf("%w: email cannot be blank", ErrInvalidInput)
		}
		user.Email = *update.Email
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrEmailInUse
		case errors.Is(err, repository.ErrNotFound):
			return nil, s.notFound
		}
		return nil, err
	}
	return user, nil
}

// Delete removes an account holding the service's role.
func (s *userRoleService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	err := s.userRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return s.notFound
	}
	return err
}
