package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smartsalle/gym-app/internal/domain"
	"smartsalle/gym-app/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LinkMembershipInput carries the fields of a membership purchase: the
// member's contact details, the gym, the membership period and the price.
type LinkMembershipInput struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
	GymID     primitive.ObjectID
	StartDate time.Time
	EndDate   time.Time
	Amount    float64
}

// --- Service Interface ---
type MembershipService interface {
	LinkMembership(ctx context.Context, input LinkMembershipInput) (*domain.Payment, error)
	GymMembers(ctx context.Context, gymID primitive.ObjectID) ([]domain.User, error)
}

// --- Service Implementation ---

// membershipService resolves-or-creates the member and links a new
// membership and its payment in one transactional unit. The unique index on
// user email makes the resolve-or-create idempotent under concurrency, and
// the transaction guarantees a payment never references a membership that
// failed to persist.
type membershipService struct {
	membershipRepo repository.MembershipRepository
	paymentRepo    repository.PaymentRepository
	userRepo       repository.UserRepository
	gymRepo        repository.GymRepository
	transactor     repository.Transactor
	now            func() time.Time
}

// NewMembershipService creates a new instance of membershipService.
func NewMembershipService(
	membershipRepo repository.MembershipRepository,
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	gymRepo repository.GymRepository,
	transactor repository.Transactor,
) MembershipService {
	return &membershipService{
		membershipRepo: membershipRepo,
		paymentRepo:    paymentRepo,
		userRepo:       userRepo,
		gymRepo:        gymRepo,
		transactor:     transactor,
		now:            time.Now,
	}
}

// LinkMembership implements the membership purchase flow: resolve the member
// by email (creating them if new), verify the gym, then create the
// membership and its pending payment atomically. Returns the created payment.
func (s *membershipService) LinkMembership(ctx context.Context, input LinkMembershipInput) (*domain.Payment, error) {
	if input.Email == "" {
		return nil, fmt.Errorf("%w: member email is required", ErrInvalidInput)
	}
	if input.GymID.IsZero() {
		return nil, fmt.Errorf("%w: gym id is required", ErrInvalidInput)
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, fmt.Errorf("%w: membership end date must be after the start date", ErrInvalidInput)
	}
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrInvalidInput)
	}

	if _, err := s.gymRepo.GetByID(ctx, input.GymID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGymNotFound
		}
		return nil, err
	}

	user, err := s.resolveOrCreateMember(ctx, input)
	if err != nil {
		return nil, err
	}

	var payment *domain.Payment
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		membership := &domain.Membership{
			UserID:    user.ID,
			GymID:     input.GymID,
			StartDate: input.StartDate,
			EndDate:   input.EndDate,
		}
		membershipID, err := s.membershipRepo.Create(txCtx, membership)
		if err != nil {
			return err
		}

		payment = &domain.Payment{
			Reference:    uuid.NewString(),
			UserID:       user.ID,
			MembershipID: &membershipID,
			Amount:       input.Amount,
			Status:       domain.PaymentPending,
			DueDate:      input.StartDate,
		}
		paymentID, err := s.paymentRepo.Create(txCtx, payment)
		if err != nil {
			return err
		}
		payment.ID = paymentID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return payment, nil
}

// resolveOrCreateMember finds the user by email or creates a CLIENT account
// for them. Two concurrent calls with the same new email race on the unique
// email index; the loser re-reads the winner's record, so exactly one user
// ever exists per email.
func (s *membershipService) resolveOrCreateMember(ctx context.Context, input LinkMembershipInput) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	created := &domain.User{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Role:      domain.RoleClient,
	}
	userID, err := s.userRepo.Create(ctx, created)
	if err == nil {
		created.ID = userID
		return created, nil
	}
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost the race; the other writer's user is the member.
		return s.userRepo.GetByEmail(ctx, input.Email)
	}
	return nil, err
}

// GymMembers returns the distinct users holding a membership at the gym.
func (s *membershipService) GymMembers(ctx context.Context, gymID primitive.ObjectID) ([]domain.User, error) {
	if _, err := s.gymRepo.GetByID(ctx, gymID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGymNotFound
		}
		return nil, err
	}

	memberships, err := s.membershipRepo.FindByGymID(ctx, gymID)
	if err != nil {
		return nil, err
	}

	seen := make(map[primitive.ObjectID]struct{}, len(memberships))
	ids := make([]primitive.ObjectID, 0, len(memberships))
	for _, m := range memberships {
		if _, ok := seen[m.UserID]; ok {
			continue
		}
		seen[m.UserID] = struct{}{}
		ids = append(ids, m.UserID)
	}

	return s.userRepo.GetManyByIDs(ctx, ids)
}
