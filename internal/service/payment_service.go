package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"smartsalle/gym-app/internal/domain"
	"smartsalle/gym-app/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreatePaymentInput carries the fields of an ad-hoc payment: one recorded
// directly against a member, outside the membership linking flow.
type CreatePaymentInput struct {
	UserID       primitive.ObjectID
	Amount       float64
	Method       string
	Status       string              // optional; defaults to PENDING
	DueDate      time.Time           // zero value defaults to one month out
	MembershipID *primitive.ObjectID // optional link to an existing membership
}

// PaymentStats summarizes payment volumes by status.
type PaymentStats struct {
	TotalAmount       float64 `json:"totalAmount"`
	PaidAmount        float64 `json:"paidAmount"`
	PendingAmount     float64 `json:"pendingAmount"`
	TotalTransactions int64   `json:"totalTransactions"`
}

// --- Service Interface ---
type PaymentService interface {
	Create(ctx context.Context, input CreatePaymentInput) (*domain.Payment, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Payment, error)
	List(ctx context.Context, filter repository.PaymentFilter, page, size int) ([]domain.Payment, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*domain.Payment, error)
	Stats(ctx context.Context) (*PaymentStats, error)
}

// --- Service Implementation ---

type paymentService struct {
	paymentRepo    repository.PaymentRepository
	userRepo       repository.UserRepository
	membershipRepo repository.MembershipRepository
	now            func() time.Time
}

// NewPaymentService creates a new instance of paymentService.
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	membershipRepo repository.MembershipRepository,
) PaymentService {
	return &paymentService{
		paymentRepo:    paymentRepo,
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		now:            time.Now,
	}
}

// Create records an ad-hoc payment for a member. Status defaults to
// PENDING; a payment created directly as PAID gets its payment date stamped
// immediately. The due date defaults to one month out.
func (s *paymentService) Create(ctx context.Context, input CreatePaymentInput) (*domain.Payment, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrInvalidInput)
	}

	if _, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	var method domain.PaymentMethod
	if input.Method != "" {
		parsed, ok := domain.ParsePaymentMethod(input.Method)
		if !ok {
			return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, input.Method)
		}
		method = parsed
	}

	status := domain.PaymentPending
	if input.Status != "" {
		normalized := domain.PaymentStatus(strings.ToUpper(strings.TrimSpace(input.Status)))
		switch normalized {
		case domain.PaymentPending, domain.PaymentPaid, domain.PaymentFailed:
			status = normalized
		default:
			return nil, fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, input.Status)
		}
	}

	if input.MembershipID != nil {
		if _, err := s.membershipRepo.GetByID(ctx, *input.MembershipID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrMembershipNotFound
			}
			return nil, err
		}
	}

	dueDate := input.DueDate
	if dueDate.IsZero() {
		dueDate = s.now().UTC().AddDate(0, 1, 0)
	}

	payment := &domain.Payment{
		Reference:    uuid.NewString(),
		UserID:       input.UserID,
		MembershipID: input.MembershipID,
		Amount:       input.Amount,
		Status:       status,
		Method:       method,
		DueDate:      dueDate,
	}
	if status == domain.PaymentPaid {
		paidAt := s.now().UTC()
		payment.PaymentDate = &paidAt
	}

	paymentID, err := s.paymentRepo.Create(ctx, payment)
	if err != nil {
		return nil, err
	}
	payment.ID = paymentID
	return payment, nil
}

// GetByID retrieves a single payment.
func (s *paymentService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

// List returns payments matching the filter.
func (s *paymentService) List(ctx context.Context, filter repository.PaymentFilter, page, size int) ([]domain.Payment, error) {
	if filter.UserID != nil {
		if _, err := s.userRepo.GetByID(ctx, *filter.UserID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrMemberNotFound
			}
			return nil, err
		}
	}
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	return s.paymentRepo.Find(ctx, filter, page, size)
}

// UpdateStatus sets the payment status. Marking a payment PAID stamps the
// payment date if the payment has none yet.
func (s *paymentService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*domain.Payment, error) {
	normalized := domain.PaymentStatus(strings.ToUpper(strings.TrimSpace(status)))
	switch normalized {
	case domain.PaymentPending, domain.PaymentPaid, domain.PaymentFailed:
	default:
		return nil, fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, status)
	}

	payment, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	payment.Status = normalized
	if normalized == domain.PaymentPaid && payment.PaymentDate == nil {
		paidAt := s.now().UTC()
		payment.PaymentDate = &paidAt
	}

	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// Stats aggregates payment totals across all members.
func (s *paymentService) Stats(ctx context.Context) (*PaymentStats, error) {
	total, err := s.paymentRepo.SumAmount(ctx)
	if err != nil {
		return nil, err
	}
	paid, err := s.paymentRepo.SumAmountByStatus(ctx, domain.PaymentPaid)
	if err != nil {
		return nil, err
	}
	pending, err := s.paymentRepo.SumAmountByStatus(ctx, domain.PaymentPending)
	if err != nil {
		return nil, err
	}
	count, err := s.paymentRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &PaymentStats{
		TotalAmount:       total,
		PaidAmount:        paid,
		PendingAmount:     pending,
		TotalTransactions: count,
	}, nil
}
