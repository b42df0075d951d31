package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"smartsalle/gym-app/internal/domain"
	"smartsalle/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttendanceStats summarizes gym visits over a time window.
type AttendanceStats struct {
	TotalVisits            int64 `json:"totalVisits"`
	UniqueVisitors         int64 `json:"uniqueVisitors"`
	AverageDurationMinutes int64 `json:"averageVisitDurationMinutes"`
}

// --- Service Interface ---
type AttendanceService interface {
	CheckIn(ctx context.Context, memberID primitive.ObjectID, sessionType string) (*domain.AttendanceRecord, error)
	CheckOut(ctx context.Context, memberID primitive.ObjectID) (*domain.AttendanceRecord, error)
	List(ctx context.Context, filter repository.AttendanceFilter, page, size int) ([]domain.AttendanceRecord, error)
	Stats(ctx context.Context, from, until *time.Time) (*AttendanceStats, error)
}

// --- Service Implementation ---

// attendanceService enforces the single-open-record-per-member state machine:
// NO_ACTIVE → (check-in) → ACTIVE → (check-out) → NO_ACTIVE. The find-then-
// write in each transition runs under a per-member lock so two concurrent
// check-ins for the same member cannot both observe "no open record"; the
// partial unique index in the attendance collection backs the same invariant
// at the storage level.
type attendanceService struct {
	attendanceRepo repository.AttendanceRepository
	userRepo       repository.UserRepository
	memberLocks    *keyLock
	now            func() time.Time // swapped out in tests
}

// NewAttendanceService creates a new instance of attendanceService.
func NewAttendanceService(attendanceRepo repository.AttendanceRepository, userRepo repository.UserRepository) AttendanceService {
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		memberLocks:    newKeyLock(),
		now:            time.Now,
	}
}

// CheckIn opens a new attendance record for the member. Fails with
// ErrAlreadyCheckedIn while an earlier record is still open.
func (s *attendanceService) CheckIn(ctx context.Context, memberID primitive.ObjectID, sessionType string) (*domain.AttendanceRecord, error) {
	if sessionType == "" {
		return nil, fmt.Errorf("%w: session type is required", ErrInvalidInput)
	}

	if err := s.requireMember(ctx, memberID); err != nil {
		return nil, err
	}

	s.memberLocks.Lock(memberID.Hex())
	defer s.memberLocks.Unlock(memberID.Hex())

	_, err := s.attendanceRepo.FindOpenByUser(ctx, memberID)
	if err == nil {
		return nil, ErrAlreadyCheckedIn
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	record := &domain.AttendanceRecord{
		UserID:      memberID,
		CheckInTime: s.now().UTC(),
		Type:        sessionType,
	}

	recordID, err := s.attendanceRepo.Create(ctx, record)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// The open-record index caught a writer that slipped past us.
			return nil, ErrAlreadyCheckedIn
		}
		return nil, err
	}
	record.ID = recordID

	return record, nil
}

// CheckOut closes the member's open attendance record, computing the visit
// duration in whole minutes. Fails with ErrNoActiveCheckIn when the member
// is not currently checked in.
func (s *attendanceService) CheckOut(ctx context.Context, memberID primitive.ObjectID) (*domain.AttendanceRecord, error) {
	if err := s.requireMember(ctx, memberID); err != nil {
		return nil, err
	}

	s.memberLocks.Lock(memberID.Hex())
	defer s.memberLocks.Unlock(memberID.Hex())

	record, err := s.attendanceRepo.FindOpenByUser(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveCheckIn
		}
		return nil, err
	}

	checkOut := s.now().UTC()
	duration := int(checkOut.Sub(record.CheckInTime).Minutes()) // whole minutes, truncated

	record.CheckOutTime = &checkOut
	record.DurationInMinutes = &duration

	if err := s.attendanceRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// List returns attendance records matching the filter.
func (s *attendanceService) List(ctx context.Context, filter repository.AttendanceFilter, page, size int) ([]domain.AttendanceRecord, error) {
	if filter.UserID != nil {
		if err := s.requireMember(ctx, *filter.UserID); err != nil {
			return nil, err
		}
	}
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	return s.attendanceRepo.Find(ctx, filter, page, size)
}

// Stats aggregates visit counts and the average visit duration over the
// window [from, until). The window defaults to the trailing year.
func (s *attendanceService) Stats(ctx context.Context, from, until *time.Time) (*AttendanceStats, error) {
	end := s.now().UTC()
	if until != nil {
		end = *until
	}
	start := end.AddDate(-1, 0, 0)
	if from != nil {
		start = *from
	}

	total, err := s.attendanceRepo.CountInWindow(ctx, start, end)
	if err != nil {
		return nil, err
	}
	unique, err := s.attendanceRepo.CountDistinctUsersInWindow(ctx, start, end)
	if err != nil {
		return nil, err
	}
	avg, err := s.attendanceRepo.AverageDurationInWindow(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return &AttendanceStats{
		TotalVisits:            total,
		UniqueVisitors:         unique,
		AverageDurationMinutes: int64(math.Round(avg)),
	}, nil
}

// requireMember ensures the ID resolves to a user with the CLIENT role.
// Both an absent user and a non-client map to ErrMemberNotFound, matching
// the lookup-by-id-and-role the API promises.
func (s *attendanceService) requireMember(ctx context.Context, memberID primitive.ObjectID) error {
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
