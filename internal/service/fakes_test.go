package service

import (
	"context"
	"sync"
	"time"

	"smartsalle/gym-app/internal/domain"
	"smartsalle/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes mirroring the mongo repositories, including the unique
// index behavior the services rely on (one open attendance record per user,
// one registration per (event,user), one user per email). Each fake guards
// its maps with a mutex so the concurrency tests exercise real interleaving.

// --- users ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) addClient() primitive.ObjectID {
	id := primitive.NewObjectID()
	r.mu.Lock()
	r.users[id] = &domain.User{ID: id, Email: id.Hex() + "@test.local", Role: domain.RoleClient}
	r.mu.Unlock()
	return id
}

func (r *fakeUserRepo) addTrainer() primitive.ObjectID {
	id := primitive.NewObjectID()
	r.mu.Lock()
	r.users[id] = &domain.User{ID: id, Email: id.Hex() + "@test.local", Role: domain.RoleTrainer}
	r.mu.Unlock()
	return id
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	copied := *user
	r.users[user.ID] = &copied
	return user.ID, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByRole(_ context.Context, role domain.Role, page, size int) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, user := range r.users {
		if user.Role == role {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range r.users {
		if id != user.ID && existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) GetManyByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

// --- attendance ---

type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records map[primitive.ObjectID]*domain.AttendanceRecord
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[primitive.ObjectID]*domain.AttendanceRecord)}
}

func (r *fakeAttendanceRepo) Create(_ context.Context, record *domain.AttendanceRecord) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Mirror the partial unique index: refuse a second open record.
	for _, existing := range r.records {
		if existing.UserID == record.UserID && existing.CheckOutTime == nil {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	record.ID = primitive.NewObjectID()
	copied := *record
	r.records[record.ID] = &copied
	return record.ID, nil
}

func (r *fakeAttendanceRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *fakeAttendanceRepo) FindOpenByUser(_ context.Context, userID primitive.ObjectID) (*domain.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.UserID == userID && record.CheckOutTime == nil {
			copied := *record
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAttendanceRepo) Update(_ context.Context, record *domain.AttendanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *record
	r.records[record.ID] = &copied
	return nil
}

func (r *fakeAttendanceRepo) Find(_ context.Context, filter repository.AttendanceFilter, page, size int) ([]domain.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.AttendanceRecord
	for _, record := range r.records {
		if filter.UserID != nil && record.UserID != *filter.UserID {
			continue
		}
		if filter.Type != "" && record.Type != filter.Type {
			continue
		}
		if filter.From != nil && record.CheckInTime.Before(*filter.From) {
			continue
		}
		if filter.Until != nil && !record.CheckInTime.Before(*filter.Until) {
			continue
		}
		out = append(out, *record)
	}
	return out, nil
}

func (r *fakeAttendanceRepo) CountInWindow(_ context.Context, from, until time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, record := range r.records {
		if inWindow(record.CheckInTime, from, until) {
			count++
		}
	}
	return count, nil
}

func (r *fakeAttendanceRepo) CountDistinctUsersInWindow(_ context.Context, from, until time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[primitive.ObjectID]struct{})
	for _, record := range r.records {
		if inWindow(record.CheckInTime, from, until) {
			seen[record.UserID] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

func (r *fakeAttendanceRepo) AverageDurationInWindow(_ context.Context, from, until time.Time) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum, n float64
	for _, record := range r.records {
		if record.DurationInMinutes != nil && inWindow(record.CheckInTime, from, until) {
			sum += float64(*record.DurationInMinutes)
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / n, nil
}

func (r *fakeAttendanceRepo) openCount(userID primitive.ObjectID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, record := range r.records {
		if record.UserID == userID && record.CheckOutTime == nil {
			count++
		}
	}
	return count
}

func inWindow(t, from, until time.Time) bool {
	return !t.Before(from) && t.Before(until)
}

// --- events ---

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[primitive.ObjectID]*domain.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[primitive.ObjectID]*domain.Event)}
}

func (r *fakeEventRepo) add(event *domain.Event) primitive.ObjectID {
	id := primitive.NewObjectID()
	event.ID = id
	r.mu.Lock()
	copied := *event
	r.events[id] = &copied
	r.mu.Unlock()
	return id
}

func (r *fakeEventRepo) Create(_ context.Context, event *domain.Event) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.ID = primitive.NewObjectID()
	copied := *event
	r.events[event.ID] = &copied
	return event.ID, nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) Find(_ context.Context, filter repository.EventFilter, page, size int) ([]domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Event
	for _, event := range r.events {
		if filter.Status != "" && event.Status != filter.Status {
			continue
		}
		if filter.Type != "" && event.Type != filter.Type {
			continue
		}
		out = append(out, *event)
	}
	return out, nil
}

// --- event registrations ---

type fakeRegistrationRepo struct {
	mu   sync.Mutex
	regs map[primitive.ObjectID]*domain.EventRegistration
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{regs: make(map[primitive.ObjectID]*domain.EventRegistration)}
}

func (r *fakeRegistrationRepo) Create(_ context.Context, reg *domain.EventRegistration) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Mirror the compound unique index on (eventId, userId).
	for _, existing := range r.regs {
		if existing.EventID == reg.EventID && existing.UserID == reg.UserID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	reg.ID = primitive.NewObjectID()
	copied := *reg
	r.regs[reg.ID] = &copied
	return reg.ID, nil
}

func (r *fakeRegistrationRepo) Get(_ context.Context, eventID, userID primitive.ObjectID) (*domain.EventRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.regs {
		if reg.EventID == eventID && reg.UserID == userID {
			copied := *reg
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeRegistrationRepo) Delete(_ context.Context, eventID, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, reg := range r.regs {
		if reg.EventID == eventID && reg.UserID == userID {
			delete(r.regs, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeRegistrationRepo) CountByEvent(_ context.Context, eventID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, reg := range r.regs {
		if reg.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (r *fakeRegistrationRepo) FindByEvent(_ context.Context, eventID primitive.ObjectID) ([]domain.EventRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.EventRegistration
	for _, reg := range r.regs {
		if reg.EventID == eventID {
			out = append(out, *reg)
		}
	}
	return out, nil
}

func (r *fakeRegistrationRepo) DeleteByEvent(_ context.Context, eventID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, reg := range r.regs {
		if reg.EventID == eventID {
			delete(r.regs, id)
			deleted++
		}
	}
	return deleted, nil
}

// --- gyms ---

type fakeGymRepo struct {
	mu   sync.Mutex
	gyms map[primitive.ObjectID]*domain.Gym
}

func newFakeGymRepo() *fakeGymRepo {
	return &fakeGymRepo{gyms: make(map[primitive.ObjectID]*domain.Gym)}
}

func (r *fakeGymRepo) add(name string) primitive.ObjectID {
	id := primitive.NewObjectID()
	r.mu.Lock()
	r.gyms[id] = &domain.Gym{ID: id, Name: name}
	r.mu.Unlock()
	return id
}

func (r *fakeGymRepo) Create(_ context.Context, gym *domain.Gym) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	gym.ID = primitive.NewObjectID()
	copied := *gym
	r.gyms[gym.ID] = &copied
	return gym.ID, nil
}

func (r *fakeGymRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Gym, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	gym, ok := r.gyms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *gym
	return &copied, nil
}

func (r *fakeGymRepo) List(_ context.Context) ([]domain.Gym, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Gym, 0, len(r.gyms))
	for _, gym := range r.gyms {
		out = append(out, *gym)
	}
	return out, nil
}

// --- memberships ---

type fakeMembershipRepo struct {
	mu          sync.Mutex
	memberships map[primitive.ObjectID]*domain.Membership
	failCreate  bool
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{memberships: make(map[primitive.ObjectID]*domain.Membership)}
}

func (r *fakeMembershipRepo) Create(_ context.Context, membership *domain.Membership) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return primitive.NilObjectID, repository.RepositoryError("membership create failed")
	}
	membership.ID = primitive.NewObjectID()
	copied := *membership
	r.memberships[membership.ID] = &copied
	return membership.ID, nil
}

func (r *fakeMembershipRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	membership, ok := r.memberships[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *membership
	return &copied, nil
}

func (r *fakeMembershipRepo) FindByGymID(_ context.Context, gymID primitive.ObjectID) ([]domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Membership
	for _, membership := range r.memberships {
		if membership.GymID == gymID {
			out = append(out, *membership)
		}
	}
	return out, nil
}

// --- payments ---

type fakePaymentRepo struct {
	mu         sync.Mutex
	payments   map[primitive.ObjectID]*domain.Payment
	failCreate bool
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[primitive.ObjectID]*domain.Payment)}
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *domain.Payment) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return primitive.NilObjectID, repository.RepositoryError("payment create failed")
	}
	payment.ID = primitive.NewObjectID()
	copied := *payment
	r.payments[payment.ID] = &copied
	return payment.ID, nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *payment
	return &copied, nil
}

func (r *fakePaymentRepo) Update(_ context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[payment.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *payment
	r.payments[payment.ID] = &copied
	return nil
}

func (r *fakePaymentRepo) Find(_ context.Context, filter repository.PaymentFilter, page, size int) ([]domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Payment
	for _, payment := range r.payments {
		if filter.UserID != nil && payment.UserID != *filter.UserID {
			continue
		}
		if filter.Status != "" && payment.Status != filter.Status {
			continue
		}
		out = append(out, *payment)
	}
	return out, nil
}

func (r *fakePaymentRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.payments)), nil
}

func (r *fakePaymentRepo) SumAmount(_ context.Context) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, payment := range r.payments {
		sum += payment.Amount
	}
	return sum, nil
}

func (r *fakePaymentRepo) SumAmountByStatus(_ context.Context, status domain.PaymentStatus) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, payment := range r.payments {
		if payment.Status == status {
			sum += payment.Amount
		}
	}
	return sum, nil
}

// --- transactor ---

// fakeTransactor runs fn directly: the fakes have no rollback, so tests
// assert on error propagation rather than on partial-state cleanup.
type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
