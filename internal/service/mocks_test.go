package service

import (
	"context"
	"io"
	"sync"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/mock"

	"zapshift/internal/checkout"
	"zapshift/internal/events"
	"zapshift/internal/model"
	"zapshift/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter repository.UserFilter) ([]model.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, email, region, district string) error {
	args := m.Called(ctx, email, region, district)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id string, role model.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRoleByEmail(ctx context.Context, email string, role model.Role) error {
	args := m.Called(ctx, email, role)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRiderRepository is a mock implementation of RiderRepository.
type MockRiderRepository struct {
	mock.Mock
}

func (m *MockRiderRepository) Create(ctx context.Context, rider *model.Rider) error {
	args := m.Called(ctx, rider)
	return args.Error(0)
}

func (m *MockRiderRepository) FindByID(ctx context.Context, id string) (*model.Rider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Rider), args.Error(1)
}

func (m *MockRiderRepository) List(ctx context.Context, filter repository.RiderFilter) ([]model.Rider, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Rider), args.Error(1)
}

func (m *MockRiderRepository) UpdateStatus(ctx context.Context, id string, status model.RiderStatus, workStatus model.WorkStatus) error {
	args := m.Called(ctx, id, status, workStatus)
	return args.Error(0)
}

func (m *MockRiderRepository) UpdateWorkStatus(ctx context.Context, id string, workStatus model.WorkStatus) error {
	args := m.Called(ctx, id, workStatus)
	return args.Error(0)
}

func (m *MockRiderRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockParcelRepository is a mock implementation of ParcelRepository.
type MockParcelRepository struct {
	mock.Mock
}

func (m *MockParcelRepository) Create(ctx context.Context, parcel *model.Parcel) error {
	args := m.Called(ctx, parcel)
	return args.Error(0)
}

func (m *MockParcelRepository) FindByID(ctx context.Context, id string) (*model.Parcel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Parcel), args.Error(1)
}

func (m *MockParcelRepository) List(ctx context.Context, filter repository.ParcelFilter) ([]model.Parcel, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Parcel), args.Error(1)
}

func (m *MockParcelRepository) AssignRider(ctx context.Context, id string, assignment repository.RiderAssignment) error {
	args := m.Called(ctx, id, assignment)
	return args.Error(0)
}

func (m *MockParcelRepository) UpdateDeliveryStatus(ctx context.Context, id string, status model.DeliveryStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockParcelRepository) MarkPaid(ctx context.Context, id, trackingID string) error {
	args := m.Called(ctx, id, trackingID)
	return args.Error(0)
}

func (m *MockParcelRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) List(ctx context.Context, filter repository.PaymentFilter) ([]model.Payment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProvider is a mock implementation of checkout.Provider.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreateSession(ctx context.Context, req checkout.SessionRequest) (*checkout.Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Session), args.Error(1)
}

func (m *MockProvider) RetrieveSession(ctx context.Context, id string) (*checkout.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Session), args.Error(1)
}

// staticRoles answers GetRole from a map; unknown emails are users.
type staticRoles map[string]model.Role

func (r staticRoles) GetRole(_ context.Context, email string) (model.Role, error) {
	if role, ok := r[email]; ok {
		return role, nil
	}
	return model.RoleUser, nil
}

// recordingPublisher keeps published events in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ev events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

// countingTx runs fn inline and counts transactions.
type countingTx struct {
	calls int
}

func (t *countingTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type mockStore struct {
	users    *MockUserRepository
	riders   *MockRiderRepository
	parcels  *MockParcelRepository
	payments *MockPaymentRepository
	tx       *countingTx
	store    *repository.Store
}

func newMockStore() *mockStore {
	m := &mockStore{
		users:    new(MockUserRepository),
		riders:   new(MockRiderRepository),
		parcels:  new(MockParcelRepository),
		payments: new(MockPaymentRepository),
		tx:       &countingTx{},
	}
	m.store = &repository.Store{
		Users:    m.users,
		Riders:   m.riders,
		Parcels:  m.parcels,
		Payments: m.payments,
		Tx:       m.tx,
	}
	return m
}

func quietLogger() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	return l
}
