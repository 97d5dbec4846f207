package repository

import (
	"context"
	"errors"

	"zapshift/internal/model"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
)

// UserFilter narrows a user listing. Search is a case-insensitive substring
// matched against display name, email, role, region and district.
type UserFilter struct {
	Email  string
	Search string
}

// RiderFilter narrows a rider listing. District matches case-insensitively.
type RiderFilter struct {
	Status     model.RiderStatus
	District   string
	WorkStatus model.WorkStatus
}

// ParcelFilter narrows a parcel listing.
type ParcelFilter struct {
	SenderEmail    string
	RiderEmail     string
	DeliveryStatus model.DeliveryStatus
}

// PaymentFilter narrows a payment listing.
type PaymentFilter struct {
	CustomerEmail string
}

// RiderAssignment is the rider identity copied onto a parcel.
type RiderAssignment struct {
	RiderID    string
	RiderName  string
	RiderEmail string
}

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, filter UserFilter) ([]model.User, error)
	UpdateProfile(ctx context.Context, email, region, district string) error
	UpdateRole(ctx context.Context, id string, role model.Role) error
	UpdateRoleByEmail(ctx context.Context, email string, role model.Role) error
	Delete(ctx context.Context, id string) error
}

// RiderRepository defines rider application persistence operations.
type RiderRepository interface {
	Create(ctx context.Context, rider *model.Rider) error
	FindByID(ctx context.Context, id string) (*model.Rider, error)
	List(ctx context.Context, filter RiderFilter) ([]model.Rider, error)
	// UpdateStatus sets the review status, and the work status when it is
	// not empty.
	UpdateStatus(ctx context.Context, id string, status model.RiderStatus, workStatus model.WorkStatus) error
	UpdateWorkStatus(ctx context.Context, id string, workStatus model.WorkStatus) error
	Delete(ctx context.Context, id string) error
}

// ParcelRepository defines parcel persistence operations.
type ParcelRepository interface {
	Create(ctx context.Context, parcel *model.Parcel) error
	FindByID(ctx context.Context, id string) (*model.Parcel, error)
	List(ctx context.Context, filter ParcelFilter) ([]model.Parcel, error)
	AssignRider(ctx context.Context, id string, assignment RiderAssignment) error
	UpdateDeliveryStatus(ctx context.Context, id string, status model.DeliveryStatus) error
	// MarkPaid flips the parcel to paid, queues it for pickup and stores
	// the tracking id.
	MarkPaid(ctx context.Context, id, trackingID string) error
	Delete(ctx context.Context, id string) error
}

// PaymentRepository defines payment record persistence operations.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	FindByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error)
	List(ctx context.Context, filter PaymentFilter) ([]model.Payment, error)
	Delete(ctx context.Context, id string) error
}

// Transactor runs fn inside a multi-document transaction. The context
// handed to fn carries the transaction and must be used for every write
// that belongs to it.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store bundles the repositories of one backend.
type Store struct {
	Users    UserRepository
	Riders   RiderRepository
	Parcels  ParcelRepository
	Payments PaymentRepository

	// Tx is nil when the backend cannot run multi-document transactions.
	Tx     Transactor
	Pinger Pinger
}

// WithTransaction runs fn in a transaction when the backend supports one,
// otherwise it runs fn directly and each write commits on its own.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.Tx == nil {
		return fn(ctx)
	}
	return s.Tx.WithTransaction(ctx, fn)
}

// Transactional reports whether cascades are atomic on this store.
func (s *Store) Transactional() bool {
	return s.Tx != nil
}

// Ping checks the backend, succeeding when no pinger is configured.
func (s *Store) Ping(ctx context.Context) error {
	if s.Pinger == nil {
		return nil
	}
	return s.Pinger.Ping(ctx)
}
