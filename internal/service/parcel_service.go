package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	apperrors "zapshift/internal/errors"
	"zapshift/internal/model"
	"zapshift/internal/repository"
)

// ParcelQuery selects parcels for a listing. Role "rider" requires
// RiderEmail; role "user" scopes to SenderEmail.
type ParcelQuery struct {
	SenderEmail    string
	RiderEmail     string
	DeliveryStatus model.DeliveryStatus
	Role           string
}

// ParcelService manages parcels and their delivery lifecycle.
type ParcelService interface {
	List(ctx context.Context, q ParcelQuery) ([]model.Parcel, error)
	Get(ctx context.Context, id string) (*model.Parcel, error)
	Create(ctx context.Context, parcel *model.Parcel) (*model.Parcel, error)
	// AssignRider hands the parcel to a rider and marks the rider busy.
	AssignRider(ctx context.Context, id string, assignment repository.RiderAssignment) (*model.Parcel, error)
	UpdateDeliveryStatus(ctx context.Context, id string, status model.DeliveryStatus) error
	// Delete removes a parcel on behalf of its sender or an admin.
	Delete(ctx context.Context, id, callerEmail string) error
}

type parcelService struct {
	store  *repository.Store
	roles  RoleLookup
	logger *log.Logger
	now    func() time.Time
}

// NewParcelService creates a new parcel service.
func NewParcelService(store *repository.Store, roles RoleLookup, logger *log.Logger) ParcelService {
	return &parcelService{
		store:  store,
		roles:  roles,
		logger: orDefaultLogger(logger),
		now:    time.Now,
	}
}

func (s *parcelService) List(ctx context.Context, q ParcelQuery) ([]model.Parcel, error) {
	filter := repository.ParcelFilter{
		SenderEmail:    normalizeEmail(q.SenderEmail),
		RiderEmail:     normalizeEmail(q.RiderEmail),
		DeliveryStatus: q.DeliveryStatus,
	}
	switch strings.ToLower(q.Role) {
	case string(model.RoleRider):
		if filter.RiderEmail == "" {
			return nil, apperrors.Invalid("riderEmail is required when role=rider")
		}
		filter.SenderEmail = ""
	case string(model.RoleUser):
		filter.RiderEmail = ""
	}
	return s.store.Parcels.List(ctx, filter)
}

func (s *parcelService) Get(ctx context.Context, id string) (*model.Parcel, error) {
	parcel, err := s.store.Parcels.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrParcelNotFound
		}
		return nil, err
	}
	return parcel, nil
}

// Create stores the parcel as sent. Identity, payment and tracking fields
// are owned by the server and reset here.
func (s *parcelService) Create(ctx context.Context, parcel *model.Parcel) (*model.Parcel, error) {
	parcel.ID = ""
	parcel.TrackingID = ""
	parcel.PaymentStatus = model.PaymentStatusUnpaid
	parcel.SenderEmail = normalizeEmail(parcel.SenderEmail)
	parcel.CreatedAt = s.now().UTC()

	if err := s.store.Parcels.Create(ctx, parcel); err != nil {
		return nil, fmt.Errorf("create parcel: %w", err)
	}
	return parcel, nil
}

func (s *parcelService) AssignRider(ctx context.Context, id string, assignment repository.RiderAssignment) (*model.Parcel, error) {
	if assignment.RiderID == "" {
		return nil, apperrors.Invalid("riderId is required")
	}
	rider, err := s.store.Riders.FindByID(ctx, assignment.RiderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrRiderNotFound
		}
		return nil, err
	}
	if assignment.RiderName == "" {
		assignment.RiderName = rider.RiderName
	}
	if assignment.RiderEmail == "" {
		assignment.RiderEmail = rider.RiderEmail
	}
	assignment.RiderEmail = normalizeEmail(assignment.RiderEmail)

	err = s.store.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.Parcels.AssignRider(ctx, id, assignment); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.ErrParcelNotFound
			}
			return fmt.Errorf("assign rider: %w", err)
		}
		if err := s.store.Riders.UpdateWorkStatus(ctx, assignment.RiderID, model.WorkStatusInProcess); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.ErrRiderNotFound
			}
			return fmt.Errorf("update rider work status: %w", err)
		}
		return nil
	})
	if err != nil {
		if !s.store.Transactional() {
			s.logger.Errorj(log.JSON{"msg": "rider assignment partially applied, retry the request", "parcel": id, "rider": assignment.RiderID, "error": err.Error()})
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// UpdateDeliveryStatus accepts any non-empty status; unknown values are
// logged so they can be spotted, not rejected.
func (s *parcelService) UpdateDeliveryStatus(ctx context.Context, id string, status model.DeliveryStatus) error {
	if status == "" {
		return apperrors.Invalid("deliveryStatus is required")
	}
	if !status.Known() {
		s.logger.Warnj(log.JSON{"msg": "unrecognised delivery status stored", "parcel": id, "status": status})
	}
	if err := s.store.Parcels.UpdateDeliveryStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrParcelNotFound
		}
		return err
	}
	return nil
}

func (s *parcelService) Delete(ctx context.Context, id, callerEmail string) error {
	parcel, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	caller := normalizeEmail(callerEmail)
	if caller == "" {
		return apperrors.ErrUnauthorized
	}
	if !strings.EqualFold(parcel.SenderEmail, caller) {
		role, err := s.roles.GetRole(ctx, caller)
		if err != nil {
			return err
		}
		if role != model.RoleAdmin {
			return apperrors.ErrForbidden
		}
	}
	if err := s.store.Parcels.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrParcelNotFound
		}
		return err
	}
	return nil
}
