package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"

	"zapshift/internal/cache"
	apperrors "zapshift/internal/errors"
	"zapshift/internal/events"
	"zapshift/internal/model"
	"zapshift/internal/repository"
)

// RiderService runs the rider application workflow.
type RiderService interface {
	List(ctx context.Context, filter repository.RiderFilter) ([]model.Rider, error)
	Apply(ctx context.Context, rider *model.Rider) (*model.Rider, error)
	// UpdateStatus records a review decision. Approval makes the applicant
	// a rider and available for work; rejection returns them to user.
	// email names the applicant's account and defaults to the rider email.
	UpdateStatus(ctx context.Context, id string, status model.RiderStatus, email string) (*model.Rider, error)
	Delete(ctx context.Context, id string) error
}

type riderService struct {
	store     *repository.Store
	cache     *cache.Client
	owner     ownerPolicy
	publisher events.Publisher
	logger    *log.Logger
	now       func() time.Time
}

// NewRiderService creates a new rider service.
func NewRiderService(store *repository.Store, cache *cache.Client, ownerEmail string, publisher events.Publisher, logger *log.Logger) RiderService {
	return &riderService{
		store:     store,
		cache:     cache,
		owner:     ownerPolicy(normalizeEmail(ownerEmail)),
		publisher: orNopPublisher(publisher),
		logger:    orDefaultLogger(logger),
		now:       time.Now,
	}
}

func (s *riderService) List(ctx context.Context, filter repository.RiderFilter) ([]model.Rider, error) {
	return s.store.Riders.List(ctx, filter)
}

// Apply stores a new application as pending whatever status the client sent.
func (s *riderService) Apply(ctx context.Context, rider *model.Rider) (*model.Rider, error) {
	rider.RiderEmail = normalizeEmail(rider.RiderEmail)
	if rider.RiderEmail == "" || rider.RiderDistrict == "" {
		return nil, apperrors.Invalid("riderEmail and riderDistrict are required")
	}
	rider.ID = ""
	rider.Status = model.RiderStatusPending
	rider.WorkStatus = ""
	rider.CreatedAt = s.now().UTC()

	if err := s.store.Riders.Create(ctx, rider); err != nil {
		return nil, fmt.Errorf("create rider: %w", err)
	}
	return rider, nil
}

func (s *riderService) UpdateStatus(ctx context.Context, id string, status model.RiderStatus, email string) (*model.Rider, error) {
	if status == "" {
		return nil, apperrors.Invalid("status is required")
	}
	rider, err := s.store.Riders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrRiderNotFound
		}
		return nil, err
	}

	email = normalizeEmail(email)
	if email == "" {
		email = rider.RiderEmail
	}

	var (
		workStatus model.WorkStatus
		role       model.Role
	)
	switch status {
	case model.RiderStatusApproved:
		workStatus = model.WorkStatusAvailable
		role = model.RoleRider
	case model.RiderStatusRejected:
		role = model.RoleUser
	}
	if role != "" && s.owner.is(email) {
		s.logger.Warnj(log.JSON{"msg": "rider decision leaves owner role untouched", "rider": id, "status": status})
		role = ""
	}

	userUpdated := false
	err = s.store.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.Riders.UpdateStatus(ctx, id, status, workStatus); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.ErrRiderNotFound
			}
			return fmt.Errorf("update rider status: %w", err)
		}
		if role == "" || email == "" {
			return nil
		}
		if err := s.store.Users.UpdateRoleByEmail(ctx, email, role); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.logger.Warnj(log.JSON{"msg": "rider has no user account", "rider": id, "email": email})
				return nil
			}
			return fmt.Errorf("update user role: %w", err)
		}
		userUpdated = true
		return nil
	})
	if email != "" {
		_ = s.cache.Delete(ctx, roleCacheKey(email))
	}
	if err != nil {
		if !s.store.Transactional() {
			s.logger.Errorj(log.JSON{"msg": "rider review partially applied, retry the request", "rider": id, "status": status, "error": err.Error()})
		}
		return nil, err
	}

	rider.Status = status
	if workStatus != "" {
		rider.WorkStatus = workStatus
	}
	ev := events.RiderStatusChanged{
		RiderID:    rider.ID,
		RiderEmail: email,
		Status:     string(status),
		WorkStatus: string(rider.WorkStatus),
		ChangedAt:  s.now().UTC(),
	}
	if userUpdated {
		ev.UserRole = string(role)
	}
	s.publisher.Publish(ev)
	return rider, nil
}

func (s *riderService) Delete(ctx context.Context, id string) error {
	if err := s.store.Riders.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrRiderNotFound
		}
		return err
	}
	return nil
}
