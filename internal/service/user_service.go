package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/labstack/gommon/log"

	"zapshift/internal/cache"
	apperrors "zapshift/internal/errors"
	"zapshift/internal/model"
	"zapshift/internal/repository"
)

// UserService exposes the user directory.
type UserService interface {
	RoleLookup
	List(ctx context.Context, filter repository.UserFilter) ([]model.User, error)
	// Register stores a new user. When the email is already registered the
	// existing record is returned with created=false.
	Register(ctx context.Context, user *model.User) (result *model.User, created bool, err error)
	UpdateProfile(ctx context.Context, email, region, district string) error
	UpdateRole(ctx context.Context, id string, role model.Role) error
	Delete(ctx context.Context, id string) error
}

type userService struct {
	repo    repository.UserRepository
	cache   *cache.Client
	owner   ownerPolicy
	roleTTL time.Duration
	logger  *log.Logger
	now     func() time.Time
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client, ownerEmail string, roleTTL time.Duration, logger *log.Logger) UserService {
	return &userService{
		repo:    repo,
		cache:   cache,
		owner:   ownerPolicy(normalizeEmail(ownerEmail)),
		roleTTL: roleTTL,
		logger:  orDefaultLogger(logger),
		now:     time.Now,
	}
}

// List returns users with the owner first, then admins, then everyone
// else; each group newest first.
func (s *userService) List(ctx context.Context, filter repository.UserFilter) ([]model.User, error) {
	filter.Email = normalizeEmail(filter.Email)
	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(users, func(i, j int) bool {
		a, b := users[i], users[j]
		if ao, bo := s.owner.is(a.Email), s.owner.is(b.Email); ao != bo {
			return ao
		}
		if aa, ba := a.Role == model.RoleAdmin, b.Role == model.RoleAdmin; aa != ba {
			return aa
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return users, nil
}

// GetRole returns the stored role, "user" for unknown emails and always
// "admin" for the owner.
func (s *userService) GetRole(ctx context.Context, email string) (model.Role, error) {
	email = normalizeEmail(email)
	if s.owner.is(email) {
		return model.RoleAdmin, nil
	}

	var cached model.Role
	if s.cache.GetJSON(ctx, roleCacheKey(email), &cached) && cached.Valid() {
		return cached, nil
	}

	role := model.RoleUser
	user, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if user.Role != "" {
			role = user.Role
		}
	case !errors.Is(err, repository.ErrNotFound):
		return "", err
	}

	_ = s.cache.SetJSON(ctx, roleCacheKey(email), role, s.roleTTL)
	return role, nil
}

func (s *userService) Register(ctx context.Context, user *model.User) (*model.User, bool, error) {
	user.Email = normalizeEmail(user.Email)
	if user.Email == "" || user.DisplayName == "" || user.Region == "" || user.District == "" {
		return nil, false, apperrors.Invalid("email, displayName, region and district are required")
	}

	existing, err := s.repo.FindByEmail(ctx, user.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	user.ID = ""
	user.Role = model.RoleUser
	if s.owner.is(user.Email) {
		user.Role = model.RoleAdmin
	}
	user.CreatedAt = s.now().UTC()

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race with a concurrent registration
			existing, ferr := s.repo.FindByEmail(ctx, user.Email)
			if ferr != nil {
				return nil, false, ferr
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	_ = s.cache.Delete(ctx, roleCacheKey(user.Email))
	return user, true, nil
}

func (s *userService) UpdateProfile(ctx context.Context, email, region, district string) error {
	if region == "" || district == "" {
		return apperrors.Invalid("region and district are required")
	}
	if err := s.repo.UpdateProfile(ctx, normalizeEmail(email), region, district); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *userService) UpdateRole(ctx context.Context, id string, role model.Role) error {
	if !role.Valid() {
		return apperrors.Invalid("role must be one of user, rider, admin")
	}
	target, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if s.owner.is(target.Email) {
		return apperrors.ErrOwnerProtected
	}
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrUserNotFound
		}
		return err
	}
	_ = s.cache.Delete(ctx, roleCacheKey(target.Email))
	s.logger.Infoj(log.JSON{"msg": "user role changed", "email": target.Email, "from": target.Role, "to": role})
	return nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	target, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if s.owner.is(target.Email) {
		return apperrors.ErrOwnerProtected
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrUserNotFound
		}
		return err
	}
	_ = s.cache.Delete(ctx, roleCacheKey(target.Email))
	return nil
}

func (s *userService) find(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
