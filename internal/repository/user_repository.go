package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"zapshift/internal/model"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return translateError(conn(ctx, r.db).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := conn(ctx, r.db).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := conn(ctx, r.db).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]model.User, error) {
	q := conn(ctx, r.db).Model(&model.User{})
	if filter.Email != "" {
		q = q.Where("email = ?", filter.Email)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("(LOWER(display_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(role) LIKE ? OR LOWER(region) LIKE ? OR LOWER(district) LIKE ?)",
			like, like, like, like, like)
	}
	users := make([]model.User, 0)
	if err := q.Order("created_at desc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, email, region, district string) error {
	res := conn(ctx, r.db).Model(&model.User{}).Where("email = ?", email).
		Updates(map[string]interface{}{"region": region, "district": district})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.ensureEmail(ctx, email)
	}
	return nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role model.Role) error {
	return updateOne(ctx, r.db, &model.User{}, id, map[string]interface{}{"role": string(role)})
}

func (r *userRepository) UpdateRoleByEmail(ctx context.Context, email string, role model.Role) error {
	res := conn(ctx, r.db).Model(&model.User{}).Where("email = ?", email).Update("role", string(role))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.ensureEmail(ctx, email)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.db, &model.User{}, id)
}

func (r *userRepository) ensureEmail(ctx context.Context, email string) error {
	var n int64
	if err := conn(ctx, r.db).Model(&model.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
