// Package adapters provides the GORM-backed persistence for the auth feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"locker_backend/internal/feature/auth/domain/entity"
	"locker_backend/internal/feature/auth/usecase"
)

type userGorm struct {
	db *gorm.DB
}

var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserRepository はユーザーリポジトリを生成します。
func NewUserRepository(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

func (r *userGorm) Create(ctx context.Context, user *entity.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return usecase.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userGorm) UpdateProfile(ctx context.Context, id uint, firstName, lastName, phone, hashedPassword string) error {
	updates := map[string]interface{}{
		"first_name": firstName,
		"last_name":  lastName,
		"phone":      phone,
	}
	if hashedPassword != "" {
		updates["password"] = hashedPassword
	}
	res := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// FindIDByEmail resolves an email to a user id. The locker engine uses this
// to address packages to recipients.
func (r *userGorm) FindIDByEmail(ctx context.Context, email string) (uint, error) {
	user, err := r.FindByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}
