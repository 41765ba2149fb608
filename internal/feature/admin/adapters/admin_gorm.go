// Package adapters provides the GORM-backed persistence for administration.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"locker_backend/internal/feature/admin/usecase"
	"locker_backend/internal/feature/auth/domain/entity"
	lockerentity "locker_backend/internal/feature/lockers/domain/entity"
	pkgentity "locker_backend/internal/feature/packages/domain/entity"
)

type adminGorm struct {
	db *gorm.DB
}

var (
	_ usecase.AccountRepository = (*adminGorm)(nil)
	_ usecase.ReportRepository  = (*adminGorm)(nil)
)

// NewAdminRepository は管理操作用のGORMリポジトリを生成します。
func NewAdminRepository(db *gorm.DB) *adminGorm {
	return &adminGorm{db: db}
}

func (r *adminGorm) ListUsers(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *adminGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
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

func (r *adminGorm) SetRoleByEmail(ctx context.Context, email string, role entity.Role) error {
	res := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("email = ?", email).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

func (r *adminGorm) CreateUser(ctx context.Context, user *entity.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return usecase.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

func (r *adminGorm) DeleteUser(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

func (r *adminGorm) CountActivePackages(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&pkgentity.Package{}).
		Where("(sender_id = ? OR recipient_id = ?) AND status NOT IN ?",
			userID, userID, pkgentity.TerminalStatuses).
		Count(&count).Error
	return count, err
}

func (r *adminGorm) ListAllLockers(ctx context.Context) ([]lockerentity.Locker, error) {
	var lockers []lockerentity.Locker
	err := r.db.WithContext(ctx).
		Order("group_id ASC, id ASC").
		Find(&lockers).Error
	if err != nil {
		return nil, err
	}
	return lockers, nil
}

func (r *adminGorm) ListAllPackages(ctx context.Context) ([]pkgentity.Package, error) {
	var pkgs []pkgentity.Package
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&pkgs).Error
	if err != nil {
		return nil, err
	}
	return pkgs, nil
}
