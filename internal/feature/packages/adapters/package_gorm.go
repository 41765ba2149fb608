// Package adapters provides the GORM-backed read queries for package tracking.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	lockerentity "locker_backend/internal/feature/lockers/domain/entity"
	"locker_backend/internal/feature/packages/domain/entity"
	"locker_backend/internal/feature/packages/usecase"
)

type packageGorm struct {
	db *gorm.DB
}

var _ usecase.QueryRepository = (*packageGorm)(nil)

// NewPackageRepository は荷物照会用のGORMリポジトリを生成します。
func NewPackageRepository(db *gorm.DB) *packageGorm {
	return &packageGorm{db: db}
}

func (r *packageGorm) PendingFor(ctx context.Context, userID uint) (*usecase.PendingPickup, error) {
	var row struct {
		PackageID  uint
		PublicCode string
		LockerID   uint
		GroupID    uint
		Location   string
	}
	err := r.db.WithContext(ctx).
		Table("packages").
		Select("packages.id AS package_id, packages.package_code AS public_code, lockers.id AS locker_id, locker_groups.id AS group_id, locker_groups.name AS location").
		Joins("JOIN lockers ON lockers.id = packages.current_locker_id").
		Joins("JOIN locker_groups ON locker_groups.id = lockers.group_id").
		Where("packages.recipient_id = ? AND packages.status = ?", userID, entity.StatusDelivered).
		Order("packages.updated_at ASC").
		Limit(1).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrNothingPending
		}
		return nil, err
	}
	return &usecase.PendingPickup{
		PackageID:  row.PackageID,
		PublicCode: row.PublicCode,
		LockerID:   row.LockerID,
		GroupID:    row.GroupID,
		Location:   row.Location,
	}, nil
}

func (r *packageGorm) ActiveFor(ctx context.Context, userID uint) ([]entity.Package, error) {
	var pkgs []entity.Package
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? OR recipient_id = ?) AND status NOT IN ?",
			userID, userID, entity.TerminalStatuses).
		Order("updated_at ASC").
		Find(&pkgs).Error
	if err != nil {
		return nil, err
	}
	return pkgs, nil
}

func (r *packageGorm) HistoryFor(ctx context.Context, userID uint) ([]entity.Package, error) {
	var pkgs []entity.Package
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? OR recipient_id = ?) AND status IN ?",
			userID, userID, entity.TerminalStatuses).
		Order("updated_at DESC").
		Find(&pkgs).Error
	if err != nil {
		return nil, err
	}
	return pkgs, nil
}

func (r *packageGorm) PickupReady(ctx context.Context, groupID uint) ([]entity.Package, error) {
	var pkgs []entity.Package
	err := r.db.WithContext(ctx).
		Joins("JOIN lockers ON lockers.id = packages.current_locker_id").
		Where("packages.status = ? AND lockers.group_id = ? AND lockers.status = ?",
			entity.StatusCreated, groupID, lockerentity.StatusOccupied).
		Order("packages.updated_at ASC").
		Find(&pkgs).Error
	if err != nil {
		return nil, err
	}
	return pkgs, nil
}

func (r *packageGorm) ToDeliver(ctx context.Context, groupID uint) ([]entity.Package, error) {
	var pkgs []entity.Package
	err := r.db.WithContext(ctx).
		Where("status = ? AND destination_group_id = ?", entity.StatusInTransit, groupID).
		Order("updated_at ASC").
		Find(&pkgs).Error
	if err != nil {
		return nil, err
	}
	return pkgs, nil
}

func (r *packageGorm) FindByCode(ctx context.Context, code string) (*entity.Package, error) {
	var pkg entity.Package
	err := r.db.WithContext(ctx).
		Where("package_code = ?", code).
		First(&pkg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrPackageNotFound
		}
		return nil, err
	}
	return &pkg, nil
}

func (r *packageGorm) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Package{}).
		Where("package_code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
