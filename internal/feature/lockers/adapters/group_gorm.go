package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"locker_backend/internal/feature/lockers/domain/entity"
	"locker_backend/internal/feature/lockers/usecase"
)

type groupGorm struct {
	db *gorm.DB
}

var _ usecase.GroupRepository = (*groupGorm)(nil)

// NewGroupRepository はロッカーグループ用のGORMリポジトリを生成します。
func NewGroupRepository(db *gorm.DB) *groupGorm {
	return &groupGorm{db: db}
}

func (r *groupGorm) List(ctx context.Context) ([]entity.LockerGroup, error) {
	var groups []entity.LockerGroup
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *groupGorm) Get(ctx context.Context, id uint) (*entity.LockerGroup, error) {
	var g entity.LockerGroup
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *groupGorm) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.LockerGroup{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *groupGorm) Create(ctx context.Context, group *entity.LockerGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupGorm) AddLockers(ctx context.Context, groupID uint, count int) error {
	lockers := make([]entity.Locker, count)
	for i := range lockers {
		lockers[i] = entity.Locker{GroupID: groupID, Status: entity.StatusFree}
	}
	return r.db.WithContext(ctx).Create(&lockers).Error
}
