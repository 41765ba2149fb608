package usecase

import (
	"context"

	"locker_backend/internal/feature/lockers/domain/entity"
)

// GroupRepository abstracts the persistence layer for locker groups.
// The redis caching decorator in platform/cache also implements this.
type GroupRepository interface {
	List(ctx context.Context) ([]entity.LockerGroup, error)
	Get(ctx context.Context, id uint) (*entity.LockerGroup, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, group *entity.LockerGroup) error
	AddLockers(ctx context.Context, groupID uint, count int) error
}

// GroupUsecase provides business logic for kiosk site management.
type GroupUsecase struct {
	repo GroupRepository
}

// NewGroupUsecase creates a new GroupUsecase with the given repository.
func NewGroupUsecase(r GroupRepository) *GroupUsecase {
	return &GroupUsecase{repo: r}
}

// ListGroups returns all kiosk sites.
func (u *GroupUsecase) ListGroups(ctx context.Context) ([]entity.LockerGroup, error) {
	return u.repo.List(ctx)
}

// CreateGroup registers a new kiosk site, optionally pre-populating lockers.
func (u *GroupUsecase) CreateGroup(ctx context.Context, name, location string, lockerCount int) (*entity.LockerGroup, error) {
	group := &entity.LockerGroup{Name: name, Location: location}
	if err := u.repo.Create(ctx, group); err != nil {
		return nil, err
	}
	if lockerCount > 0 {
		if err := u.repo.AddLockers(ctx, group.ID, lockerCount); err != nil {
			return nil, err
		}
	}
	return group, nil
}

// AddLockers installs count additional lockers at an existing site.
func (u *GroupUsecase) AddLockers(ctx context.Context, groupID uint, count int) error {
	ok, err := u.repo.Exists(ctx, groupID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrGroupNotFound
	}
	return u.repo.AddLockers(ctx, groupID, count)
}
