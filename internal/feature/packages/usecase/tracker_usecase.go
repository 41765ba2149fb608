package usecase

import (
	"context"

	"locker_backend/internal/feature/packages/domain/entity"
)

// PendingPickup describes the locker holding the caller's next package.
type PendingPickup struct {
	PackageID  uint
	PublicCode string
	LockerID   uint
	GroupID    uint
	Location   string
}

// GroupStatus is the courier's work overview for one kiosk site.
type GroupStatus struct {
	GroupID     uint
	PickupReady []entity.Package
	ToDeliver   []entity.Package
}

// QueryRepository abstracts the read-only package queries. All mutation goes
// through the locker engine; this repository never writes.
type QueryRepository interface {
	// PendingFor returns the caller's earliest delivered package together with
	// the locker and site holding it, or ErrNothingPending.
	PendingFor(ctx context.Context, userID uint) (*PendingPickup, error)

	// ActiveFor returns the caller's non-terminal packages, sent and incoming,
	// oldest first.
	ActiveFor(ctx context.Context, userID uint) ([]entity.Package, error)

	// HistoryFor returns the caller's terminal packages, newest first.
	HistoryFor(ctx context.Context, userID uint) ([]entity.Package, error)

	// PickupReady returns created packages sitting in occupied lockers of the
	// group, oldest first.
	PickupReady(ctx context.Context, groupID uint) ([]entity.Package, error)

	// ToDeliver returns inTransit packages destined for the group, oldest first.
	ToDeliver(ctx context.Context, groupID uint) ([]entity.Package, error)

	// FindByCode resolves a public package code, or ErrPackageNotFound.
	FindByCode(ctx context.Context, code string) (*entity.Package, error)

	// CodeExists reports whether a public code is already taken.
	CodeExists(ctx context.Context, code string) (bool, error)
}

// TrackerUsecase serves the tracking queries.
type TrackerUsecase struct {
	repo QueryRepository
}

// NewTrackerUsecase creates a TrackerUsecase with the given repository.
func NewTrackerUsecase(repo QueryRepository) *TrackerUsecase {
	return &TrackerUsecase{repo: repo}
}

// Pending reports whether a delivered package awaits the user and where.
func (u *TrackerUsecase) Pending(ctx context.Context, userID uint) (*PendingPickup, error) {
	return u.repo.PendingFor(ctx, userID)
}

// ActivePackages returns the user's in-flight packages (sent and incoming).
func (u *TrackerUsecase) ActivePackages(ctx context.Context, userID uint) ([]entity.Package, error) {
	return u.repo.ActiveFor(ctx, userID)
}

// History returns the user's finished packages.
func (u *TrackerUsecase) History(ctx context.Context, userID uint) ([]entity.Package, error) {
	return u.repo.HistoryFor(ctx, userID)
}

// StatusByGroup is the courier overview: what can be picked up at the site and
// what is inbound to it.
func (u *TrackerUsecase) StatusByGroup(ctx context.Context, groupID uint) (*GroupStatus, error) {
	pickup, err := u.repo.PickupReady(ctx, groupID)
	if err != nil {
		return nil, err
	}
	deliver, err := u.repo.ToDeliver(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return &GroupStatus{GroupID: groupID, PickupReady: pickup, ToDeliver: deliver}, nil
}

// Track resolves one package by its public code.
func (u *TrackerUsecase) Track(ctx context.Context, code string) (*entity.Package, error) {
	return u.repo.FindByCode(ctx, code)
}
