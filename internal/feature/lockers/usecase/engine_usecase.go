package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"locker_backend/internal/feature/lockers/domain/entity"
	pkgentity "locker_backend/internal/feature/packages/domain/entity"
	"locker_backend/internal/shared/clock"
)

// Repository abstracts the transactional store primitives the engine needs.
// Following Go convention: interfaces are defined by the consumer (usecase),
// not the provider (adapters). Every multi-row mutation is all-or-nothing
// inside the adapter; the engine composes them with policy (expiry windows,
// code generation, recipient resolution).
type Repository interface {
	// GetLocker loads one locker or returns ErrLockerNotFound.
	GetLocker(ctx context.Context, id uint) (*entity.Locker, error)

	// ListLockers returns all lockers ordered by group then id.
	ListLockers(ctx context.Context) ([]entity.Locker, error)

	// FirstFreeID returns the lowest-id free locker in the group,
	// or ErrNoFreeLockers.
	FirstFreeID(ctx context.Context, groupID uint) (uint, error)

	// ReserveFirstFree atomically claims exactly one free locker in the group
	// (lowest id first) for userID. Concurrent claims never reserve the same
	// locker twice; ErrNoFreeLockers when the group has none left.
	ReserveFirstFree(ctx context.Context, groupID, userID uint, expiresAt time.Time) (*entity.Locker, error)

	// CancelReservation frees the locker if it is currently reserved by
	// userID. Returns false (not an error) when there was nothing to cancel.
	CancelReservation(ctx context.Context, lockerID, userID uint) (bool, error)

	// OccupyWithPackage flips the caller's unexpired reservation to occupied
	// and inserts pkg in the same transaction. ErrNotReservedOrExpired (and no
	// package row) when the reservation is gone.
	OccupyWithPackage(ctx context.Context, lockerID, userID uint, notExpiredAt time.Time, pkg *pkgentity.Package) error

	// MarkCourierOpen stamps the audit trail on every occupied locker in the
	// group holding a created package, returning how many were opened.
	MarkCourierOpen(ctx context.Context, groupID, courierID uint) (int, error)

	// PickupCreated claims every created package sitting in an occupied
	// locker of the group: package -> inTransit with courierID (first courier
	// wins, losers skip silently), locker -> free. Returns the claimed count.
	PickupCreated(ctx context.Context, groupID, courierID uint) (int, error)

	// CountAssignedInTransit counts inTransit packages bound for the group
	// and assigned to the courier.
	CountAssignedInTransit(ctx context.Context, groupID, courierID uint) (int, error)

	// ReserveForDelivery reserves exactly need free lockers (lowest ids) in
	// the group for the courier, tagged deliveryOpen, in one transaction.
	// ErrNotEnoughFreeLockers when supply < need; no partial reservation.
	ReserveForDelivery(ctx context.Context, groupID, courierID uint, need int, expiresAt time.Time) ([]uint, error)

	// DeliverAssigned pairs the courier's inTransit packages for the group
	// (arrival order) with the deliveryOpen-reserved lockers (id order) and
	// transitions each pair together. ErrNotEnoughReservedLockers when the
	// reserved set shrank; ErrNoAssignedPackages when there is nothing to
	// deliver.
	DeliverAssigned(ctx context.Context, groupID, courierID uint) (int, error)

	// ReceiveOldest hands the caller their earliest delivered package:
	// package -> received, locker -> free, atomically.
	// ErrNothingWaiting when none is pending.
	ReceiveOldest(ctx context.Context, userID uint) (*pkgentity.Package, error)

	// Transition performs a single guarded status change. ErrLockerNotFound /
	// ErrInvalidState / ErrConflict are distinguished.
	Transition(ctx context.Context, lockerID uint, from []entity.Status, to entity.Status, actorID uint, action string) error

	// SweepExpired frees every reserved locker whose expiry has passed.
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

// RecipientDirectory resolves recipient emails to user ids.
// Implemented by the auth feature's user repository.
type RecipientDirectory interface {
	FindIDByEmail(ctx context.Context, email string) (uint, error)
}

// CodeGenerator mints unique public package codes.
// Implemented by the package tracker.
type CodeGenerator interface {
	NewCode(ctx context.Context) (string, error)
}

// GroupChecker verifies that a locker group exists.
type GroupChecker interface {
	Exists(ctx context.Context, groupID uint) (bool, error)
}

// Config carries the engine's tunables.
type Config struct {
	// ReservationWindow is how long a reservation holds before the sweeper
	// reclaims it.
	ReservationWindow time.Duration
}

// DefaultReservationWindow applies when Config.ReservationWindow is unset.
const DefaultReservationWindow = 5 * time.Minute

// Reservation is the result of a successful locker claim.
type Reservation struct {
	LockerID  uint
	ExpiresAt time.Time
}

// EngineUsecase owns every locker state transition and its atomic coupling to
// the package lifecycle. No other component mutates locker or package rows.
type EngineUsecase struct {
	repo       Repository
	recipients RecipientDirectory
	codes      CodeGenerator
	groups     GroupChecker
	clock      clock.Clock
	window     time.Duration
}

// NewEngineUsecase wires the engine with its collaborators.
func NewEngineUsecase(repo Repository, recipients RecipientDirectory, codes CodeGenerator, groups GroupChecker, clk clock.Clock, cfg Config) *EngineUsecase {
	window := cfg.ReservationWindow
	if window <= 0 {
		window = DefaultReservationWindow
	}
	return &EngineUsecase{
		repo:       repo,
		recipients: recipients,
		codes:      codes,
		groups:     groups,
		clock:      clk,
		window:     window,
	}
}

// sweep reclaims expired reservations opportunistically before any
// allocation-sensitive read. Failures are logged, not fatal: the periodic
// sweeper will catch up.
func (u *EngineUsecase) sweep(ctx context.Context) {
	if _, err := u.repo.SweepExpired(ctx, u.clock.Now()); err != nil {
		slog.Warn("opportunistic reservation sweep failed", "error", err)
	}
}

// ReserveLocker claims one free locker in the group for userID, holding it
// until the reservation window elapses.
func (u *EngineUsecase) ReserveLocker(ctx context.Context, groupID, userID uint) (*Reservation, error) {
	u.sweep(ctx)

	if err := u.checkGroup(ctx, groupID); err != nil {
		return nil, err
	}

	expiresAt := u.clock.Now().Add(u.window)
	locker, err := u.repo.ReserveFirstFree(ctx, groupID, userID, expiresAt)
	if err != nil {
		return nil, err
	}
	return &Reservation{LockerID: locker.ID, ExpiresAt: expiresAt}, nil
}

// CancelReservation releases the caller's reservation. Cancelling a locker
// that is no longer held is benign and reports changed=false.
func (u *EngineUsecase) CancelReservation(ctx context.Context, lockerID, userID uint) (bool, error) {
	u.sweep(ctx)
	return u.repo.CancelReservation(ctx, lockerID, userID)
}

// SendPackage deposits a parcel into the caller's reserved locker: the locker
// becomes occupied and the package row is created in the same transaction.
// If the reservation was lost in the meantime, no package row exists afterwards.
func (u *EngineUsecase) SendPackage(ctx context.Context, lockerID, userID, destinationGroupID uint, recipientEmail, displayName string) (string, error) {
	u.sweep(ctx)

	if err := u.checkGroup(ctx, destinationGroupID); err != nil {
		return "", err
	}

	recipientID, err := u.recipients.FindIDByEmail(ctx, recipientEmail)
	if err != nil {
		return "", err
	}

	locker, err := u.repo.GetLocker(ctx, lockerID)
	if err != nil {
		return "", err
	}

	code, err := u.codes.NewCode(ctx)
	if err != nil {
		return "", fmt.Errorf("generating package code: %w", err)
	}

	pkg := &pkgentity.Package{
		PublicCode:         code,
		DisplayName:        displayName,
		SenderID:           userID,
		RecipientID:        recipientID,
		OriginGroupID:      locker.GroupID,
		DestinationGroupID: destinationGroupID,
		Status:             pkgentity.StatusCreated,
		CurrentLockerID:    &lockerID,
	}

	if err := u.repo.OccupyWithPackage(ctx, lockerID, userID, u.clock.Now(), pkg); err != nil {
		return "", err
	}
	return code, nil
}

// CourierOpenLockers opens every occupied locker in the group holding a
// created package, stamping the audit trail. Pure audit: no state change.
func (u *EngineUsecase) CourierOpenLockers(ctx context.Context, groupID, courierID uint) (int, error) {
	count, err := u.repo.MarkCourierOpen(ctx, groupID, courierID)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrNothingReady
	}
	return count, nil
}

// CourierPickup collects every ready package in the group. Packages another
// courier claimed first are skipped silently; a batch that claims nothing at
// all is an error so the caller can tell "nothing there" from "all contended".
func (u *EngineUsecase) CourierPickup(ctx context.Context, groupID, courierID uint) (int, error) {
	return u.repo.PickupCreated(ctx, groupID, courierID)
}

// CourierOpenForDelivery reserves one destination locker per inTransit package
// the courier is bringing to the group, all-or-nothing.
func (u *EngineUsecase) CourierOpenForDelivery(ctx context.Context, groupID, courierID uint) ([]uint, error) {
	u.sweep(ctx)

	need, err := u.repo.CountAssignedInTransit(ctx, groupID, courierID)
	if err != nil {
		return nil, err
	}
	if need == 0 {
		return nil, ErrNoAssignedPackages
	}

	expiresAt := u.clock.Now().Add(u.window)
	return u.repo.ReserveForDelivery(ctx, groupID, courierID, need, expiresAt)
}

// CourierDeliver places the courier's packages into the lockers reserved by
// CourierOpenForDelivery, pairing in deterministic order.
func (u *EngineUsecase) CourierDeliver(ctx context.Context, groupID, courierID uint) (int, error) {
	return u.repo.DeliverAssigned(ctx, groupID, courierID)
}

// ReceivePackage hands the caller their earliest delivered package and frees
// its locker. Returns the public code of the received package.
func (u *EngineUsecase) ReceivePackage(ctx context.Context, userID uint) (string, error) {
	pkg, err := u.repo.ReceiveOldest(ctx, userID)
	if err != nil {
		return "", err
	}
	return pkg.PublicCode, nil
}

// MarkBroken takes a locker out of service. Strict policy: only a free locker
// may be broken; reserved or occupied lockers are refused.
func (u *EngineUsecase) MarkBroken(ctx context.Context, lockerID, actorID uint) error {
	return u.repo.Transition(ctx, lockerID,
		[]entity.Status{entity.StatusFree},
		entity.StatusBroken, actorID, entity.ActionBroken)
}

// MarkRepaired returns a broken locker to service.
func (u *EngineUsecase) MarkRepaired(ctx context.Context, lockerID, actorID uint) error {
	return u.repo.Transition(ctx, lockerID,
		[]entity.Status{entity.StatusBroken},
		entity.StatusFree, actorID, entity.ActionRepaired)
}

// ForceOpen is the service emergency override: an occupied or reserved locker
// is opened and any reservation cleared.
func (u *EngineUsecase) ForceOpen(ctx context.Context, lockerID, actorID uint) error {
	return u.repo.Transition(ctx, lockerID,
		[]entity.Status{entity.StatusOccupied, entity.StatusReserved},
		entity.StatusOpen, actorID, entity.ActionForceOpen)
}

// CloseLocker closes a force-opened locker back to free.
func (u *EngineUsecase) CloseLocker(ctx context.Context, lockerID, actorID uint) error {
	return u.repo.Transition(ctx, lockerID,
		[]entity.Status{entity.StatusOpen},
		entity.StatusFree, actorID, entity.ActionClose)
}

// BlockLocker puts an administrative hold on a free locker.
func (u *EngineUsecase) BlockLocker(ctx context.Context, lockerID, actorID uint) error {
	return u.repo.Transition(ctx, lockerID,
		[]entity.Status{entity.StatusFree},
		entity.StatusBlocked, actorID, entity.ActionBlock)
}

// UnblockLocker lifts an administrative hold.
func (u *EngineUsecase) UnblockLocker(ctx context.Context, lockerID, actorID uint) error {
	return u.repo.Transition(ctx, lockerID,
		[]entity.Status{entity.StatusBlocked},
		entity.StatusFree, actorID, entity.ActionUnblock)
}

// SweepExpiredReservations reclaims every expired reservation. Called by the
// periodic sweeper and opportunistically by allocation-sensitive operations.
func (u *EngineUsecase) SweepExpiredReservations(ctx context.Context) (int64, error) {
	return u.repo.SweepExpired(ctx, u.clock.Now())
}

// ListLockers returns the full inventory for admin/service views,
// sweeping first so the listed reservation states are current.
func (u *EngineUsecase) ListLockers(ctx context.Context) ([]entity.Locker, error) {
	u.sweep(ctx)
	return u.repo.ListLockers(ctx)
}

// PreviewFreeLocker reports which locker a reservation in the group would
// claim right now, without claiming it.
func (u *EngineUsecase) PreviewFreeLocker(ctx context.Context, groupID uint) (uint, error) {
	u.sweep(ctx)
	return u.repo.FirstFreeID(ctx, groupID)
}

func (u *EngineUsecase) checkGroup(ctx context.Context, groupID uint) error {
	ok, err := u.groups.Exists(ctx, groupID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrGroupNotFound
	}
	return nil
}
