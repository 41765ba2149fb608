// Package usecase implements the locker allocation engine: the state machine
// governing locker transitions and their atomic coupling to package lifecycle.
package usecase

import "errors"

// Engine error kinds. Handlers map each to a distinct HTTP status, so
// "not found", "invalid state" and "lost a race" are never conflated.
var (
	// ErrNoFreeLockers is returned when a group has no free locker to reserve.
	ErrNoFreeLockers = errors.New("no free lockers available")

	// ErrNotReservedOrExpired is returned when a send targets a locker the
	// caller no longer holds (expired, cancelled, or never theirs).
	ErrNotReservedOrExpired = errors.New("locker not reserved by you or reservation expired")

	// ErrNothingReady is returned when a pickup batch claims zero packages.
	ErrNothingReady = errors.New("no outgoing packages ready here")

	// ErrNoAssignedPackages is returned when a courier has no inTransit
	// packages bound for the requested group.
	ErrNoAssignedPackages = errors.New("no packages to deliver to this locker group")

	// ErrNotEnoughFreeLockers is returned when delivery-open demand exceeds
	// the group's free supply. No partial reservation is made.
	ErrNotEnoughFreeLockers = errors.New("not enough free lockers")

	// ErrNotEnoughReservedLockers is returned when the deliveryOpen set shrank
	// between opening and delivering.
	ErrNotEnoughReservedLockers = errors.New("not enough reserved lockers")

	// ErrNothingWaiting is returned when no delivered package awaits the caller.
	ErrNothingWaiting = errors.New("no package waiting for you")

	// ErrLockerNotFound is returned when the referenced locker does not exist.
	ErrLockerNotFound = errors.New("locker not found")

	// ErrGroupNotFound is returned when the referenced locker group does not exist.
	ErrGroupNotFound = errors.New("locker group not found")

	// ErrRecipientNotFound is returned when the recipient email matches no account.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrInvalidState is returned when a transition's status precondition is
	// not met (e.g. marking an occupied locker broken).
	ErrInvalidState = errors.New("locker is not in a valid state for this operation")

	// ErrConflict is returned when a concurrent actor changed the locker or
	// package between this operation's read and its conditional write.
	ErrConflict = errors.New("conflicting concurrent update")
)
