// Package usecase implements the read side of the package lifecycle:
// tracking queries for users and couriers, and public code generation.
package usecase

import "errors"

var (
	// ErrPackageNotFound is returned when no package matches the query.
	ErrPackageNotFound = errors.New("package not found")

	// ErrNothingPending is returned when no delivered package awaits the caller.
	ErrNothingPending = errors.New("no pending package")

	// ErrCodeSpaceExhausted is returned when code generation keeps colliding.
	// With an 8-character suffix this indicates a store problem, not bad luck.
	ErrCodeSpaceExhausted = errors.New("could not generate a unique package code")
)
