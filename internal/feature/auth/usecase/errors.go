// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned on any failed login. Deliberately
	// generic: it never reveals whether the email exists.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailDomainNotAllowed is returned when self-registration uses an
	// email outside the allowed domain.
	ErrEmailDomainNotAllowed = errors.New("registration is restricted to @skrytki.pl addresses")

	// ErrTermsNotAccepted is returned when terms or the privacy policy were
	// not accepted at registration.
	ErrTermsNotAccepted = errors.New("terms of service and privacy policy must be accepted")

	// ErrWeakPassword is returned when the password fails the strength check.
	ErrWeakPassword = errors.New("password is too weak")
)
