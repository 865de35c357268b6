package domain

import "errors"

var (
	// ErrInvalidCredentials covers unknown email and wrong password alike,
	// so callers cannot tell which half failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken signals the pre-write uniqueness check tripped.
	ErrEmailTaken = errors.New("email already registered")
)
