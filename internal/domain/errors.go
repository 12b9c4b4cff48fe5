package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidProfile is returned when a profile record is not a mapping
	ErrInvalidProfile = errors.New("profile must be a mapping")

	// ErrInvalidInput is returned when listening data cannot be turned into a profile
	ErrInvalidInput = errors.New("items must be a mapping or a list of mappings")

	// ErrProfileNotFound is returned when no profile is stored for a user
	ErrProfileNotFound = errors.New("profile not found")

	// ErrStoreUnavailable is returned when the profile store cannot be reached
	ErrStoreUnavailable = errors.New("profile store unavailable")
)
