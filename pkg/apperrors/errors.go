package apperrors

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrScopeNotFound    = errors.New("scope not found")
	ErrInvalidMode      = errors.New("invalid matching mode")
	ErrCanonicalRemoved = errors.New("canonical target is itself removed")
	ErrScopeLocked      = errors.New("merge already running for this scope")
)
