// Package common defines shared constants and sentinel errors used across
// the tracker's layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Validation errors: caller input incomplete or malformed.
	ErrorMissingField = errors.New("missing field")
	ErrorInvalidField = errors.New("invalid field")

	// Registration uniqueness violations.
	ErrorDuplicateEmail    = errors.New("email already exists")
	ErrorDuplicateUsername = errors.New("username already exists")

	// Authentication and session errors.
	ErrorInvalidCredentials = errors.New("invalid email or password")
	ErrorUnauthenticated    = errors.New("unauthenticated")

	// Task errors. The underlying storage cause is never attached.
	ErrorTaskCreationFailed = errors.New("task creation failed")
)
