package repository

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound reports that the requested row does not exist. Callers
	// must be able to tell it apart from other storage failures.
	ErrNotFound = errors.New("record not found")

	// ErrUsernameTaken reports a uniqueness violation on users.username.
	ErrUsernameTaken = errors.New("username already taken")
)

// isDupKey detects a unique-constraint violation without depending on
// driver-specific error types, so the same check works for sqlite and
// postgres.
func isDupKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
