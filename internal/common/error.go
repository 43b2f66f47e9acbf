// Package common contains shared constants and sentinel errors used across
// kioskd components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Prompt outcomes. A cancelled prompt is a benign no-op, never surfaced
	// as a failure to the operator.
	ErrCancelled = errors.New("cancelled")

	// Storage grant errors. Permission loss forces a provider-level
	// disconnect, it is never retried silently.
	ErrPermissionDenied = errors.New("permission denied")

	// Provider state errors.
	ErrNotConnected = errors.New("not connected to a storage provider")
	ErrNoEndpoint   = errors.New("no API endpoint configured")

	// Directory sync errors. A present lock marker is terminal for the
	// calling save and requires manual operator intervention.
	ErrLocked = errors.New("sync already in progress")

	// Backup document errors (manual import only; regular restores repair
	// malformed fields instead of rejecting).
	ErrBadSnapshot = errors.New("invalid backup document")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
)
