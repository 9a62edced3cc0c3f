package broker

import "errors"

var (
	// ErrUserCancelled means the user dismissed the credential prompt.
	// Distinct from system faults so callers can decide whether to retry.
	ErrUserCancelled = errors.New("user cancelled credential prompt")

	// ErrUnsupported means the platform lacks the credential capability.
	ErrUnsupported = errors.New("credential capability not available")

	// ErrOptionsRejected means the ceremony options were malformed or
	// cannot be fulfilled by the authenticator.
	ErrOptionsRejected = errors.New("credential options rejected")
)
