package utils

import "errors"

// Sentinel errors shared by services and handlers. Services wrap these with
// context via fmt.Errorf("...: %w", ...); handlers translate them to HTTP
// status codes with errors.Is.
var (
	// ErrValidation covers malformed or missing input (400).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers lookups of unknown records (404).
	ErrNotFound = errors.New("not found")

	// ErrInvalidOTP covers both a wrong code and an expired code (400).
	// Callers must not distinguish the two cases in responses.
	ErrInvalidOTP = errors.New("invalid or expired OTP")

	// ErrMailer marks a delivery failure. Logged and reported, but does not
	// roll back the state change that triggered the send.
	ErrMailer = errors.New("mail delivery failed")

	// ErrStore marks an unexpected persistence failure (500).
	ErrStore = errors.New("storage error")
)
