package apperrors

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrNotRunning         = errors.New("timer is not running")
	ErrNotPaused          = errors.New("timer is not paused")
	ErrInvalidMode        = errors.New("invalid timer mode")
	ErrMalformedDuration  = errors.New("malformed duration token")
	ErrLoggingUnavailable = errors.New("log destination is not configured")
)
