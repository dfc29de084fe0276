package errors

import (
	"errors"
	"fmt"
)

// Common error types for the game embedding gateway
var (
	// Session configuration errors
	ErrInvalidConfig    = errors.New("invalid session config")
	ErrDuplicateSession = errors.New("duplicate session")
	ErrTargetNotFound   = errors.New("embed target not found")

	// Session lifecycle errors
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrSessionTerminated = errors.New("session terminated")

	// Transport errors
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	ErrChannelClosed   = errors.New("channel closed")

	// Protocol errors
	ErrOriginMismatch    = errors.New("origin mismatch")
	ErrUnroutableMessage = errors.New("unroutable message")
	ErrUnknownAction     = errors.New("unknown action")

	// Tenant errors
	ErrTenantNotFound = errors.New("tenant not found")
	ErrInvalidTenant  = errors.New("invalid tenant")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
