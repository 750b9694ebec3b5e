// Copyright © 2025 The DWSLS authors

// Package fault defines the error taxonomy shared by the dwsls packages.
// Callers classify failures with errors.Is against the sentinels below;
// the concrete messages carry the detail.
package fault

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks a caller-caused failure: malformed edit
	// batches, unknown URIs, invalid positions. The operation is rejected
	// and session state is untouched.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIO marks an environment-caused filesystem failure. Not retried.
	ErrIO = errors.New("io failure")

	// ErrUnsupported marks a capability that is intentionally out of
	// scope. Such operations fail fast instead of silently doing nothing.
	ErrUnsupported = errors.New("unsupported operation")
)

// Invalidf returns an error wrapping ErrInvalidArgument.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidArgument)...)
}

// IOf returns an error wrapping both ErrIO and cause, so callers can
// match either the taxonomy sentinel or the underlying os error.
func IOf(cause error, format string, args ...any) error {
	return fmt.Errorf(format+": %w: %w", append(args, ErrIO, cause)...)
}

// Unsupportedf returns an error wrapping ErrUnsupported.
func Unsupportedf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrUnsupported)...)
}
