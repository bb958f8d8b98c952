package validator

import (
	"errors"
	"time"
)

// Option is how options for the Validator are set up.
// Options return errors to enable validation during construction.
type Option func(*Validator) error

// WithLeeway sets the allowed clock skew for time-based claims.
// If not set, the default is 0 (no clock skew allowed).
func WithLeeway(leeway time.Duration) Option {
	return func(v *Validator) error {
		if leeway < 0 {
			return errors.New("leeway cannot be negative")
		}
		v.leeway = leeway
		return nil
	}
}

// WithClock overrides the validator's time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		v.now = now
		return nil
	}
}
