/*
errors.go - Centralized error types

PURPOSE:
  All sentinel errors in one place. The engine itself returns verdicts, not
  errors (see GrantStatus); these errors belong to the surrounding store and
  API plumbing. Callers match with errors.Is and map to HTTP status codes
  via the helpers at the bottom.
*/
package allowance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrChildNotFound is returned when a referenced child doesn't exist.
	ErrChildNotFound = errors.New("child not found")

	// ErrCaregiverNotFound is returned when a referenced caregiver doesn't exist.
	ErrCaregiverNotFound = errors.New("caregiver not found")

	// ErrEntryNotFound is returned when a referenced entry doesn't exist.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrInvalidGrantConfig is returned when a child record carries an
	// unusable grant configuration. Validated at child creation; the ledger
	// assumes configs are valid and panics on unknown types instead.
	ErrInvalidGrantConfig = errors.New("invalid grant configuration")

	// ErrInvalidMonthInterval is returned for month boundaries outside 1-31.
	ErrInvalidMonthInterval = errors.New("month interval days must be between 1 and 31")

	// ErrInvalidStatus is returned for an unknown entry status value.
	ErrInvalidStatus = errors.New("invalid entry status")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// NotFoundError carries the kind and id of a missing record.
type NotFoundError struct {
	Kind string // "child", "caregiver", "entry"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	switch e.Kind {
	case "child":
		return ErrChildNotFound
	case "caregiver":
		return ErrCaregiverNotFound
	default:
		return ErrEntryNotFound
	}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrChildNotFound) ||
		errors.Is(err, ErrCaregiverNotFound) ||
		errors.Is(err, ErrEntryNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidGrantConfig) ||
		errors.Is(err, ErrInvalidMonthInterval) ||
		errors.Is(err, ErrInvalidStatus)
}

// ValidateGrantConfig checks a grant configuration at the point a child
// record is created or updated, so the ledger can assume validity later.
func ValidateGrantConfig(cfg GrantConfig) error {
	if !cfg.Type.Valid() {
		return fmt.Errorf("%w: unknown grant type %q", ErrInvalidGrantConfig, cfg.Type)
	}
	if cfg.Hours.IsNegative() {
		return fmt.Errorf("%w: negative grant hours", ErrInvalidGrantConfig)
	}
	if cfg.HasFrameGrant && cfg.FrameHours.IsNegative() {
		return fmt.Errorf("%w: negative frame hours", ErrInvalidGrantConfig)
	}
	for wd, hours := range cfg.WeekdayHours {
		if hours.IsNegative() {
			return fmt.Errorf("%w: negative hours for %s", ErrInvalidGrantConfig, wd)
		}
	}
	return nil
}
