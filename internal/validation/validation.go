// Package validation holds the input checks the engine runs before any
// store access. Each check is an ordinary function returning a typed
// domain error; nothing here touches I/O.
package validation

import (
	"aurum/internal/errors"

	"github.com/google/uuid"
)

// UUID verifies that id is a well-formed UUID. A malformed id is an
// INVALID_DATA_FORMAT error, raised before any lookup so it stays
// distinguishable from not-found.
func UUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.ErrInvalidDataFormat
	}
	return nil
}

// Required reports a MISSING_DATA error naming the field when v is empty.
func Required(field, v string) error {
	if v == "" {
		return errors.MissingData(field)
	}
	return nil
}

// PositiveAmount reports a MISSING_DATA error when the amount is not a
// positive number of minor units.
func PositiveAmount(field string, v int64) error {
	if v <= 0 {
		return errors.MissingData(field)
	}
	return nil
}
