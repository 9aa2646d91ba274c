// Package errors defines the domain error taxonomy of the ledger engine.
// Every error the engine raises on its own behalf is a *DomainError;
// infrastructure failures from the store propagate unchanged.
package errors

import "fmt"

// DomainError is a tagged, caller-recoverable error. Code is stable and
// machine readable; Message is for humans.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Code extracts the machine-readable code of a domain error. Errors
// coming from infrastructure collapse to STORE_ERROR.
func Code(err error) string {
	if de, ok := err.(*DomainError); ok {
		return de.Code
	}
	return "STORE_ERROR"
}

// MissingData reports an incomplete request, naming the missing field.
func MissingData(field string) *DomainError {
	return &DomainError{
		Code:    "MISSING_DATA",
		Message: fmt.Sprintf("missing required field: %s", field),
	}
}

// IsMissingData reports whether err is a MissingData error.
func IsMissingData(err error) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == "MISSING_DATA"
}
