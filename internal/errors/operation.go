package errors

var (
	ErrOperationNotFound = &DomainError{
		Code:    "OPERATION_NOT_FOUND",
		Message: "operation not found",
	}
	ErrInvalidDataFormat = &DomainError{
		Code:    "INVALID_DATA_FORMAT",
		Message: "identifier has an invalid format",
	}
)
