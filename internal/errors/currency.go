package errors

var (
	ErrCurrencyNotFound = &DomainError{
		Code:    "CURRENCY_NOT_FOUND",
		Message: "currency not found",
	}
	ErrCurrencyNotActive = &DomainError{
		Code:    "CURRENCY_NOT_ACTIVE",
		Message: "currency is not active",
	}
	ErrTransactionTypeNotFound = &DomainError{
		Code:    "TRANSACTION_TYPE_NOT_FOUND",
		Message: "transaction type not found",
	}
)
