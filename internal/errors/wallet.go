package errors

var (
	ErrWalletNotFound = &DomainError{
		Code:    "WALLET_NOT_FOUND",
		Message: "wallet not found",
	}
	ErrWalletNotActive = &DomainError{
		Code:    "WALLET_NOT_ACTIVE",
		Message: "wallet is not active",
	}
	ErrWalletCannotBeDeleted = &DomainError{
		Code:    "WALLET_CANNOT_BE_DELETED",
		Message: "default wallet cannot be deleted",
	}
	ErrWalletAccountNotFound = &DomainError{
		Code:    "WALLET_ACCOUNT_NOT_FOUND",
		Message: "wallet account not found",
	}
	ErrWalletAccountHasBalance = &DomainError{
		Code:    "WALLET_ACCOUNT_HAS_BALANCE",
		Message: "wallet still holds funds and no backup wallet was supplied",
	}
	ErrWalletAccountHasPendingOperations = &DomainError{
		Code:    "WALLET_ACCOUNT_HAS_PENDING_OPERATIONS",
		Message: "wallet account has unsettled pending operations",
	}
	ErrForbidden = &DomainError{
		Code:    "FORBIDDEN",
		Message: "principal does not own this resource",
	}
)
