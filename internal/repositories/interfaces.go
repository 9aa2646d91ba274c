// Package repositories provides the ledger store contracts and their
// Postgres implementation. Repositories are always used through a Ledger
// bundle bound to a single database transaction; the engine never opens
// nested transactions.
package repositories

import (
	"context"

	"aurum/internal/models"
)

// OperationRepository persists ledger operations and their audit rows.
type OperationRepository interface {
	GetByID(ctx context.Context, id string) (*models.Operation, error)
	Create(ctx context.Context, op *models.Operation) error
	Update(ctx context.Context, op *models.Operation) error
	TransactionsByOperation(ctx context.Context, operationID string) ([]models.WalletAccountTransaction, error)
}

// WalletAccountRepository persists wallet accounts and appends audit rows.
// CreateTransaction is the only write path for WalletAccountTransaction:
// audit rows are never updated or deleted.
type WalletAccountRepository interface {
	GetByID(ctx context.Context, id string) (*models.WalletAccount, error)
	// GetByIDForUpdate loads the account under a row lock
	// (SELECT ... FOR UPDATE) so concurrent settlements against the same
	// account serialize their read-modify-write.
	GetByIDForUpdate(ctx context.Context, id string) (*models.WalletAccount, error)
	GetByWalletAndCurrency(ctx context.Context, walletID, currencyID string) (*models.WalletAccount, error)
	// GetOrCreate resolves the (wallet, currency) account, creating an
	// empty ACTIVE one when it does not exist yet.
	GetOrCreate(ctx context.Context, walletID, currencyID string) (*models.WalletAccount, error)
	ListByWallet(ctx context.Context, walletID string) ([]models.WalletAccount, error)
	Create(ctx context.Context, acc *models.WalletAccount) error
	Update(ctx context.Context, acc *models.WalletAccount) error
	CreateTransaction(ctx context.Context, txn *models.WalletAccountTransaction) error
}

// WalletRepository reads and updates wallets.
type WalletRepository interface {
	GetByID(ctx context.Context, id string) (*models.Wallet, error)
	// GetByIDAndUser scopes the lookup to the requesting principal.
	// Ownership failures are indistinguishable from not-found.
	GetByIDAndUser(ctx context.Context, id, userID string) (*models.Wallet, error)
	Update(ctx context.Context, wallet *models.Wallet) error
}

// CatalogRepository provides read-only currency and transaction-type
// lookups. The catalog is owned by another service; this engine only
// consults it.
type CatalogRepository interface {
	CurrencyBySymbol(ctx context.Context, symbol string) (*models.Currency, error)
	CurrencyByID(ctx context.Context, id string) (*models.Currency, error)
	TransactionTypeByTag(ctx context.Context, tag string) (*models.TransactionType, error)
}

// Ledger bundles the repositories bound to one logical unit of work.
type Ledger interface {
	Operations() OperationRepository
	WalletAccounts() WalletAccountRepository
	Wallets() WalletRepository
	Catalog() CatalogRepository
}

// Store is the entry point the services hold. ExecuteInTransaction opens
// exactly one database transaction, hands the callback a Ledger bound to
// it, and commits on nil / rolls back on error — no partial ledger state
// is ever observable.
type Store interface {
	Ledger
	ExecuteInTransaction(ctx context.Context, fn func(Ledger) error) error
}
