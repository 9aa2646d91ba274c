package models

import "time"

// WalletAccountState is the activation state of a wallet account.
type WalletAccountState string

const (
	WalletAccountActive     WalletAccountState = "ACTIVE"
	WalletAccountDeactivate WalletAccountState = "DEACTIVATE"
)

// Transaction directions for audit rows.
const (
	TransactionDebit  = "DEBIT"
	TransactionCredit = "CREDIT"
)

// WalletAccount holds the running balance for one (wallet, currency) pair.
// Balance is settled funds; PendingAmount is funds reserved by owner-side
// operations that have not been accepted yet.
type WalletAccount struct {
	ID            string             `json:"id"`
	WalletID      string             `json:"walletId"`
	CurrencyID    string             `json:"currencyId"`
	Balance       int64              `json:"balance"`
	PendingAmount int64              `json:"pendingAmount"`
	State         WalletAccountState `json:"state"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// WalletAccountTransaction is one immutable audit row per
// (operation, wallet account) balance mutation. Rows are append-only:
// never updated, never deleted.
type WalletAccountTransaction struct {
	ID              string    `json:"id"`
	OperationID     string    `json:"operationId"`
	WalletAccountID string    `json:"walletAccountId"`
	Type            string    `json:"type"` // DEBIT or CREDIT
	Value           int64     `json:"value"`
	PreviousBalance int64     `json:"previousBalance"`
	UpdatedBalance  int64     `json:"updatedBalance"`
	CreatedAt       time.Time `json:"createdAt"`
}
