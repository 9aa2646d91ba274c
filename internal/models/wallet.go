package models

import "time"

// WalletState is the activation state of a wallet.
type WalletState string

const (
	WalletActive     WalletState = "ACTIVE"
	WalletDeactivate WalletState = "DEACTIVATE"
)

// Wallet groups the per-currency wallet accounts of one user.
type Wallet struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Name      string      `json:"name"`
	Default   bool        `json:"default"`
	State     WalletState `json:"state"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
