package models

import (
	"time"
)

// OperationState is the lifecycle state of an Operation.
type OperationState string

const (
	OperationPending  OperationState = "PENDING"
	OperationAccepted OperationState = "ACCEPTED"
	OperationReverted OperationState = "REVERTED"
)

// Operation is a single ledger entry representing one value movement.
// The ID is externally assigned and doubles as the idempotency key.
// An operation carries an owner side (debited party), a beneficiary side
// (credited party), or both — never neither.
type Operation struct {
	ID                string         `json:"id"`
	State             OperationState `json:"state"`
	Value             int64          `json:"value"` // minor currency units, always positive
	CurrencyID        string         `json:"currencyId"`
	TransactionTypeID string         `json:"transactionTypeId"`

	OwnerID              string `json:"ownerId,omitempty"`
	OwnerWalletAccountID string `json:"ownerWalletAccountId,omitempty"`

	BeneficiaryID              string `json:"beneficiaryId,omitempty"`
	BeneficiaryWalletAccountID string `json:"beneficiaryWalletAccountId,omitempty"`

	// Metadata holds analytic tag annotations; the only field that stays
	// mutable after the operation reaches a terminal state.
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasOwnerSide reports whether the operation debits a party.
func (o *Operation) HasOwnerSide() bool {
	return o.OwnerWalletAccountID != ""
}

// HasBeneficiarySide reports whether the operation credits a party.
func (o *Operation) HasBeneficiarySide() bool {
	return o.BeneficiaryWalletAccountID != ""
}
