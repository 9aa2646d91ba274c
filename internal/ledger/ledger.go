// Package ledger holds the balance invariant functions of the settlement
// engine. Everything here is pure computation over wallet account
// snapshots: no I/O, no validation, no clamping. Policy — sufficient
// funds, non-negative results — is the caller's responsibility; balances
// are allowed to go negative for credit-side gateway flows.
package ledger

import "aurum/internal/models"

// Reserve moves value from the settled balance into the pending
// reservation. Applied once, at operation creation time, to the owner
// side. Reservation is recorded by the PENDING operation itself and emits
// no audit row.
func Reserve(acc models.WalletAccount, value int64) models.WalletAccount {
	acc.Balance -= value
	acc.PendingAmount += value
	return acc
}

// Release is the inverse of Reserve: it returns reserved funds to the
// settled balance when a PENDING owner-side operation is reverted. Unlike
// Reserve it emits a CREDIT audit row, so the settled-balance change stays
// covered by the audit trail.
func Release(acc models.WalletAccount, op models.Operation) (models.WalletAccount, models.WalletAccountTransaction) {
	prev := acc.Balance
	acc.Balance += op.Value
	acc.PendingAmount -= op.Value
	return acc, models.WalletAccountTransaction{
		OperationID:     op.ID,
		WalletAccountID: acc.ID,
		Type:            models.TransactionCredit,
		Value:           op.Value,
		PreviousBalance: prev,
		UpdatedBalance:  prev + op.Value,
	}
}

// SettleDebit finalizes the owner side of an accepted operation. The
// recorded previous balance is the full reservable total
// (balance + pendingAmount); settling consumes the reservation and leaves
// the settled balance untouched.
func SettleDebit(acc models.WalletAccount, op models.Operation) (models.WalletAccount, models.WalletAccountTransaction) {
	prev := acc.Balance + acc.PendingAmount
	acc.PendingAmount -= op.Value
	return acc, models.WalletAccountTransaction{
		OperationID:     op.ID,
		WalletAccountID: acc.ID,
		Type:            models.TransactionDebit,
		Value:           op.Value,
		PreviousBalance: prev,
		UpdatedBalance:  prev - op.Value,
	}
}

// SettleCredit finalizes the beneficiary side of an accepted operation,
// adding value to the settled balance.
func SettleCredit(acc models.WalletAccount, op models.Operation) (models.WalletAccount, models.WalletAccountTransaction) {
	prev := acc.Balance
	acc.Balance += op.Value
	return acc, models.WalletAccountTransaction{
		OperationID:     op.ID,
		WalletAccountID: acc.ID,
		Type:            models.TransactionCredit,
		Value:           op.Value,
		PreviousBalance: prev,
		UpdatedBalance:  prev + op.Value,
	}
}

// ReverseDebit undoes a settled debit, restoring value to the settled
// balance of the formerly debited account.
func ReverseDebit(acc models.WalletAccount, op models.Operation) (models.WalletAccount, models.WalletAccountTransaction) {
	prev := acc.Balance
	acc.Balance += op.Value
	return acc, models.WalletAccountTransaction{
		OperationID:     op.ID,
		WalletAccountID: acc.ID,
		Type:            models.TransactionCredit,
		Value:           op.Value,
		PreviousBalance: prev,
		UpdatedBalance:  prev + op.Value,
	}
}

// ReverseCredit undoes a settled credit, clawing value back from the
// formerly credited account.
func ReverseCredit(acc models.WalletAccount, op models.Operation) (models.WalletAccount, models.WalletAccountTransaction) {
	prev := acc.Balance
	acc.Balance -= op.Value
	return acc, models.WalletAccountTransaction{
		OperationID:     op.ID,
		WalletAccountID: acc.ID,
		Type:            models.TransactionDebit,
		Value:           op.Value,
		PreviousBalance: prev,
		UpdatedBalance:  prev - op.Value,
	}
}
