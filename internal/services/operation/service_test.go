package operation

import (
	"context"
	"testing"

	domainerrors "aurum/internal/errors"
	"aurum/internal/events"
	"aurum/internal/models"
	"aurum/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const (
	opID       = "3f2a6c1e-9d4b-4f7a-8c2d-1e5b7a9c3d6f"
	secondOpID = "8b1d4e7a-2c5f-4a8b-9d3e-6f1a4c7b2e5d"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishOperationEvent(ctx context.Context, event events.OperationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func setup(policy Policy) (*repositories.MemoryStore, *mockPublisher, Service) {
	store := repositories.NewMemoryStore()
	publisher := new(mockPublisher)
	svc := NewService(store, publisher, nil, policy)
	return store, publisher, svc
}

func seedTransfer(store *repositories.MemoryStore, id string, value int64) {
	store.SeedWalletAccount(models.WalletAccount{
		ID: "acc-owner", WalletID: "wallet-owner", CurrencyID: "cur-brl",
		Balance: 100000 - value, PendingAmount: value,
		State: models.WalletAccountActive,
	})
	store.SeedWalletAccount(models.WalletAccount{
		ID: "acc-beneficiary", WalletID: "wallet-beneficiary", CurrencyID: "cur-brl",
		Balance: 50000, State: models.WalletAccountActive,
	})
	store.SeedOperation(models.Operation{
		ID:                         id,
		State:                      models.OperationPending,
		Value:                      value,
		CurrencyID:                 "cur-brl",
		OwnerID:                    "user-owner",
		OwnerWalletAccountID:       "acc-owner",
		BeneficiaryID:              "user-beneficiary",
		BeneficiaryWalletAccountID: "acc-beneficiary",
	})
}

func TestAcceptSettlesBothSides(t *testing.T) {
	store, publisher, svc := setup(Policy{})
	seedTransfer(store, opID, 1000)
	publisher.On("PublishOperationEvent", mock.Anything, mock.Anything).Return(nil)

	res, err := svc.Accept(context.Background(), opID)

	assert.NoError(t, err)
	assert.False(t, res.Replayed)
	assert.Equal(t, models.OperationAccepted, res.Operation.State)

	owner := store.Account("acc-owner")
	beneficiary := store.Account("acc-beneficiary")
	assert.Equal(t, int64(99000), owner.Balance)
	assert.Equal(t, int64(0), owner.PendingAmount)
	assert.Equal(t, int64(51000), beneficiary.Balance)

	// Total funds across both accounts are unchanged by settlement.
	total := owner.Balance + owner.PendingAmount + beneficiary.Balance + beneficiary.PendingAmount
	assert.Equal(t, int64(150000), total)

	assert.NotNil(t, res.Debit)
	assert.Equal(t, models.TransactionDebit, res.Debit.Transaction.Type)
	assert.Equal(t, int64(100000), res.Debit.Transaction.PreviousBalance)
	assert.Equal(t, int64(99000), res.Debit.Transaction.UpdatedBalance)

	assert.NotNil(t, res.Credit)
	assert.Equal(t, models.TransactionCredit, res.Credit.Transaction.Type)
	assert.Equal(t, int64(50000), res.Credit.Transaction.PreviousBalance)
	assert.Equal(t, int64(51000), res.Credit.Transaction.UpdatedBalance)

	assert.Len(t, store.Transactions(), 2)
	publisher.AssertNumberOfCalls(t, "PublishOperationEvent", 1)
}

func TestAcceptOwnerOnlyOperation(t *testing.T) {
	store, publisher, svc := setup(Policy{})
	store.SeedWalletAccount(models.WalletAccount{
		ID: "acc-owner", WalletID: "wallet-owner", CurrencyID: "cur-brl",
		Balance: 100000, PendingAmount: 10000,
		State: models.WalletAccountActive,
	})
	store.SeedOperation(models.Operation{
		ID:                   opID,
		State:                models.OperationPending,
		Value:                1000,
		OwnerID:              "user-owner",
		OwnerWalletAccountID: "acc-owner",
	})
	publisher.On("PublishOperationEvent", mock.Anything, mock.Anything).Return(nil)

	res, err := svc.Accept(context.Background(), opID)

	assert.NoError(t, err)
	assert.Nil(t, res.Credit)
	assert.Equal(t, int64(110000), res.Debit.Transaction.PreviousBalance)
	assert.Equal(t, int64(109000), res.Debit.Transaction.UpdatedBalance)

	owner := store.Account("acc-owner")
	assert.Equal(t, int64(100000), owner.Balance)
	assert.Equal(t, int64(9000), owner.PendingAmount)
	assert.Len(t, store.Transactions(), 1)
}

func TestAcceptIsIdempotent(t *testing.T) {
	store, publisher, svc := setup(Policy{})
	seedTransfer(store, opID, 1000)
	publisher.On("PublishOperationEvent", mock.Anything, mock.Anything).Return(nil)

	first, err := svc.Accept(context.Background(), opID)
	assert.NoError(t, err)
	assert.False(t, first.Replayed)

	second, err := svc.Accept(context.Background(), opID)
	assert.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, models.OperationAccepted, second.Operation.State)
	assert.Equal(t, first.Debit.Transaction.UpdatedBalance, second.Debit.Transaction.UpdatedBalance)
	assert.Equal(t, first.Credit.Transaction.UpdatedBalance, second.Credit.Transaction.UpdatedBalance)

	// No extra writes and no extra announcement on the replay.
	assert.Len(t, store.Transactions(), 2)
	assert.Equal(t, int64(99000), store.Account("acc-owner").Balance)
	assert.Equal(t, int64(51000), store.Account("acc-beneficiary").Balance)
	publisher.AssertNumberOfCalls(t, "PublishOperationEvent", 1)
}

func TestAcceptUnknownOperation(t *testing.T) {
	_, publisher, svc := setup(Policy{})

	res, err := svc.Accept(context.Background(), opID)

	assert.Nil(t, res)
	assert.Equal(t, domainerrors.ErrOperationNotFound, err)
	publisher.AssertNotCalled(t, "PublishOperationEvent", mock.Anything, mock.Anything)
}

func TestAcceptMalformedID(t *testing.T) {
	_, _, svc := setup(Policy{})

	res, err := svc.Accept(context.Background(), "op-123")

	assert.Nil(t, res)
	assert.Equal(t, domainerrors.ErrInvalidDataFormat, err)
}

func TestAuditRowsChainPerAccount(t *testing.T) {
	store, publisher, svc := setup(Policy{})
	store.SeedWalletAccount(models.WalletAccount{
		ID: "acc-beneficiary", WalletID: "wallet-beneficiary", CurrencyID: "cur-brl",
		State: models.WalletAccountActive,
	})
	publisher.On("PublishOperationEvent", mock.Anything, mock.Anything).Return(nil)

	for i, id := range []string{opID, secondOpID} {
		store.SeedOperation(models.Operation{
			ID:                         id,
			State:                      models.OperationPending,
			Value:                      int64(1000 * (i + 1)),
			BeneficiaryID:              "user-beneficiary",
			BeneficiaryWalletAccountID: "acc-beneficiary",
		})
		_, err := svc.Accept(context.Background(), id)
		assert.NoError(t, err)
	}

	rows := store.TransactionsByAccount("acc-beneficiary")
	assert.Len(t, rows, 2)
	for i := 1; i < len(rows); i++ {
		assert.Equal(t, rows[i-1].UpdatedBalance, rows[i].PreviousBalance)
	}
	assert.Equal(t, int64(3000), store.Account("acc-beneficiary").Balance)
}

func TestRevertPendingReleasesReservation(t *testing.T) {
	store, publisher, svc := setup(Policy{})
	seedTransfer(store, opID, 1000)
	publisher.On("PublishOperationEvent", mock.Anything, mock.Anything).Return(nil)

	res, err := svc.Revert(context.Background(), opID)

	assert.NoError(t, err)
	assert.False(t, res.Replayed)
	assert.Equal(t, models.OperationReverted, res.Operation.State)

	owner := store.Account("acc-owner")
	assert.Equal(t, int64(100000), owner.Balance)
	assert.Equal(t, int64(0), owner.PendingAmount)

	// The credit side was never applied, so the beneficiary stays put.
	assert.Equal(t, int64(50000), store.Account("acc-beneficiary").Balance)

	assert.NotNil(t, res.Debit)
	assert.Equal(t, models.TransactionCredit, res.Debit.Transaction.Type)
	assert.Nil(t, res.Credit)
	assert.Len(t, store.Transactions(), 1)
	publisher.AssertNumberOfCalls(t, "PublishOperationEvent", 1)
}

func TestRevertAcceptedDeniedByDefault(t *testing.T) {
	store, publisher, svc := setup(Policy{})
	seedTransfer(store, opID, 1000)
	publisher.On("PublishOperationEvent", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Accept(context.Background(), opID)
	assert.NoError(t, err)

	res, err := svc.Revert(context.Background(), opID)

	assert.NoError(t, err)
	assert.True(t, res.Replayed)
	assert.Equal(t, models.OperationAccepted, res.Operation.State)
	assert.Equal(t, int64(99000), store.Account("acc-owner").Balance)
	assert.Equal(t, int64(51000), store.Account("acc-beneficiary").Balance)
	assert.Len(t, store.Transactions(), 2)
	publisher.AssertNumberOfCalls(t, "PublishOperationEvent", 1)
}

func TestRevertAcceptedWhenPolicyAllows(t *testing.T) {
	store, publisher, svc := setup(Policy{AllowRevertAccepted: true})
	seedTransfer(store, opID, 1000)
	publisher.On("PublishOperationEvent", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Accept(context.Background(), opID)
	assert.NoError(t, err)

	res, err := svc.Revert(context.Background(), opID)

	assert.NoError(t, err)
	assert.False(t, res.Replayed)
	assert.Equal(t, models.OperationReverted, res.Operation.State)

	owner := store.Account("acc-owner")
	beneficiary := store.Account("acc-beneficiary")
	assert.Equal(t, int64(100000), owner.Balance)
	assert.Equal(t, int64(0), owner.PendingAmount)
	assert.Equal(t, int64(50000), beneficiary.Balance)

	// Reversal rows are appended, never removed.
	assert.Len(t, store.Transactions(), 4)
	publisher.AssertNumberOfCalls(t, "PublishOperationEvent", 2)
}

func TestRevertIsIdempotent(t *testing.T) {
	store, publisher, svc := setup(Policy{})
	seedTransfer(store, opID, 1000)
	publisher.On("PublishOperationEvent", mock.Anything, mock.Anything).Return(nil)

	first, err := svc.Revert(context.Background(), opID)
	assert.NoError(t, err)
	assert.False(t, first.Replayed)

	second, err := svc.Revert(context.Background(), opID)
	assert.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, models.OperationReverted, second.Operation.State)
	assert.Len(t, store.Transactions(), 1)
	assert.Equal(t, int64(100000), store.Account("acc-owner").Balance)
	publisher.AssertNumberOfCalls(t, "PublishOperationEvent", 1)
}

func TestSelfTransferLeavesBalanceUnchanged(t *testing.T) {
	store, publisher, svc := setup(Policy{})
	store.SeedWalletAccount(models.WalletAccount{
		ID: "acc-owner", WalletID: "wallet-owner", CurrencyID: "cur-brl",
		Balance: 99000, PendingAmount: 1000,
		State: models.WalletAccountActive,
	})
	store.SeedOperation(models.Operation{
		ID:                         opID,
		State:                      models.OperationPending,
		Value:                      1000,
		OwnerID:                    "user-owner",
		OwnerWalletAccountID:       "acc-owner",
		BeneficiaryID:              "user-owner",
		BeneficiaryWalletAccountID: "acc-owner",
	})
	publisher.On("PublishOperationEvent", mock.Anything, mock.Anything).Return(nil)

	res, err := svc.Accept(context.Background(), opID)

	assert.NoError(t, err)
	acc := store.Account("acc-owner")
	assert.Equal(t, int64(100000), acc.Balance)
	assert.Equal(t, int64(0), acc.PendingAmount)

	// Both audit rows exist even though the net movement is zero.
	assert.Len(t, store.Transactions(), 2)
	assert.NotNil(t, res.Debit)
	assert.NotNil(t, res.Credit)
}

func TestPublishFailureDoesNotFailAccept(t *testing.T) {
	store, publisher, svc := setup(Policy{})
	seedTransfer(store, opID, 1000)
	publisher.On("PublishOperationEvent", mock.Anything, mock.Anything).
		Return(assert.AnError)

	res, err := svc.Accept(context.Background(), opID)

	assert.NoError(t, err)
	assert.Equal(t, models.OperationAccepted, res.Operation.State)
	assert.Equal(t, int64(51000), store.Account("acc-beneficiary").Balance)
}
