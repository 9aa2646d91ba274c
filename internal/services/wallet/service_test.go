package wallet

import (
	"context"
	"testing"

	"aurum/internal/config"
	domainerrors "aurum/internal/errors"
	"aurum/internal/events"
	"aurum/internal/models"
	"aurum/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishOperationEvent(ctx context.Context, event events.OperationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func setup() (*repositories.MemoryStore, *mockPublisher, Service) {
	store := repositories.NewMemoryStore()
	store.SeedCurrency(models.Currency{ID: "cur-brl", Symbol: "BRL", Active: true})
	store.SeedTransactionType(models.TransactionType{ID: "type-p2p", Tag: "P2P_TRANSFER", Participants: models.ParticipantsBoth, Active: true})

	store.SeedWallet(models.Wallet{ID: "wallet-main", UserID: "user-1", Default: true, State: models.WalletActive})
	store.SeedWallet(models.Wallet{ID: "wallet-spare", UserID: "user-1", State: models.WalletActive})

	publisher := new(mockPublisher)
	svc := NewService(store, publisher, nil, config.Engine{P2PTypeTag: "P2P_TRANSFER", DefaultCurrencyTag: "BRL"})
	return store, publisher, svc
}

func TestDeactivateEmptyWallet(t *testing.T) {
	store, publisher, svc := setup()

	res, err := svc.Deactivate(context.Background(), "wallet-spare", "user-1", "")

	assert.NoError(t, err)
	assert.False(t, res.Replayed)
	assert.Empty(t, res.Migrations)
	assert.Equal(t, models.WalletDeactivate, store.Wallet("wallet-spare").State)
	publisher.AssertNotCalled(t, "PublishOperationEvent", mock.Anything, mock.Anything)
}

func TestDeactivateFundedWalletNeedsBackup(t *testing.T) {
	store, _, svc := setup()
	store.SeedWalletAccount(models.WalletAccount{
		ID: "acc-spare", WalletID: "wallet-spare", CurrencyID: "cur-brl",
		Balance: 5000, State: models.WalletAccountActive,
	})

	res, err := svc.Deactivate(context.Background(), "wallet-spare", "user-1", "")

	assert.Nil(t, res)
	assert.Equal(t, domainerrors.ErrWalletAccountHasBalance, err)
	assert.Equal(t, models.WalletActive, store.Wallet("wallet-spare").State)
	assert.Equal(t, int64(5000), store.Account("acc-spare").Balance)
}

func TestDeactivateMigratesFundsToBackup(t *testing.T) {
	store, publisher, svc := setup()
	store.SeedWalletAccount(models.WalletAccount{
		ID: "acc-spare", WalletID: "wallet-spare", CurrencyID: "cur-brl",
		Balance: 5000, State: models.WalletAccountActive,
	})
	store.SeedWalletAccount(models.WalletAccount{
		ID: "acc-main", WalletID: "wallet-main", CurrencyID: "cur-brl",
		Balance: 20000, State: models.WalletAccountActive,
	})
	publisher.On("PublishOperationEvent", mock.Anything, mock.Anything).Return(nil)

	res, err := svc.Deactivate(context.Background(), "wallet-spare", "user-1", "wallet-main")

	assert.NoError(t, err)
	assert.Len(t, res.Migrations, 1)
	assert.Equal(t, models.OperationAccepted, res.Migrations[0].Operation.State)
	assert.Equal(t, int64(5000), res.Migrations[0].Operation.Value)

	spare := store.Account("acc-spare")
	assert.Equal(t, int64(0), spare.Balance+spare.PendingAmount)
	assert.Equal(t, int64(25000), store.Account("acc-main").Balance)
	assert.Equal(t, models.WalletDeactivate, store.Wallet("wallet-spare").State)

	// The migration is an ordinary operation with a full audit trail.
	assert.Equal(t, 1, store.OperationCount())
	assert.Len(t, store.Transactions(), 2)
	publisher.AssertNumberOfCalls(t, "PublishOperationEvent", 1)
}

func TestDeactivateMigratesEveryFundedCurrency(t *testing.T) {
	store, publisher, svc := setup()
	store.SeedCurrency(models.Currency{ID: "cur-usd", Symbol: "USD", Active: true})
	store.SeedWalletAccount(models.WalletAccount{
		ID: "acc-spare-brl", WalletID: "wallet-spare", CurrencyID: "cur-brl",
		Balance: 5000, State: models.WalletAccountActive,
	})
	store.SeedWalletAccount(models.WalletAccount{
		ID: "acc-spare-usd", WalletID: "wallet-spare", CurrencyID: "cur-usd",
		Balance: 300, State: models.WalletAccountActive,
	})
	store.SeedWalletAccount(models.WalletAccount{
		ID: "acc-spare-empty", WalletID: "wallet-spare", CurrencyID: "cur-eur",
		State: models.WalletAccountActive,
	})
	publisher.On("PublishOperationEvent", mock.Anything, mock.Anything).Return(nil)

	res, err := svc.Deactivate(context.Background(), "wallet-spare", "user-1", "wallet-main")

	assert.NoError(t, err)
	assert.Len(t, res.Migrations, 2)

	brl, _ := store.AccountByWalletAndCurrency("wallet-main", "cur-brl")
	usd, _ := store.AccountByWalletAndCurrency("wallet-main", "cur-usd")
	assert.Equal(t, int64(5000), brl.Balance)
	assert.Equal(t, int64(300), usd.Balance)

	// The empty account needs no migration and no backup counterpart.
	_, ok := store.AccountByWalletAndCurrency("wallet-main", "cur-eur")
	assert.False(t, ok)
	publisher.AssertNumberOfCalls(t, "PublishOperationEvent", 2)
}

func TestDeactivateNegativeBalanceMovesDebtToBackup(t *testing.T) {
	store, publisher, svc := setup()
	store.SeedWalletAccount(models.WalletAccount{
		ID: "acc-spare", WalletID: "wallet-spare", CurrencyID: "cur-brl",
		Balance: -2000, State: models.WalletAccountActive,
	})
	store.SeedWalletAccount(models.WalletAccount{
		ID: "acc-main", WalletID: "wallet-main", CurrencyID: "cur-brl",
		Balance: 20000, State: models.WalletAccountActive,
	})
	publisher.On("PublishOperationEvent", mock.Anything, mock.Anything).Return(nil)

	res, err := svc.Deactivate(context.Background(), "wallet-spare", "user-1", "wallet-main")

	assert.NoError(t, err)
	assert.Len(t, res.Migrations, 1)

	// The backup is debited so the retired account closes at zero.
	assert.Equal(t, "acc-main", res.Migrations[0].Operation.OwnerWalletAccountID)
	assert.Equal(t, int64(2000), res.Migrations[0].Operation.Value)

	spare := store.Account("acc-spare")
	assert.Equal(t, int64(0), spare.Balance+spare.PendingAmount)
	assert.Equal(t, int64(18000), store.Account("acc-main").Balance)
}

func TestDeactivateRefusedWhileReservationsPending(t *testing.T) {
	store, _, svc := setup()
	store.SeedWalletAccount(models.WalletAccount{
		ID: "acc-spare", WalletID: "wallet-spare", CurrencyID: "cur-brl",
		Balance: 4500, PendingAmount: 500, State: models.WalletAccountActive,
	})

	res, err := svc.Deactivate(context.Background(), "wallet-spare", "user-1", "wallet-main")

	assert.Nil(t, res)
	assert.Equal(t, domainerrors.ErrWalletAccountHasPendingOperations, err)
	assert.Equal(t, models.WalletActive, store.Wallet("wallet-spare").State)
	spare := store.Account("acc-spare")
	assert.Equal(t, int64(4500), spare.Balance)
	assert.Equal(t, int64(500), spare.PendingAmount)
}

func TestDeactivateLocksAccountPairsInAscendingOrder(t *testing.T) {
	store, publisher, svc := setup()
	store.SeedWalletAccount(models.WalletAccount{
		ID: "acc-spare", WalletID: "wallet-spare", CurrencyID: "cur-brl",
		Balance: 5000, State: models.WalletAccountActive,
	})
	store.SeedWalletAccount(models.WalletAccount{
		ID: "acc-main", WalletID: "wallet-main", CurrencyID: "cur-brl",
		Balance: 20000, State: models.WalletAccountActive,
	})
	publisher.On("PublishOperationEvent", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Deactivate(context.Background(), "wallet-spare", "user-1", "wallet-main")

	assert.NoError(t, err)
	// The backup account sorts before the retiring account, so its lock
	// comes first on both the migration and the settlement pass.
	assert.Equal(t, []string{"acc-main", "acc-spare", "acc-main", "acc-spare"}, store.LockedAccountIDs())
}

func TestDeactivateIsIdempotent(t *testing.T) {
	store, publisher, svc := setup()

	first, err := svc.Deactivate(context.Background(), "wallet-spare", "user-1", "")
	assert.NoError(t, err)
	assert.False(t, first.Replayed)

	second, err := svc.Deactivate(context.Background(), "wallet-spare", "user-1", "")
	assert.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, models.WalletDeactivate, second.Wallet.State)
	assert.Equal(t, 0, store.OperationCount())
	publisher.AssertNotCalled(t, "PublishOperationEvent", mock.Anything, mock.Anything)
}

func TestDeactivateDefaultWalletRefused(t *testing.T) {
	store, _, svc := setup()

	res, err := svc.Deactivate(context.Background(), "wallet-main", "user-1", "")

	assert.Nil(t, res)
	assert.Equal(t, domainerrors.ErrWalletCannotBeDeleted, err)
	assert.Equal(t, models.WalletActive, store.Wallet("wallet-main").State)
}

func TestDeactivateForeignWalletReadsAsAbsent(t *testing.T) {
	_, _, svc := setup()

	res, err := svc.Deactivate(context.Background(), "wallet-spare", "user-2", "")

	assert.Nil(t, res)
	assert.Equal(t, domainerrors.ErrWalletNotFound, err)
}

func TestDeactivateBackupMustBeActive(t *testing.T) {
	store, _, svc := setup()
	store.SeedWallet(models.Wallet{ID: "wallet-retired", UserID: "user-1", State: models.WalletDeactivate})
	store.SeedWalletAccount(models.WalletAccount{
		ID: "acc-spare", WalletID: "wallet-spare", CurrencyID: "cur-brl",
		Balance: 5000, State: models.WalletAccountActive,
	})

	_, err := svc.Deactivate(context.Background(), "wallet-spare", "user-1", "wallet-retired")
	assert.Equal(t, domainerrors.ErrWalletNotActive, err)
}

func TestDeactivateBackupMustBelongToUser(t *testing.T) {
	store, _, svc := setup()
	store.SeedWallet(models.Wallet{ID: "wallet-other", UserID: "user-2", State: models.WalletActive})
	store.SeedWalletAccount(models.WalletAccount{
		ID: "acc-spare", WalletID: "wallet-spare", CurrencyID: "cur-brl",
		Balance: 5000, State: models.WalletAccountActive,
	})

	_, err := svc.Deactivate(context.Background(), "wallet-spare", "user-1", "wallet-other")
	assert.Equal(t, domainerrors.ErrWalletNotFound, err)
}

func TestDeactivateCannotBackUpOntoItself(t *testing.T) {
	store, _, svc := setup()
	store.SeedWalletAccount(models.WalletAccount{
		ID: "acc-spare", WalletID: "wallet-spare", CurrencyID: "cur-brl",
		Balance: 5000, State: models.WalletAccountActive,
	})

	_, err := svc.Deactivate(context.Background(), "wallet-spare", "user-1", "wallet-spare")
	assert.Equal(t, domainerrors.ErrWalletAccountHasBalance, err)
}
