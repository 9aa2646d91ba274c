// Package wallet implements wallet retirement. Deactivating a wallet
// drains every funded account into a backup wallet through ordinary
// ledger operations, so the migration shows up in the audit trail like
// any other transfer.
package wallet

import (
	"context"
	"sort"

	"aurum/internal/config"
	domainerrors "aurum/internal/errors"
	"aurum/internal/events"
	"aurum/internal/ledger"
	"aurum/internal/metrics"
	"aurum/internal/models"
	"aurum/internal/repositories"
	"aurum/internal/services/operation"
	"aurum/internal/validation"

	"github.com/google/uuid"
)

// Result reports a wallet deactivation. Migrations holds one settled
// operation per funded account that was drained. Replayed marks the
// idempotent case: the wallet was already retired and nothing moved.
type Result struct {
	Wallet     models.Wallet       `json:"wallet"`
	Migrations []*operation.Result `json:"migrations,omitempty"`
	Replayed   bool                `json:"replayed"`
}

// Service retires wallets.
type Service interface {
	Deactivate(ctx context.Context, walletID, userID, backupWalletID string) (*Result, error)
}

type service struct {
	store     repositories.Store
	publisher events.Publisher
	metrics   metrics.Collector
	cfg       config.Engine
}

// NewService creates the retirement manager.
func NewService(store repositories.Store, publisher events.Publisher, collector metrics.Collector, cfg config.Engine) Service {
	if store == nil {
		panic("store is required")
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if collector == nil {
		collector = metrics.NoopCollector{}
	}
	return &service{
		store:     store,
		publisher: publisher,
		metrics:   collector,
		cfg:       cfg,
	}
}

func (s *service) Deactivate(ctx context.Context, walletID, userID, backupWalletID string) (*Result, error) {
	if err := validation.Required("walletId", walletID); err != nil {
		return nil, err
	}
	if err := validation.Required("userId", userID); err != nil {
		return nil, err
	}

	var res *Result
	err := s.store.ExecuteInTransaction(ctx, func(r repositories.Ledger) error {
		var err error
		res, err = s.deactivateTx(ctx, r, walletID, userID, backupWalletID)
		return err
	})
	if err != nil {
		s.metrics.RecordError("wallet_deactivate", domainerrors.Code(err))
		return nil, err
	}

	if !res.Replayed {
		s.metrics.RecordOperation("wallet_deactivated")
		for _, migration := range res.Migrations {
			operation.Publish(ctx, s.publisher, events.EventOperationAccepted, migration)
		}
	}
	return res, nil
}

func (s *service) deactivateTx(ctx context.Context, r repositories.Ledger, walletID, userID, backupWalletID string) (*Result, error) {
	// Ownership is part of the lookup; a foreign wallet reads as absent.
	wallet, err := r.Wallets().GetByIDAndUser(ctx, walletID, userID)
	if err != nil {
		return nil, err
	}
	if wallet.State == models.WalletDeactivate {
		return &Result{Wallet: *wallet, Replayed: true}, nil
	}
	if wallet.Default {
		return nil, domainerrors.ErrWalletCannotBeDeleted
	}

	accounts, err := r.WalletAccounts().ListByWallet(ctx, wallet.ID)
	if err != nil {
		return nil, err
	}
	var funded []models.WalletAccount
	for _, acc := range accounts {
		// An account with outstanding reservations still has unsettled
		// operations pointing at it; those must be accepted or reverted
		// before the wallet retires.
		if acc.PendingAmount != 0 {
			return nil, domainerrors.ErrWalletAccountHasPendingOperations
		}
		if acc.Balance != 0 {
			funded = append(funded, acc)
		}
	}

	res := &Result{}
	if len(funded) > 0 {
		backup, err := s.resolveBackup(ctx, r, wallet, userID, backupWalletID)
		if err != nil {
			return nil, err
		}
		for _, acc := range funded {
			migration, err := s.migrate(ctx, r, acc, backup, userID)
			if err != nil {
				return nil, err
			}
			if migration != nil {
				res.Migrations = append(res.Migrations, migration)
			}
		}
	}

	wallet.State = models.WalletDeactivate
	if err := r.Wallets().Update(ctx, wallet); err != nil {
		return nil, err
	}
	res.Wallet = *wallet
	return res, nil
}

func (s *service) resolveBackup(ctx context.Context, r repositories.Ledger, wallet *models.Wallet, userID, backupWalletID string) (*models.Wallet, error) {
	if backupWalletID == "" || backupWalletID == wallet.ID {
		return nil, domainerrors.ErrWalletAccountHasBalance
	}
	backup, err := r.Wallets().GetByIDAndUser(ctx, backupWalletID, userID)
	if err != nil {
		return nil, err
	}
	if backup.State != models.WalletActive {
		return nil, domainerrors.ErrWalletNotActive
	}
	return backup, nil
}

// migrate drains one funded account into the backup wallet via a
// synthesized operation. A positive total debits the retiring account; a
// negative total runs the other way so the backup absorbs the debt.
func (s *service) migrate(ctx context.Context, r repositories.Ledger, acc models.WalletAccount, backup *models.Wallet, userID string) (*operation.Result, error) {
	backupAccount, err := r.WalletAccounts().GetOrCreate(ctx, backup.ID, acc.CurrencyID)
	if err != nil {
		return nil, err
	}

	txType, err := r.Catalog().TransactionTypeByTag(ctx, s.cfg.P2PTypeTag)
	if err != nil {
		return nil, err
	}

	// The listing snapshot is unlocked; re-read both rows under locks
	// taken in ascending id order, the same order settlement uses.
	locked, err := lockPair(ctx, r, acc.ID, backupAccount.ID)
	if err != nil {
		return nil, err
	}
	retiring, backupRow := locked[acc.ID], locked[backupAccount.ID]
	if retiring.PendingAmount != 0 {
		return nil, domainerrors.ErrWalletAccountHasPendingOperations
	}
	total := retiring.Balance
	if total == 0 {
		return nil, nil
	}
	source, target := *retiring, *backupRow
	if total < 0 {
		total = -total
		source, target = target, source
	}

	reserved := ledger.Reserve(source, total)
	if err := r.WalletAccounts().Update(ctx, &reserved); err != nil {
		return nil, err
	}

	op := &models.Operation{
		ID:                         uuid.NewString(),
		State:                      models.OperationPending,
		Value:                      total,
		CurrencyID:                 acc.CurrencyID,
		TransactionTypeID:          txType.ID,
		OwnerID:                    userID,
		OwnerWalletAccountID:       source.ID,
		BeneficiaryID:              userID,
		BeneficiaryWalletAccountID: target.ID,
		Metadata: map[string]interface{}{
			"walletRetirement": acc.WalletID,
		},
	}
	if err := r.Operations().Create(ctx, op); err != nil {
		return nil, err
	}

	return operation.AcceptTx(ctx, r, op.ID)
}

func lockPair(ctx context.Context, r repositories.Ledger, a, b string) (map[string]*models.WalletAccount, error) {
	ids := []string{a, b}
	sort.Strings(ids)
	out := make(map[string]*models.WalletAccount, 2)
	for _, id := range ids {
		row, err := r.WalletAccounts().GetByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		out[id] = row
	}
	return out, nil
}
