// Package operation implements the operation lifecycle state machine:
// PENDING -> ACCEPTED on the normal path, PENDING -> REVERTED on the
// compensating path. Transitions are idempotent per operation id so
// callers can safely retry after a crash between commit and
// acknowledgment.
package operation

import (
	"context"
	"sort"

	domainerrors "aurum/internal/errors"
	"aurum/internal/events"
	"aurum/internal/ledger"
	"aurum/internal/metrics"
	"aurum/internal/models"
	"aurum/internal/repositories"
	"aurum/internal/validation"

	"github.com/rs/zerolog/log"
)

// Result is the outcome of an accept or revert. Debit and Credit are nil
// for the side the operation lacks. Replayed marks an idempotent no-op:
// the operation had already reached a terminal state and nothing was
// written or emitted.
type Result struct {
	Operation models.Operation `json:"operation"`
	Debit     *events.Side     `json:"debit,omitempty"`
	Credit    *events.Side     `json:"credit,omitempty"`
	Replayed  bool             `json:"replayed"`
}

// Policy configures which extra transitions the lifecycle permits.
type Policy struct {
	// AllowRevertAccepted enables ACCEPTED -> REVERTED (late
	// cancellation). The permitted source states are business policy,
	// not a fixed rule of the state machine.
	AllowRevertAccepted bool
}

// Service drives operations through their lifecycle.
type Service interface {
	Accept(ctx context.Context, operationID string) (*Result, error)
	Revert(ctx context.Context, operationID string) (*Result, error)
}

type service struct {
	store     repositories.Store
	publisher events.Publisher
	metrics   metrics.Collector
	policy    Policy
}

// NewService creates the lifecycle manager.
func NewService(store repositories.Store, publisher events.Publisher, collector metrics.Collector, policy Policy) Service {
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
		policy:    policy,
	}
}

func (s *service) Accept(ctx context.Context, operationID string) (*Result, error) {
	var res *Result
	err := s.store.ExecuteInTransaction(ctx, func(r repositories.Ledger) error {
		var err error
		res, err = AcceptTx(ctx, r, operationID)
		return err
	})
	if err != nil {
		s.metrics.RecordError("accept", domainerrors.Code(err))
		return nil, err
	}

	if !res.Replayed {
		s.metrics.RecordOperation("accepted")
		s.metrics.RecordSettledValue("accepted", res.Operation.Value)
		Publish(ctx, s.publisher, events.EventOperationAccepted, res)
	}
	return res, nil
}

func (s *service) Revert(ctx context.Context, operationID string) (*Result, error) {
	var res *Result
	err := s.store.ExecuteInTransaction(ctx, func(r repositories.Ledger) error {
		var err error
		res, err = RevertTx(ctx, r, operationID, s.policy)
		return err
	})
	if err != nil {
		s.metrics.RecordError("revert", domainerrors.Code(err))
		return nil, err
	}

	if !res.Replayed {
		s.metrics.RecordOperation("reverted")
		s.metrics.RecordSettledValue("reverted", res.Operation.Value)
		Publish(ctx, s.publisher, events.EventOperationReverted, res)
	}
	return res, nil
}

// AcceptTx runs the accept state machine against repositories already
// bound to the caller's transaction. The transfer orchestrator and the
// wallet retirement manager use it so creation and settlement share one
// unit of work.
func AcceptTx(ctx context.Context, r repositories.Ledger, operationID string) (*Result, error) {
	if err := validation.UUID(operationID); err != nil {
		return nil, err
	}

	op, err := r.Operations().GetByID(ctx, operationID)
	if err != nil {
		return nil, err
	}
	if op.State != models.OperationPending {
		return Replay(ctx, r, op)
	}

	accounts, err := lockAccounts(ctx, r, op)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	if op.HasOwnerSide() {
		acc := accounts[op.OwnerWalletAccountID]
		updated, txn := ledger.SettleDebit(*acc, *op)
		*acc = updated
		res.Debit = &events.Side{Transaction: txn}
	}
	if op.HasBeneficiarySide() {
		acc := accounts[op.BeneficiaryWalletAccountID]
		updated, txn := ledger.SettleCredit(*acc, *op)
		*acc = updated
		res.Credit = &events.Side{Transaction: txn}
	}

	op.State = models.OperationAccepted
	if err := finalize(ctx, r, op, accounts, res); err != nil {
		return nil, err
	}
	return res, nil
}

// RevertTx runs the revert state machine against caller-bound
// repositories. A PENDING operation releases the owner reservation; an
// ACCEPTED operation, when policy allows, has both settled sides undone.
func RevertTx(ctx context.Context, r repositories.Ledger, operationID string, policy Policy) (*Result, error) {
	if err := validation.UUID(operationID); err != nil {
		return nil, err
	}

	op, err := r.Operations().GetByID(ctx, operationID)
	if err != nil {
		return nil, err
	}

	fromAccepted := op.State == models.OperationAccepted && policy.AllowRevertAccepted
	if op.State != models.OperationPending && !fromAccepted {
		return Replay(ctx, r, op)
	}

	accounts, err := lockAccounts(ctx, r, op)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	if fromAccepted {
		if op.HasOwnerSide() {
			acc := accounts[op.OwnerWalletAccountID]
			updated, txn := ledger.ReverseDebit(*acc, *op)
			*acc = updated
			res.Debit = &events.Side{Transaction: txn}
		}
		if op.HasBeneficiarySide() {
			acc := accounts[op.BeneficiaryWalletAccountID]
			updated, txn := ledger.ReverseCredit(*acc, *op)
			*acc = updated
			res.Credit = &events.Side{Transaction: txn}
		}
	} else if op.HasOwnerSide() {
		// The credit side of a pending operation was never applied;
		// only the owner reservation needs releasing.
		acc := accounts[op.OwnerWalletAccountID]
		updated, txn := ledger.Release(*acc, *op)
		*acc = updated
		res.Debit = &events.Side{Transaction: txn}
	}

	op.State = models.OperationReverted
	if err := finalize(ctx, r, op, accounts, res); err != nil {
		return nil, err
	}
	return res, nil
}

// lockAccounts acquires row locks on every wallet account the operation
// touches, in ascending id order so two settlements crossing the same
// pair of accounts cannot deadlock. A self-transfer locks its single
// account once and both sides settle against the same snapshot.
func lockAccounts(ctx context.Context, r repositories.Ledger, op *models.Operation) (map[string]*models.WalletAccount, error) {
	ids := make([]string, 0, 2)
	if op.HasOwnerSide() {
		ids = append(ids, op.OwnerWalletAccountID)
	}
	if op.HasBeneficiarySide() && op.BeneficiaryWalletAccountID != op.OwnerWalletAccountID {
		ids = append(ids, op.BeneficiaryWalletAccountID)
	}
	sort.Strings(ids)

	accounts := make(map[string]*models.WalletAccount, len(ids))
	for _, id := range ids {
		acc, err := r.WalletAccounts().GetByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		accounts[id] = acc
	}
	return accounts, nil
}

// finalize persists the mutated accounts, appends the audit rows, stores
// the terminal operation state and fills the result snapshots.
func finalize(ctx context.Context, r repositories.Ledger, op *models.Operation, accounts map[string]*models.WalletAccount, res *Result) error {
	ids := make([]string, 0, len(accounts))
	for id := range accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := r.WalletAccounts().Update(ctx, accounts[id]); err != nil {
			return err
		}
	}

	if res.Debit != nil {
		if err := r.WalletAccounts().CreateTransaction(ctx, &res.Debit.Transaction); err != nil {
			return err
		}
		res.Debit.Account = *accounts[res.Debit.Transaction.WalletAccountID]
	}
	if res.Credit != nil {
		if err := r.WalletAccounts().CreateTransaction(ctx, &res.Credit.Transaction); err != nil {
			return err
		}
		res.Credit.Account = *accounts[res.Credit.Transaction.WalletAccountID]
	}

	if err := r.Operations().Update(ctx, op); err != nil {
		return err
	}
	res.Operation = *op
	return nil
}

// Replay rebuilds the result of an existing operation from its recorded
// rows without writing anything, so retried calls observe the exact
// committed outcome. The transfer orchestrator also uses it when a
// creation request carries an id that already exists.
func Replay(ctx context.Context, r repositories.Ledger, op *models.Operation) (*Result, error) {
	rows, err := r.Operations().TransactionsByOperation(ctx, op.ID)
	if err != nil {
		return nil, err
	}

	res := &Result{Operation: *op, Replayed: true}
	for i := range rows {
		row := rows[i]
		side := &events.Side{Transaction: row}
		acc, err := r.WalletAccounts().GetByID(ctx, row.WalletAccountID)
		if err == nil {
			side.Account = *acc
		}
		switch {
		case row.Type == models.TransactionDebit && row.WalletAccountID == op.OwnerWalletAccountID:
			res.Debit = side
		case row.Type == models.TransactionCredit && row.WalletAccountID == op.BeneficiaryWalletAccountID:
			res.Credit = side
		case row.WalletAccountID == op.OwnerWalletAccountID:
			// Release and reversal rows on the owner account.
			res.Debit = side
		default:
			res.Credit = side
		}
	}
	return res, nil
}

// Publish announces a settled result on the bus. The transaction behind
// res is already committed; a publish failure is logged, never returned.
func Publish(ctx context.Context, publisher events.Publisher, eventType events.EventType, res *Result) {
	event := events.OperationEvent{
		Type:      eventType,
		Operation: res.Operation,
		Debit:     res.Debit,
		Credit:    res.Credit,
	}
	if err := publisher.PublishOperationEvent(ctx, event); err != nil {
		log.Error().Err(err).Str("operation_id", res.Operation.ID).Msg("failed to publish operation event")
	}
}
