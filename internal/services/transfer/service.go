// Package transfer orchestrates two-sided value movements between
// wallets. Creating a transfer and settling it happen in one unit of
// work: the caller never observes a transfer that reserved funds but did
// not settle.
package transfer

import (
	"context"

	"aurum/internal/config"
	domainerrors "aurum/internal/errors"
	"aurum/internal/events"
	"aurum/internal/ledger"
	"aurum/internal/metrics"
	"aurum/internal/models"
	"aurum/internal/repositories"
	"aurum/internal/services/operation"
	"aurum/internal/validation"
)

// Request describes a transfer to create. OperationID is assigned by the
// caller and doubles as the idempotency key; retrying with the same id
// returns the committed outcome unchanged.
type Request struct {
	OperationID         string
	UserID              string
	OwnerWalletID       string
	BeneficiaryWalletID string
	// CurrencySymbol defaults to the engine's configured currency when
	// empty.
	CurrencySymbol string
	Amount         int64 // minor currency units
	Metadata       map[string]interface{}
}

// Service creates and settles transfers.
type Service interface {
	Create(ctx context.Context, req Request) (*operation.Result, error)
}

type service struct {
	store     repositories.Store
	publisher events.Publisher
	metrics   metrics.Collector
	cfg       config.Engine
}

// NewService creates the transfer orchestrator.
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

func (s *service) Create(ctx context.Context, req Request) (*operation.Result, error) {
	if err := s.validate(req); err != nil {
		s.metrics.RecordError("transfer", domainerrors.Code(err))
		return nil, err
	}

	var res *operation.Result
	err := s.store.ExecuteInTransaction(ctx, func(r repositories.Ledger) error {
		var err error
		res, err = s.createTx(ctx, r, req)
		return err
	})
	if err != nil {
		s.metrics.RecordError("transfer", domainerrors.Code(err))
		return nil, err
	}

	if !res.Replayed {
		s.metrics.RecordOperation("transfer")
		s.metrics.RecordSettledValue("transfer", res.Operation.Value)
		operation.Publish(ctx, s.publisher, events.EventOperationAccepted, res)
	}
	return res, nil
}

func (s *service) validate(req Request) error {
	if err := validation.Required("operationId", req.OperationID); err != nil {
		return err
	}
	if err := validation.UUID(req.OperationID); err != nil {
		return err
	}
	if err := validation.Required("userId", req.UserID); err != nil {
		return err
	}
	if err := validation.Required("ownerWallet", req.OwnerWalletID); err != nil {
		return err
	}
	if err := validation.Required("beneficiaryWallet", req.BeneficiaryWalletID); err != nil {
		return err
	}
	return validation.PositiveAmount("amount", req.Amount)
}

func (s *service) createTx(ctx context.Context, r repositories.Ledger, req Request) (*operation.Result, error) {
	// An operation under this id already exists; return it and its
	// recorded rows unchanged. The id space is shared with single-sided
	// creators, so the collision may be a still-PENDING operation that
	// must not be settled from here.
	existing, err := r.Operations().GetByID(ctx, req.OperationID)
	if err == nil {
		return operation.Replay(ctx, r, existing)
	}
	if err != domainerrors.ErrOperationNotFound {
		return nil, err
	}

	currency, err := s.resolveCurrency(ctx, r, req.CurrencySymbol)
	if err != nil {
		return nil, err
	}

	owner, beneficiary, err := s.resolveWallets(ctx, r, req)
	if err != nil {
		return nil, err
	}

	shape := s.classify(owner, beneficiary)
	txType, err := r.Catalog().TransactionTypeByTag(ctx, shape.tag)
	if err != nil {
		return nil, err
	}

	op := &models.Operation{
		ID:                req.OperationID,
		State:             models.OperationPending,
		Value:             req.Amount,
		CurrencyID:        currency.ID,
		TransactionTypeID: txType.ID,
		Metadata:          req.Metadata,
	}

	if shape.beneficiarySide {
		beneficiaryAccount, err := r.WalletAccounts().GetOrCreate(ctx, beneficiary.ID, currency.ID)
		if err != nil {
			return nil, err
		}
		op.BeneficiaryID = beneficiary.UserID
		op.BeneficiaryWalletAccountID = beneficiaryAccount.ID
	}
	if shape.ownerSide {
		ownerAccount, err := r.WalletAccounts().GetOrCreate(ctx, owner.ID, currency.ID)
		if err != nil {
			return nil, err
		}
		// Reservation is a read-modify-write; take the row lock so a
		// concurrent transfer from the same account cannot lose it.
		ownerAccount, err = lockForReserve(ctx, r, ownerAccount.ID, op.BeneficiaryWalletAccountID)
		if err != nil {
			return nil, err
		}
		reserved := ledger.Reserve(*ownerAccount, req.Amount)
		if err := r.WalletAccounts().Update(ctx, &reserved); err != nil {
			return nil, err
		}
		op.OwnerID = owner.UserID
		op.OwnerWalletAccountID = ownerAccount.ID
	}

	if err := r.Operations().Create(ctx, op); err != nil {
		return nil, err
	}

	return operation.AcceptTx(ctx, r, op.ID)
}

// lockForReserve takes the row lock for the owner reservation. Locks
// are acquired in ascending account-id order, the same order settlement
// uses, so opposite-direction transfers between one pair of accounts
// cannot deadlock: when the counterpart account sorts first, its lock is
// taken first.
func lockForReserve(ctx context.Context, r repositories.Ledger, ownerAccountID, beneficiaryAccountID string) (*models.WalletAccount, error) {
	if beneficiaryAccountID != "" && beneficiaryAccountID < ownerAccountID {
		if _, err := r.WalletAccounts().GetByIDForUpdate(ctx, beneficiaryAccountID); err != nil {
			return nil, err
		}
	}
	return r.WalletAccounts().GetByIDForUpdate(ctx, ownerAccountID)
}

func (s *service) resolveCurrency(ctx context.Context, r repositories.Ledger, symbol string) (*models.Currency, error) {
	if symbol == "" {
		symbol = s.cfg.DefaultCurrencyTag
	}
	currency, err := r.Catalog().CurrencyBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if !currency.Active {
		return nil, domainerrors.ErrCurrencyNotActive
	}
	return currency, nil
}

// resolveWallets loads both wallets and checks the caller may move funds
// between them. The requesting user must own the debited wallet; when
// the debited wallet is the gateway (funds entering the platform), the
// user must own the credited wallet instead.
func (s *service) resolveWallets(ctx context.Context, r repositories.Ledger, req Request) (*models.Wallet, *models.Wallet, error) {
	owner, err := r.Wallets().GetByID(ctx, req.OwnerWalletID)
	if err != nil {
		return nil, nil, err
	}
	beneficiary := owner
	if req.BeneficiaryWalletID != req.OwnerWalletID {
		beneficiary, err = r.Wallets().GetByID(ctx, req.BeneficiaryWalletID)
		if err != nil {
			return nil, nil, err
		}
	}

	if owner.State != models.WalletActive || beneficiary.State != models.WalletActive {
		return nil, nil, domainerrors.ErrWalletNotActive
	}

	authorized := owner
	if owner.ID == s.cfg.GatewayWalletID {
		authorized = beneficiary
	}
	if authorized.UserID != req.UserID {
		return nil, nil, domainerrors.ErrForbidden
	}
	return owner, beneficiary, nil
}

// shape describes which sides the operation carries and how it is
// classified.
type shape struct {
	tag             string
	ownerSide       bool
	beneficiarySide bool
}

// classify compares both wallets against the configured gateway wallet.
// The gateway mirrors money outside the platform, so its side is omitted
// from the operation: paying the gateway is an owner-side-only CREDIT
// classification, funds arriving from it are beneficiary-side-only
// DEBIT. Everything else, self-transfers included, is two-sided P2P.
func (s *service) classify(owner, beneficiary *models.Wallet) shape {
	if s.cfg.GatewayWalletID != "" {
		if beneficiary.ID == s.cfg.GatewayWalletID {
			return shape{tag: s.cfg.GatewayCreditTypeTag, ownerSide: true}
		}
		if owner.ID == s.cfg.GatewayWalletID {
			return shape{tag: s.cfg.GatewayDebitTypeTag, beneficiarySide: true}
		}
	}
	return shape{tag: s.cfg.P2PTypeTag, ownerSide: true, beneficiarySide: true}
}
