package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domainerrors "aurum/internal/errors"
	"aurum/internal/models"
)

// MemoryStore is an in-memory Store used by the service tests. It keeps
// the same transactional contract as the Postgres store — fn either
// commits as a whole or leaves no trace — by snapshotting state before
// each unit of work and restoring it on error.
type MemoryStore struct {
	mu           sync.Mutex
	operations   map[string]models.Operation
	accounts     map[string]models.WalletAccount
	wallets      map[string]models.Wallet
	currencies   map[string]models.Currency
	types        map[string]models.TransactionType
	transactions []models.WalletAccountTransaction
	lockTrace    []string
	seq          int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		operations: make(map[string]models.Operation),
		accounts:   make(map[string]models.WalletAccount),
		wallets:    make(map[string]models.Wallet),
		currencies: make(map[string]models.Currency),
		types:      make(map[string]models.TransactionType),
	}
}

func (s *MemoryStore) ExecuteInTransaction(ctx context.Context, fn func(Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.copyState()
	if err := fn(&memoryLedger{store: s}); err != nil {
		s.restoreState(snapshot)
		return err
	}
	return nil
}

func (s *MemoryStore) Operations() OperationRepository {
	return &memoryOperationRepository{store: s}
}

func (s *MemoryStore) WalletAccounts() WalletAccountRepository {
	return &memoryWalletAccountRepository{store: s}
}

func (s *MemoryStore) Wallets() WalletRepository {
	return &memoryWalletRepository{store: s}
}

func (s *MemoryStore) Catalog() CatalogRepository {
	return &memoryCatalogRepository{store: s}
}

// Seed helpers for tests.

func (s *MemoryStore) SeedWallet(w models.Wallet) {
	s.wallets[w.ID] = w
}

func (s *MemoryStore) SeedWalletAccount(acc models.WalletAccount) {
	s.accounts[acc.ID] = acc
}

func (s *MemoryStore) SeedCurrency(c models.Currency) {
	s.currencies[c.ID] = c
}

func (s *MemoryStore) SeedTransactionType(t models.TransactionType) {
	s.types[t.Tag] = t
}

func (s *MemoryStore) SeedOperation(op models.Operation) {
	s.operations[op.ID] = op
}

// Inspection helpers for tests.

func (s *MemoryStore) Account(id string) models.WalletAccount {
	return s.accounts[id]
}

func (s *MemoryStore) Wallet(id string) models.Wallet {
	return s.wallets[id]
}

func (s *MemoryStore) Operation(id string) (models.Operation, bool) {
	op, ok := s.operations[id]
	return op, ok
}

func (s *MemoryStore) OperationCount() int {
	return len(s.operations)
}

func (s *MemoryStore) Transactions() []models.WalletAccountTransaction {
	out := make([]models.WalletAccountTransaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// LockedAccountIDs reports every row-lock acquisition in call order.
func (s *MemoryStore) LockedAccountIDs() []string {
	out := make([]string, len(s.lockTrace))
	copy(out, s.lockTrace)
	return out
}

func (s *MemoryStore) TransactionsByAccount(accountID string) []models.WalletAccountTransaction {
	var out []models.WalletAccountTransaction
	for _, txn := range s.transactions {
		if txn.WalletAccountID == accountID {
			out = append(out, txn)
		}
	}
	return out
}

// AccountByWalletAndCurrency resolves an account outside a transaction.
func (s *MemoryStore) AccountByWalletAndCurrency(walletID, currencyID string) (models.WalletAccount, bool) {
	ids := make([]string, 0, len(s.accounts))
	for id := range s.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		acc := s.accounts[id]
		if acc.WalletID == walletID && acc.CurrencyID == currencyID {
			return acc, true
		}
	}
	return models.WalletAccount{}, false
}

type memoryState struct {
	operations   map[string]models.Operation
	accounts     map[string]models.WalletAccount
	wallets      map[string]models.Wallet
	transactions []models.WalletAccountTransaction
	seq          int
}

func (s *MemoryStore) copyState() memoryState {
	state := memoryState{
		operations:   make(map[string]models.Operation, len(s.operations)),
		accounts:     make(map[string]models.WalletAccount, len(s.accounts)),
		wallets:      make(map[string]models.Wallet, len(s.wallets)),
		transactions: make([]models.WalletAccountTransaction, len(s.transactions)),
		seq:          s.seq,
	}
	for k, v := range s.operations {
		state.operations[k] = v
	}
	for k, v := range s.accounts {
		state.accounts[k] = v
	}
	for k, v := range s.wallets {
		state.wallets[k] = v
	}
	copy(state.transactions, s.transactions)
	return state
}

func (s *MemoryStore) restoreState(state memoryState) {
	s.operations = state.operations
	s.accounts = state.accounts
	s.wallets = state.wallets
	s.transactions = state.transactions
	s.seq = state.seq
}

func (s *MemoryStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%04d", prefix, s.seq)
}

type memoryLedger struct {
	store *MemoryStore
}

func (l *memoryLedger) Operations() OperationRepository {
	return &memoryOperationRepository{store: l.store}
}

func (l *memoryLedger) WalletAccounts() WalletAccountRepository {
	return &memoryWalletAccountRepository{store: l.store}
}

func (l *memoryLedger) Wallets() WalletRepository {
	return &memoryWalletRepository{store: l.store}
}

func (l *memoryLedger) Catalog() CatalogRepository {
	return &memoryCatalogRepository{store: l.store}
}

type memoryOperationRepository struct {
	store *MemoryStore
}

func (r *memoryOperationRepository) GetByID(ctx context.Context, id string) (*models.Operation, error) {
	op, ok := r.store.operations[id]
	if !ok {
		return nil, domainerrors.ErrOperationNotFound
	}
	out := op
	return &out, nil
}

func (r *memoryOperationRepository) Create(ctx context.Context, op *models.Operation) error {
	if _, exists := r.store.operations[op.ID]; exists {
		return fmt.Errorf("operation %s already exists", op.ID)
	}
	op.CreatedAt = time.Now()
	op.UpdatedAt = op.CreatedAt
	r.store.operations[op.ID] = *op
	return nil
}

func (r *memoryOperationRepository) Update(ctx context.Context, op *models.Operation) error {
	if _, exists := r.store.operations[op.ID]; !exists {
		return domainerrors.ErrOperationNotFound
	}
	op.UpdatedAt = time.Now()
	r.store.operations[op.ID] = *op
	return nil
}

func (r *memoryOperationRepository) TransactionsByOperation(ctx context.Context, operationID string) ([]models.WalletAccountTransaction, error) {
	var out []models.WalletAccountTransaction
	for _, txn := range r.store.transactions {
		if txn.OperationID == operationID {
			out = append(out, txn)
		}
	}
	return out, nil
}

type memoryWalletAccountRepository struct {
	store *MemoryStore
}

func (r *memoryWalletAccountRepository) GetByID(ctx context.Context, id string) (*models.WalletAccount, error) {
	acc, ok := r.store.accounts[id]
	if !ok {
		return nil, domainerrors.ErrWalletAccountNotFound
	}
	out := acc
	return &out, nil
}

func (r *memoryWalletAccountRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.WalletAccount, error) {
	// The store mutex already serializes units of work; the trace keeps
	// acquisition order observable for tests.
	r.store.lockTrace = append(r.store.lockTrace, id)
	return r.GetByID(ctx, id)
}

func (r *memoryWalletAccountRepository) GetByWalletAndCurrency(ctx context.Context, walletID, currencyID string) (*models.WalletAccount, error) {
	acc, ok := r.store.AccountByWalletAndCurrency(walletID, currencyID)
	if !ok {
		return nil, domainerrors.ErrWalletAccountNotFound
	}
	return &acc, nil
}

func (r *memoryWalletAccountRepository) GetOrCreate(ctx context.Context, walletID, currencyID string) (*models.WalletAccount, error) {
	acc, err := r.GetByWalletAndCurrency(ctx, walletID, currencyID)
	if err == nil {
		return acc, nil
	}
	if err != domainerrors.ErrWalletAccountNotFound {
		return nil, err
	}
	created := &models.WalletAccount{
		WalletID:   walletID,
		CurrencyID: currencyID,
		State:      models.WalletAccountActive,
	}
	if err := r.Create(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *memoryWalletAccountRepository) ListByWallet(ctx context.Context, walletID string) ([]models.WalletAccount, error) {
	ids := make([]string, 0, len(r.store.accounts))
	for id := range r.store.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []models.WalletAccount
	for _, id := range ids {
		if r.store.accounts[id].WalletID == walletID {
			out = append(out, r.store.accounts[id])
		}
	}
	return out, nil
}

func (r *memoryWalletAccountRepository) Create(ctx context.Context, acc *models.WalletAccount) error {
	if acc.ID == "" {
		acc.ID = r.store.nextID("acc")
	}
	acc.CreatedAt = time.Now()
	acc.UpdatedAt = acc.CreatedAt
	r.store.accounts[acc.ID] = *acc
	return nil
}

func (r *memoryWalletAccountRepository) Update(ctx context.Context, acc *models.WalletAccount) error {
	if _, ok := r.store.accounts[acc.ID]; !ok {
		return domainerrors.ErrWalletAccountNotFound
	}
	acc.UpdatedAt = time.Now()
	r.store.accounts[acc.ID] = *acc
	return nil
}

func (r *memoryWalletAccountRepository) CreateTransaction(ctx context.Context, txn *models.WalletAccountTransaction) error {
	if txn.ID == "" {
		txn.ID = r.store.nextID("txn")
	}
	txn.CreatedAt = time.Now()
	r.store.transactions = append(r.store.transactions, *txn)
	return nil
}

type memoryWalletRepository struct {
	store *MemoryStore
}

func (r *memoryWalletRepository) GetByID(ctx context.Context, id string) (*models.Wallet, error) {
	w, ok := r.store.wallets[id]
	if !ok {
		return nil, domainerrors.ErrWalletNotFound
	}
	out := w
	return &out, nil
}

func (r *memoryWalletRepository) GetByIDAndUser(ctx context.Context, id, userID string) (*models.Wallet, error) {
	w, ok := r.store.wallets[id]
	if !ok || w.UserID != userID {
		return nil, domainerrors.ErrWalletNotFound
	}
	out := w
	return &out, nil
}

func (r *memoryWalletRepository) Update(ctx context.Context, wallet *models.Wallet) error {
	if _, ok := r.store.wallets[wallet.ID]; !ok {
		return domainerrors.ErrWalletNotFound
	}
	wallet.UpdatedAt = time.Now()
	r.store.wallets[wallet.ID] = *wallet
	return nil
}

type memoryCatalogRepository struct {
	store *MemoryStore
}

func (r *memoryCatalogRepository) CurrencyBySymbol(ctx context.Context, symbol string) (*models.Currency, error) {
	for _, c := range r.store.currencies {
		if c.Symbol == symbol {
			out := c
			return &out, nil
		}
	}
	return nil, domainerrors.ErrCurrencyNotFound
}

func (r *memoryCatalogRepository) CurrencyByID(ctx context.Context, id string) (*models.Currency, error) {
	c, ok := r.store.currencies[id]
	if !ok {
		return nil, domainerrors.ErrCurrencyNotFound
	}
	out := c
	return &out, nil
}

func (r *memoryCatalogRepository) TransactionTypeByTag(ctx context.Context, tag string) (*models.TransactionType, error) {
	t, ok := r.store.types[tag]
	if !ok {
		return nil, domainerrors.ErrTransactionTypeNotFound
	}
	out := t
	return &out, nil
}
