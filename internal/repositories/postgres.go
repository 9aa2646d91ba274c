package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"aurum/internal/config"
	domainerrors "aurum/internal/errors"
	"aurum/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormStore implements Store on top of a gorm Postgres connection.
type gormStore struct {
	db *gorm.DB
}

// NewStore wraps an existing gorm connection.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Connect opens the Postgres connection and returns the Store bound to
// it.
func Connect() (Store, error) {
	db, err := ConnectDB()
	if err != nil {
		return nil, err
	}
	return &gormStore{db: db}, nil
}

// ConnectDB opens the Postgres connection, applies pool settings from the
// environment and migrates the ledger schema. The raw handle is only
// needed by the seed command; the engine works through Store.
func ConnectDB() (*gorm.DB, error) {
	dsn := "host=" + config.GetEnv("DB_HOST", "localhost") +
		" user=" + config.GetEnv("DB_USER", "postgres") +
		" password=" + config.GetEnv("DB_PASSWORD", "postgres") +
		" dbname=" + config.GetEnv("DB_NAME", "aurum") +
		" port=" + config.GetEnv("DB_PORT", "5432") +
		" sslmode=" + config.GetEnv("DB_SSLMODE", "disable")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(config.GetIntEnv("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetMaxOpenConns(config.GetIntEnv("DB_MAX_OPEN_CONNS", 100))
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.AutoMigrate(
		&walletRecord{},
		&walletAccountRecord{},
		&walletAccountTransactionRecord{},
		&operationRecord{},
		&currencyRecord{},
		&transactionTypeRecord{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}

// ExecuteInTransaction runs fn against repositories bound to a single
// database transaction. Errors roll everything back.
func (s *gormStore) ExecuteInTransaction(ctx context.Context, fn func(Ledger) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}

func (s *gormStore) Operations() OperationRepository         { return &operationRepository{db: s.db} }
func (s *gormStore) WalletAccounts() WalletAccountRepository { return &walletAccountRepository{db: s.db} }
func (s *gormStore) Wallets() WalletRepository               { return &walletRepository{db: s.db} }
func (s *gormStore) Catalog() CatalogRepository              { return &catalogRepository{db: s.db} }

type operationRepository struct {
	db *gorm.DB
}

func (r *operationRepository) GetByID(ctx context.Context, id string) (*models.Operation, error) {
	var record operationRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domainerrors.ErrOperationNotFound
		}
		return nil, fmt.Errorf("failed to get operation: %w", err)
	}
	return record.toDomain(), nil
}

func (r *operationRepository) Create(ctx context.Context, op *models.Operation) error {
	record := operationFromDomain(op)
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create operation: %w", err)
	}
	*op = *record.toDomain()
	return nil
}

func (r *operationRepository) Update(ctx context.Context, op *models.Operation) error {
	record := operationFromDomain(op)
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return fmt.Errorf("failed to update operation: %w", err)
	}
	return nil
}

func (r *operationRepository) TransactionsByOperation(ctx context.Context, operationID string) ([]models.WalletAccountTransaction, error) {
	var records []walletAccountTransactionRecord
	err := r.db.WithContext(ctx).
		Where("operation_id = ?", operationID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get operation transactions: %w", err)
	}
	txns := make([]models.WalletAccountTransaction, 0, len(records))
	for i := range records {
		txns = append(txns, records[i].toDomain())
	}
	return txns, nil
}

type walletAccountRepository struct {
	db *gorm.DB
}

func (r *walletAccountRepository) GetByID(ctx context.Context, id string) (*models.WalletAccount, error) {
	var record walletAccountRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domainerrors.ErrWalletAccountNotFound
		}
		return nil, fmt.Errorf("failed to get wallet account: %w", err)
	}
	return record.toDomain(), nil
}

func (r *walletAccountRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.WalletAccount, error) {
	var record walletAccountRecord
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&record, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domainerrors.ErrWalletAccountNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet account: %w", err)
	}
	return record.toDomain(), nil
}

func (r *walletAccountRepository) GetByWalletAndCurrency(ctx context.Context, walletID, currencyID string) (*models.WalletAccount, error) {
	var record walletAccountRecord
	err := r.db.WithContext(ctx).
		Where("wallet_id = ? AND currency_id = ?", walletID, currencyID).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domainerrors.ErrWalletAccountNotFound
		}
		return nil, fmt.Errorf("failed to get wallet account: %w", err)
	}
	return record.toDomain(), nil
}

func (r *walletAccountRepository) GetOrCreate(ctx context.Context, walletID, currencyID string) (*models.WalletAccount, error) {
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

func (r *walletAccountRepository) ListByWallet(ctx context.Context, walletID string) ([]models.WalletAccount, error) {
	var records []walletAccountRecord
	if err := r.db.WithContext(ctx).Where("wallet_id = ?", walletID).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list wallet accounts: %w", err)
	}
	accounts := make([]models.WalletAccount, 0, len(records))
	for i := range records {
		accounts = append(accounts, *records[i].toDomain())
	}
	return accounts, nil
}

func (r *walletAccountRepository) Create(ctx context.Context, acc *models.WalletAccount) error {
	record := walletAccountFromDomain(acc)
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create wallet account: %w", err)
	}
	*acc = *record.toDomain()
	return nil
}

func (r *walletAccountRepository) Update(ctx context.Context, acc *models.WalletAccount) error {
	record := walletAccountFromDomain(acc)
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return fmt.Errorf("failed to update wallet account: %w", err)
	}
	return nil
}

func (r *walletAccountRepository) CreateTransaction(ctx context.Context, txn *models.WalletAccountTransaction) error {
	record := transactionFromDomain(txn)
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create wallet account transaction: %w", err)
	}
	*txn = record.toDomain()
	return nil
}

type walletRepository struct {
	db *gorm.DB
}

func (r *walletRepository) GetByID(ctx context.Context, id string) (*models.Wallet, error) {
	var record walletRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domainerrors.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return record.toDomain(), nil
}

func (r *walletRepository) GetByIDAndUser(ctx context.Context, id, userID string) (*models.Wallet, error) {
	var record walletRecord
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domainerrors.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return record.toDomain(), nil
}

func (r *walletRepository) Update(ctx context.Context, wallet *models.Wallet) error {
	record := walletFromDomain(wallet)
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	return nil
}

type catalogRepository struct {
	db *gorm.DB
}

func (r *catalogRepository) CurrencyBySymbol(ctx context.Context, symbol string) (*models.Currency, error) {
	var record currencyRecord
	if err := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domainerrors.ErrCurrencyNotFound
		}
		return nil, fmt.Errorf("failed to get currency: %w", err)
	}
	return record.toDomain(), nil
}

func (r *catalogRepository) CurrencyByID(ctx context.Context, id string) (*models.Currency, error) {
	var record currencyRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domainerrors.ErrCurrencyNotFound
		}
		return nil, fmt.Errorf("failed to get currency: %w", err)
	}
	return record.toDomain(), nil
}

func (r *catalogRepository) TransactionTypeByTag(ctx context.Context, tag string) (*models.TransactionType, error) {
	var record transactionTypeRecord
	if err := r.db.WithContext(ctx).Where("tag = ?", tag).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domainerrors.ErrTransactionTypeNotFound
		}
		return nil, fmt.Errorf("failed to get transaction type: %w", err)
	}
	return record.toDomain(), nil
}
