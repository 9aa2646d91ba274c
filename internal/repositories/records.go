package repositories

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"aurum/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Persistence records. All gorm mapping lives here; the domain structs in
// internal/models never see a database tag. Conversions between the two
// shapes are the toDomain/fromDomain helpers below.

// jsonMap stores operation metadata as jsonb.
type jsonMap map[string]interface{}

func (j jsonMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *jsonMap) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

type operationRecord struct {
	ID                         string `gorm:"primarykey"`
	State                      string `gorm:"not null;index"`
	Value                      int64  `gorm:"not null"`
	CurrencyID                 string `gorm:"not null"`
	TransactionTypeID          string `gorm:"not null"`
	OwnerID                    string
	OwnerWalletAccountID       string `gorm:"index"`
	BeneficiaryID              string
	BeneficiaryWalletAccountID string  `gorm:"index"`
	Metadata                   jsonMap `gorm:"type:jsonb"`
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

func (operationRecord) TableName() string { return "operations" }

type walletAccountRecord struct {
	ID            string `gorm:"primarykey"`
	WalletID      string `gorm:"not null;index:idx_wallet_currency,unique"`
	CurrencyID    string `gorm:"not null;index:idx_wallet_currency,unique"`
	Balance       int64  `gorm:"not null;default:0"`
	PendingAmount int64  `gorm:"not null;default:0"`
	State         string `gorm:"not null;default:'ACTIVE'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (walletAccountRecord) TableName() string { return "wallet_accounts" }

func (r *walletAccountRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type walletAccountTransactionRecord struct {
	ID              string `gorm:"primarykey"`
	OperationID     string `gorm:"not null;index"`
	WalletAccountID string `gorm:"not null;index"`
	Type            string `gorm:"not null"`
	Value           int64  `gorm:"not null"`
	PreviousBalance int64  `gorm:"not null"`
	UpdatedBalance  int64  `gorm:"not null"`
	CreatedAt       time.Time
}

func (walletAccountTransactionRecord) TableName() string { return "wallet_account_transactions" }

func (r *walletAccountTransactionRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type walletRecord struct {
	ID        string `gorm:"primarykey"`
	UserID    string `gorm:"not null;index"`
	Name      string
	Default   bool   `gorm:"not null;default:false"`
	State     string `gorm:"not null;default:'ACTIVE'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (walletRecord) TableName() string { return "wallets" }

type currencyRecord struct {
	ID     string `gorm:"primarykey"`
	Symbol string `gorm:"uniqueIndex;not null"`
	Name   string
	Active bool `gorm:"not null;default:true"`
}

func (currencyRecord) TableName() string { return "currencies" }

type transactionTypeRecord struct {
	ID           string `gorm:"primarykey"`
	Tag          string `gorm:"uniqueIndex;not null"`
	Participants string `gorm:"not null"`
	Active       bool   `gorm:"not null;default:true"`
}

func (transactionTypeRecord) TableName() string { return "transaction_types" }

func (r *operationRecord) toDomain() *models.Operation {
	return &models.Operation{
		ID:                         r.ID,
		State:                      models.OperationState(r.State),
		Value:                      r.Value,
		CurrencyID:                 r.CurrencyID,
		TransactionTypeID:          r.TransactionTypeID,
		OwnerID:                    r.OwnerID,
		OwnerWalletAccountID:       r.OwnerWalletAccountID,
		BeneficiaryID:              r.BeneficiaryID,
		BeneficiaryWalletAccountID: r.BeneficiaryWalletAccountID,
		Metadata:                   r.Metadata,
		CreatedAt:                  r.CreatedAt,
		UpdatedAt:                  r.UpdatedAt,
	}
}

func operationFromDomain(op *models.Operation) *operationRecord {
	return &operationRecord{
		ID:                         op.ID,
		State:                      string(op.State),
		Value:                      op.Value,
		CurrencyID:                 op.CurrencyID,
		TransactionTypeID:          op.TransactionTypeID,
		OwnerID:                    op.OwnerID,
		OwnerWalletAccountID:       op.OwnerWalletAccountID,
		BeneficiaryID:              op.BeneficiaryID,
		BeneficiaryWalletAccountID: op.BeneficiaryWalletAccountID,
		Metadata:                   op.Metadata,
		CreatedAt:                  op.CreatedAt,
		UpdatedAt:                  op.UpdatedAt,
	}
}

func (r *walletAccountRecord) toDomain() *models.WalletAccount {
	return &models.WalletAccount{
		ID:            r.ID,
		WalletID:      r.WalletID,
		CurrencyID:    r.CurrencyID,
		Balance:       r.Balance,
		PendingAmount: r.PendingAmount,
		State:         models.WalletAccountState(r.State),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func walletAccountFromDomain(acc *models.WalletAccount) *walletAccountRecord {
	return &walletAccountRecord{
		ID:            acc.ID,
		WalletID:      acc.WalletID,
		CurrencyID:    acc.CurrencyID,
		Balance:       acc.Balance,
		PendingAmount: acc.PendingAmount,
		State:         string(acc.State),
		CreatedAt:     acc.CreatedAt,
		UpdatedAt:     acc.UpdatedAt,
	}
}

func (r *walletAccountTransactionRecord) toDomain() models.WalletAccountTransaction {
	return models.WalletAccountTransaction{
		ID:              r.ID,
		OperationID:     r.OperationID,
		WalletAccountID: r.WalletAccountID,
		Type:            r.Type,
		Value:           r.Value,
		PreviousBalance: r.PreviousBalance,
		UpdatedBalance:  r.UpdatedBalance,
		CreatedAt:       r.CreatedAt,
	}
}

func transactionFromDomain(txn *models.WalletAccountTransaction) *walletAccountTransactionRecord {
	return &walletAccountTransactionRecord{
		ID:              txn.ID,
		OperationID:     txn.OperationID,
		WalletAccountID: txn.WalletAccountID,
		Type:            txn.Type,
		Value:           txn.Value,
		PreviousBalance: txn.PreviousBalance,
		UpdatedBalance:  txn.UpdatedBalance,
		CreatedAt:       txn.CreatedAt,
	}
}

func (r *walletRecord) toDomain() *models.Wallet {
	return &models.Wallet{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		Default:   r.Default,
		State:     models.WalletState(r.State),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func walletFromDomain(w *models.Wallet) *walletRecord {
	return &walletRecord{
		ID:        w.ID,
		UserID:    w.UserID,
		Name:      w.Name,
		Default:   w.Default,
		State:     string(w.State),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func (r *currencyRecord) toDomain() *models.Currency {
	return &models.Currency{
		ID:     r.ID,
		Symbol: r.Symbol,
		Name:   r.Name,
		Active: r.Active,
	}
}

func (r *transactionTypeRecord) toDomain() *models.TransactionType {
	return &models.TransactionType{
		ID:           r.ID,
		Tag:          r.Tag,
		Participants: r.Participants,
		Active:       r.Active,
	}
}
