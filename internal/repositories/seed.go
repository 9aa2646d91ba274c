package repositories

import (
	"context"
	"fmt"

	"aurum/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeedData holds the reference rows the engine reads but never writes:
// the currency and transaction-type catalog plus system wallets such as
// the gateway.
type SeedData struct {
	Currencies       []models.Currency
	TransactionTypes []models.TransactionType
	Wallets          []models.Wallet
}

// Seed inserts the reference rows that are missing. Existing rows are
// left untouched, so the seed command is safe to run repeatedly.
func Seed(ctx context.Context, db *gorm.DB, data SeedData) error {
	for _, c := range data.Currencies {
		record := currencyRecord{
			ID:     c.ID,
			Symbol: c.Symbol,
			Name:   c.Name,
			Active: c.Active,
		}
		if record.ID == "" {
			record.ID = uuid.NewString()
		}
		err := db.WithContext(ctx).
			Where("symbol = ?", c.Symbol).
			Attrs(record).
			FirstOrCreate(&currencyRecord{}).Error
		if err != nil {
			return fmt.Errorf("failed to seed currency %s: %w", c.Symbol, err)
		}
	}

	for _, t := range data.TransactionTypes {
		record := transactionTypeRecord{
			ID:           t.ID,
			Tag:          t.Tag,
			Participants: t.Participants,
			Active:       t.Active,
		}
		if record.ID == "" {
			record.ID = uuid.NewString()
		}
		err := db.WithContext(ctx).
			Where("tag = ?", t.Tag).
			Attrs(record).
			FirstOrCreate(&transactionTypeRecord{}).Error
		if err != nil {
			return fmt.Errorf("failed to seed transaction type %s: %w", t.Tag, err)
		}
	}

	for _, w := range data.Wallets {
		record := walletFromDomain(&w)
		if record.ID == "" {
			record.ID = uuid.NewString()
		}
		err := db.WithContext(ctx).
			Where("id = ?", record.ID).
			Attrs(*record).
			FirstOrCreate(&walletRecord{}).Error
		if err != nil {
			return fmt.Errorf("failed to seed wallet %s: %w", record.ID, err)
		}
	}

	return nil
}
