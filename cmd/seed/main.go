// Package main seeds the reference data the settlement engine reads:
// currencies, transaction types and the gateway wallet. Safe to run more
// than once.
package main

import (
	"context"

	"aurum/internal/config"
	"aurum/internal/models"
	"aurum/internal/repositories"

	"github.com/rs/zerolog/log"
)

func main() {
	config.LoadEnv()

	db, err := repositories.ConnectDB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get database instance")
	}
	defer sqlDB.Close()

	cfg := config.LoadEngine()
	data := catalog(cfg, config.GetEnv("GATEWAY_USER_ID", "system"))

	if err := repositories.Seed(context.Background(), db, data); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Msg("seed completed")
}

// catalog builds the reference data. The gateway classifications produce
// one-sided operations, so their participants masks carry only the side
// the operation records: gateway-credit debits the owner, gateway-debit
// credits the beneficiary.
func catalog(cfg config.Engine, gatewayUserID string) repositories.SeedData {
	data := repositories.SeedData{
		Currencies: []models.Currency{
			{Symbol: "BRL", Name: "Brazilian Real", Active: true},
			{Symbol: "USD", Name: "US Dollar", Active: true},
		},
		TransactionTypes: []models.TransactionType{
			{Tag: cfg.P2PTypeTag, Participants: models.ParticipantsBoth, Active: true},
			{Tag: cfg.GatewayCreditTypeTag, Participants: models.ParticipantsOwner, Active: true},
			{Tag: cfg.GatewayDebitTypeTag, Participants: models.ParticipantsBeneficiary, Active: true},
		},
	}
	if cfg.GatewayWalletID != "" {
		data.Wallets = []models.Wallet{{
			ID:     cfg.GatewayWalletID,
			UserID: gatewayUserID,
			Name:   "gateway",
			State:  models.WalletActive,
		}}
	}
	return data
}
