package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// LoadEnv loads variables from a .env file if present. Missing files are
// expected in production where real environment variables are used.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using system environment")
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetBoolEnv returns a bool environment variable or a default value.
func GetBoolEnv(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}

// Engine holds the settlement engine settings supplied at construction.
// All values are opaque ids/tags to the engine itself.
type Engine struct {
	// GatewayWalletID is the system wallet representing external
	// credit/debit flows.
	GatewayWalletID string
	// Transaction-type tags used to classify transfers.
	GatewayCreditTypeTag string
	GatewayDebitTypeTag  string
	P2PTypeTag           string
	// DefaultCurrencyTag is the symbol assumed when a request omits the
	// currency.
	DefaultCurrencyTag string
	// AllowRevertAccepted permits the ACCEPTED -> REVERTED transition
	// (late cancellation). Off by default.
	AllowRevertAccepted bool
}

// LoadEngine reads the engine settings from the environment.
func LoadEngine() Engine {
	return Engine{
		GatewayWalletID:      GetEnv("GATEWAY_WALLET_ID", ""),
		GatewayCreditTypeTag: GetEnv("GATEWAY_CREDIT_TYPE_TAG", "GATEWAY_CREDIT"),
		GatewayDebitTypeTag:  GetEnv("GATEWAY_DEBIT_TYPE_TAG", "GATEWAY_DEBIT"),
		P2PTypeTag:           GetEnv("P2P_TYPE_TAG", "P2P_TRANSFER"),
		DefaultCurrencyTag:   GetEnv("DEFAULT_CURRENCY_TAG", "BRL"),
		AllowRevertAccepted:  GetBoolEnv("ALLOW_REVERT_ACCEPTED", false),
	}
}
