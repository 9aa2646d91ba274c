package handlers

import (
	"aurum/internal/models"
	"aurum/internal/repositories"
	"aurum/internal/services/wallet"
	"aurum/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// WalletHandler exposes wallet read and retirement endpoints.
type WalletHandler struct {
	service wallet.Service
	store   repositories.Store
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(service wallet.Service, store repositories.Store) *WalletHandler {
	return &WalletHandler{service: service, store: store}
}

// Get handles GET /wallets/:id and returns the wallet with its accounts.
func (h *WalletHandler) Get(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	w, err := h.store.Wallets().GetByIDAndUser(c.Context(), c.Params("id"), claims.UserID)
	if err != nil {
		return response.DomainError(c, err)
	}
	accounts, err := h.store.WalletAccounts().ListByWallet(c.Context(), w.ID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "wallet", fiber.Map{
		"wallet":   w,
		"accounts": accounts,
	})
}

// Deactivate handles DELETE /wallets/:id. An optional backupWalletId in
// the body receives any remaining funds.
func (h *WalletHandler) Deactivate(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var req struct {
		BackupWalletID string `json:"backupWalletId"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "invalid request body")
		}
	}

	res, err := h.service.Deactivate(c.Context(), c.Params("id"), claims.UserID, req.BackupWalletID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "wallet deactivated", res)
}
