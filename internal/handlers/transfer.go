package handlers

import (
	"aurum/internal/models"
	"aurum/internal/services/transfer"
	"aurum/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// TransferHandler exposes the transfer creation endpoint.
type TransferHandler struct {
	service transfer.Service
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(service transfer.Service) *TransferHandler {
	return &TransferHandler{service: service}
}

// Create handles POST /transfers. The caller supplies the operation id;
// resubmitting the same body is safe.
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var req struct {
		OperationID         string                 `json:"operationId"`
		OwnerWalletID       string                 `json:"ownerWalletId"`
		BeneficiaryWalletID string                 `json:"beneficiaryWalletId"`
		Currency            string                 `json:"currency"`
		Amount              int64                  `json:"amount"`
		Metadata            map[string]interface{} `json:"metadata"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	res, err := h.service.Create(c.Context(), transfer.Request{
		OperationID:         req.OperationID,
		UserID:              claims.UserID,
		OwnerWalletID:       req.OwnerWalletID,
		BeneficiaryWalletID: req.BeneficiaryWalletID,
		CurrencySymbol:      req.Currency,
		Amount:              req.Amount,
		Metadata:            req.Metadata,
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	if res.Replayed {
		return response.Success(c, "transfer already settled", res)
	}
	return response.Success(c, "transfer settled", res)
}
