// Package handlers holds the fiber HTTP handlers of the settlement API.
// Handlers parse and authorize; every business decision lives in the
// services.
package handlers

import (
	"aurum/internal/repositories"
	"aurum/internal/services/operation"
	"aurum/internal/utils/response"
	"aurum/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// OperationHandler exposes the operation lifecycle endpoints.
type OperationHandler struct {
	service operation.Service
	store   repositories.Store
}

// NewOperationHandler creates a new OperationHandler.
func NewOperationHandler(service operation.Service, store repositories.Store) *OperationHandler {
	return &OperationHandler{service: service, store: store}
}

// Get handles GET /operations/:id.
func (h *OperationHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := validation.UUID(id); err != nil {
		return response.DomainError(c, err)
	}
	op, err := h.store.Operations().GetByID(c.Context(), id)
	if err != nil {
		return response.DomainError(c, err)
	}
	rows, err := h.store.Operations().TransactionsByOperation(c.Context(), op.ID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "operation", fiber.Map{
		"operation":    op,
		"transactions": rows,
	})
}

// Accept handles POST /operations/:id/accept.
func (h *OperationHandler) Accept(c *fiber.Ctx) error {
	res, err := h.service.Accept(c.Context(), c.Params("id"))
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "operation accepted", res)
}

// Revert handles POST /operations/:id/revert.
func (h *OperationHandler) Revert(c *fiber.Ctx) error {
	res, err := h.service.Revert(c.Context(), c.Params("id"))
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "operation reverted", res)
}
