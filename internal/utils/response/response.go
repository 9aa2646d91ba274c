// Package response holds the JSON response helpers shared by every
// handler, including the mapping from domain error codes to HTTP status.
package response

import (
	"aurum/internal/errors"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"code":  code,
		"error": message,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, "BAD_REQUEST", message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
}

func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, "FORBIDDEN", message)
}

// DomainError maps a *errors.DomainError to its HTTP status. Unknown
// errors never leak details to the client.
func DomainError(c *fiber.Ctx, err error) error {
	de, ok := err.(*errors.DomainError)
	if !ok {
		return Error(c, fiber.StatusInternalServerError, "INTERNAL", "internal server error")
	}
	return Error(c, statusFor(de.Code), de.Code, de.Message)
}

func statusFor(code string) int {
	switch code {
	case "MISSING_DATA", "INVALID_DATA_FORMAT":
		return fiber.StatusBadRequest
	case "FORBIDDEN":
		return fiber.StatusForbidden
	case "OPERATION_NOT_FOUND", "WALLET_NOT_FOUND", "WALLET_ACCOUNT_NOT_FOUND",
		"CURRENCY_NOT_FOUND", "TRANSACTION_TYPE_NOT_FOUND":
		return fiber.StatusNotFound
	case "WALLET_NOT_ACTIVE", "CURRENCY_NOT_ACTIVE", "WALLET_CANNOT_BE_DELETED":
		return fiber.StatusConflict
	case "WALLET_ACCOUNT_HAS_BALANCE", "WALLET_ACCOUNT_HAS_PENDING_OPERATIONS":
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
