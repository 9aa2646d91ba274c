// Package routes defines the API routing configuration. It builds the
// services from their dependencies and binds every endpoint to its
// handler and permission.
package routes

import (
	"aurum/internal/config"
	"aurum/internal/events"
	"aurum/internal/handlers"
	"aurum/internal/metrics"
	"aurum/internal/middleware"
	"aurum/internal/models"
	"aurum/internal/repositories"
	"aurum/internal/services/operation"
	"aurum/internal/services/transfer"
	"aurum/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes wires the services and registers all application routes.
func SetupRoutes(app *fiber.App, store repositories.Store, publisher events.Publisher, collector metrics.Collector, cfg config.Engine) {
	operationService := operation.NewService(store, publisher, collector, operation.Policy{
		AllowRevertAccepted: cfg.AllowRevertAccepted,
	})
	transferService := transfer.NewService(store, publisher, collector, cfg)
	walletService := wallet.NewService(store, publisher, collector, cfg)

	operationHandler := handlers.NewOperationHandler(operationService, store)
	transferHandler := handlers.NewTransferHandler(transferService)
	walletHandler := handlers.NewWalletHandler(walletService, store)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api", middleware.Auth)

	operations := api.Group("/operations")
	operations.Get("/:id", operationHandler.Get)
	operations.Post("/:id/accept", middleware.HasPermission(models.PermissionOperationAccept), operationHandler.Accept)
	operations.Post("/:id/revert", middleware.HasPermission(models.PermissionOperationRevert), operationHandler.Revert)

	api.Post("/transfers", middleware.HasPermission(models.PermissionTransferWrite), transferHandler.Create)

	wallets := api.Group("/wallets")
	wallets.Get("/:id", walletHandler.Get)
	wallets.Delete("/:id", middleware.HasPermission(models.PermissionWalletDelete), walletHandler.Deactivate)
}
