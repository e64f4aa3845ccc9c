package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/chatcommerce-api/internal/application/inventory"
	"github.com/tu-usuario/chatcommerce-api/internal/application/orders"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ConfirmUC *orders.ConfirmUseCase
	ModifyUC  *orders.ModifyUseCase
	CancelUC  *orders.CancelUseCase
	GetOrder  *orders.GetOrderUseCase
	StockUC   *inventory.StockUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Orders (protegido)
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.ConfirmUC, deps.ModifyUC, deps.CancelUC, deps.GetOrder)
	ordersGroup.Post("/confirm", orderHandler.Confirm)
	ordersGroup.Post("/:id/modify", orderHandler.Modify)
	ordersGroup.Post("/:id/cancel", orderHandler.Cancel)
	ordersGroup.Get("/:id", orderHandler.Get)

	// Stock (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Post("/adjust", stockHandler.Adjust)
	stockGroup.Get("/:productID", stockHandler.Get)
}
