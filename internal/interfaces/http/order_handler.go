package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/chatcommerce-api/internal/application/dto"
	"github.com/tu-usuario/chatcommerce-api/internal/application/orders"
)

// OrderHandler maneja las peticiones HTTP de pedidos (protegido).
type OrderHandler struct {
	confirm *orders.ConfirmUseCase
	modify  *orders.ModifyUseCase
	cancel  *orders.CancelUseCase
	get     *orders.GetOrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(confirm *orders.ConfirmUseCase, modify *orders.ModifyUseCase, cancel *orders.CancelUseCase, get *orders.GetOrderUseCase) *OrderHandler {
	return &OrderHandler{confirm: confirm, modify: modify, cancel: cancel, get: get}
}

// Confirm godoc
// @Summary      Confirmar pedido desde el carrito de la conversación
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConfirmOrderRequest  true  "customer_id y cart (o session_id para leer el carrito de Redis)"
// @Success      201   {object}  dto.ConfirmOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/orders/confirm [post]
func (h *OrderHandler) Confirm(c *fiber.Ctx) error {
	workspaceID := GetWorkspaceID(c)
	userID := GetUserID(c)
	if workspaceID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ConfirmOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.confirm.Confirm(c.Context(), workspaceID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	status := fiber.StatusCreated
	if resp.Duplicate {
		// Replay idempotente: mismo pedido, sin escritura nueva.
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(resp)
}

// Modify godoc
// @Summary      Modificar una línea de un pedido no procesado
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "id del pedido"
// @Param        body  body  dto.ModifyOrderRequest  true  "action (add|remove|update_quantity), product_id, quantity"
// @Success      200   {object}  dto.ModifyOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/modify [post]
func (h *OrderHandler) Modify(c *fiber.Ctx) error {
	workspaceID := GetWorkspaceID(c)
	userID := GetUserID(c)
	if workspaceID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ModifyOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.modify.Modify(c.Context(), workspaceID, userID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// Cancel godoc
// @Summary      Cancelar un pedido no procesado y liberar su stock
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id del pedido"
// @Success      200  {object}  dto.CancelOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	workspaceID := GetWorkspaceID(c)
	userID := GetUserID(c)
	if workspaceID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.cancel.Cancel(c.Context(), workspaceID, userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// Get godoc
// @Summary      Consultar un pedido con líneas e historial
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	workspaceID := GetWorkspaceID(c)
	if workspaceID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.get.Get(c.Context(), workspaceID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}
