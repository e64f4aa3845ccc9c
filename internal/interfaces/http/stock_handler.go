package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/chatcommerce-api/internal/application/dto"
	"github.com/tu-usuario/chatcommerce-api/internal/application/inventory"
)

// StockHandler maneja las peticiones HTTP de stock (protegido).
type StockHandler struct {
	uc *inventory.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Adjust godoc
// @Summary      Ajuste manual de existencia (delta firmado)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, delta, reason; variant_id y location_id opcionales"
// @Success      200   {object}  dto.StockItemDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	workspaceID := GetWorkspaceID(c)
	userID := GetUserID(c)
	if workspaceID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.Adjust(c.Context(), workspaceID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(item)
}

// Get godoc
// @Summary      Consultar un renglón de stock con sus movimientos recientes
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productID    path   string  true   "producto"
// @Param        variant_id   query  string  false  "variante"
// @Param        location_id  query  string  false  "ubicación"
// @Param        limit        query  int     false  "movimientos por página (default 20)"
// @Param        offset       query  int     false  "desplazamiento"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{productID} [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	workspaceID := GetWorkspaceID(c)
	if workspaceID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	resp, err := h.uc.Get(c.Context(), workspaceID,
		c.Params("productID"), c.Query("variant_id"), c.Query("location_id"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}
