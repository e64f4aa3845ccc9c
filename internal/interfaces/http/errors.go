package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/chatcommerce-api/internal/application/dto"
	"github.com/tu-usuario/chatcommerce-api/internal/domain"
)

// writeError traduce errores de dominio a respuestas HTTP. Los faltantes de
// stock y las violaciones de política viajan con todo su detalle para que el
// agente conversacional pueda renegociar o escalar sin otra consulta.
func writeError(c *fiber.Ctx, err error) error {
	var shortErr *domain.StockShortfallError
	if errors.As(err, &shortErr) {
		resp := dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"}
		for _, l := range shortErr.Lines {
			resp.Shortfalls = append(resp.Shortfalls, dto.ShortfallLine{
				ProductID: l.ProductID,
				VariantID: l.VariantID,
				Name:      l.Name,
				Available: l.Available,
				Requested: l.Requested,
				Mode:      l.Mode,
			})
		}
		return c.Status(fiber.StatusConflict).JSON(resp)
	}

	var polErr *domain.PolicyViolationError
	if errors.As(err, &polErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "POLICY_VIOLATION",
			Message: polErr.Reason,
			Handoff: polErr.Handoff,
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrQuotaExceeded):
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "QUOTA_EXCEEDED", Message: "cuota mensual de pedidos excedida"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto con el estado actual; reintente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
