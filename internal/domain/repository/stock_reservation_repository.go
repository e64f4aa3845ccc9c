package repository

import "github.com/tu-usuario/chatcommerce-api/internal/domain/entity"

// StockReservationRepository puerto de persistencia para reservas de stock.
// GetActive devuelve nil (sin error) si no hay reserva activa para la clave.
type StockReservationRepository interface {
	Create(res *entity.StockReservation) error
	GetActive(orderID, productID, variantID string) (*entity.StockReservation, error)
	ListActiveByOrder(orderID string) ([]*entity.StockReservation, error)
	UpdateQuantity(id string, quantity int) error
	MarkReleased(id string) error
}
