package inventory

import (
	"github.com/google/uuid"

	"github.com/tu-usuario/chatcommerce-api/internal/domain"
	"github.com/tu-usuario/chatcommerce-api/internal/domain/entity"
	"github.com/tu-usuario/chatcommerce-api/internal/domain/repository"
)

// AddToReservation semántica find-or-create: si existe una reserva activa
// para (pedido, producto, variante) ajusta su cantidad en sitio; si no,
// crea una con vigencia de 24h. delta puede ser negativo para decrementar;
// el caller garantiza que el resultado no baja de cero (se valida igual).
// Si la cantidad resultante llega exactamente a cero la reserva se marca
// liberada.
func (l *Ledger) AddToReservation(
	resRepo repository.StockReservationRepository,
	workspaceID, orderID string,
	key entity.StockKey,
	delta int,
) (*entity.StockReservation, error) {
	if delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	res, err := resRepo.GetActive(orderID, key.ProductID, key.VariantID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		if delta < 0 {
			return nil, domain.ErrConflict
		}
		now := l.now()
		res = &entity.StockReservation{
			ID:          uuid.New().String(),
			WorkspaceID: workspaceID,
			OrderID:     orderID,
			ProductID:   key.ProductID,
			VariantID:   key.VariantID,
			Quantity:    delta,
			Status:      entity.ReservationStatusActive,
			ExpiresAt:   now.Add(entity.ReservationTTL),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := resRepo.Create(res); err != nil {
			return nil, err
		}
		return res, nil
	}

	newQty := res.Quantity + delta
	if newQty < 0 {
		return res, domain.ErrConflict
	}
	if newQty == 0 {
		if err := resRepo.MarkReleased(res.ID); err != nil {
			return res, err
		}
		res.Status = entity.ReservationStatusReleased
		res.Quantity = 0
		return res, nil
	}
	if err := resRepo.UpdateQuantity(res.ID, newQty); err != nil {
		return res, err
	}
	res.Quantity = newQty
	return res, nil
}

// ReleaseForOrder libera todas las reservas activas de un pedido: por cada
// una decrementa el contador apartado con un movimiento del tipo indicado y
// marca la reserva liberada. Es la primitiva de Cancel; llamada sobre un
// pedido sin reservas activas es un no-op, por eso cancelar dos veces nunca
// libera doble.
func (l *Ledger) ReleaseForOrder(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	resRepo repository.StockReservationRepository,
	workspaceID, orderID string,
	movementType string,
	ref entity.MovementRef,
	reason, actor string,
) error {
	reservations, err := resRepo.ListActiveByOrder(orderID)
	if err != nil {
		return err
	}
	for _, res := range reservations {
		key := entity.StockKey{WorkspaceID: workspaceID, ProductID: res.ProductID, VariantID: res.VariantID}
		if _, err := l.Release(stockRepo, movRepo, key, res.Quantity, movementType, ref, reason, actor); err != nil {
			return err
		}
		if err := resRepo.MarkReleased(res.ID); err != nil {
			return err
		}
	}
	return nil
}
