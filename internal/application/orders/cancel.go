package orders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/chatcommerce-api/internal/application/dto"
	"github.com/tu-usuario/chatcommerce-api/internal/application/inventory"
	"github.com/tu-usuario/chatcommerce-api/internal/domain"
	"github.com/tu-usuario/chatcommerce-api/internal/domain/entity"
	domorders "github.com/tu-usuario/chatcommerce-api/internal/domain/orders"
	"github.com/tu-usuario/chatcommerce-api/internal/domain/repository"
	"github.com/tu-usuario/chatcommerce-api/pkg/logger"
)

// CancelUseCase cancela un pedido no procesado: marca cancelled, libera cada
// reserva activa con su movimiento de reverso y revierte los agregados del
// cliente, todo en una transacción serializable. Cancelar dos veces es un
// no-op exitoso: nunca se libera stock doble.
type CancelUseCase struct {
	txRunner  TxRunner
	orderRepo repository.OrderRepository
	notifier  Notifier
	ledger    *inventory.Ledger
	log       *logger.Logger
	now       func() time.Time
}

// NewCancelUseCase construye el caso de uso.
func NewCancelUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	ledger *inventory.Ledger,
	notifier Notifier,
	log *logger.Logger,
	now func() time.Time,
) *CancelUseCase {
	if now == nil {
		now = time.Now
	}
	return &CancelUseCase{
		txRunner:  txRunner,
		orderRepo: orderRepo,
		ledger:    ledger,
		notifier:  notifier,
		log:       log,
		now:       now,
	}
}

// Cancel ejecuta la cancelación.
func (uc *CancelUseCase) Cancel(ctx context.Context, workspaceID, userID, orderID string) (*dto.CancelOrderResponse, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.WorkspaceID != workspaceID {
		return nil, domain.ErrForbidden
	}

	// Pre-chequeos baratos sobre la lectura de pool; la evaluación vinculante
	// se repite sobre la fila transaccional.
	if order.Status == domorders.StatusCancelled {
		return &dto.CancelOrderResponse{
			OrderID:          order.ID,
			OrderNumber:      order.Number,
			Status:           order.Status,
			AlreadyCancelled: true,
			Message:          "el pedido ya estaba cancelado",
		}, nil
	}
	if d := domorders.CanMutate(order.Status); !d.Allowed {
		return nil, &domain.PolicyViolationError{Status: order.Status, Reason: d.Reason, Handoff: d.Handoff}
	}

	now := uc.now()
	var alreadyCancelled bool
	err = uc.txRunner.RunOrder(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		resRepo repository.StockReservationRepository,
		orderRepo repository.OrderRepository,
		customerRepo repository.CustomerRepository,
	) error {
		// Relectura vinculante: un flujo externo pudo avanzar el estado
		// entre el pre-chequeo y la apertura de la transacción.
		cur, err := orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if cur == nil {
			return domain.ErrNotFound
		}
		if cur.Status == domorders.StatusCancelled {
			alreadyCancelled = true
			return nil
		}
		if d := domorders.CanMutate(cur.Status); !d.Allowed {
			return &domain.PolicyViolationError{Status: cur.Status, Reason: d.Reason, Handoff: d.Handoff}
		}
		if !domorders.CanTransition(cur.Status, domorders.StatusCancelled) {
			return domain.ErrConflict
		}
		order = cur

		if err := orderRepo.UpdateStatus(orderID, domorders.StatusCancelled); err != nil {
			return err
		}

		// Reverso de cada reserva activa: liberar contador + movimiento
		// "reversal" + marcar la reserva liberada.
		ref := entity.MovementRef{Type: entity.ReferenceTypeOrder, ID: orderID}
		if err := uc.ledger.ReleaseForOrder(stockRepo, movRepo, resRepo, workspaceID, orderID,
			entity.MovementTypeReversal, ref, "cancelación de pedido", userID); err != nil {
			return err
		}

		if err := orderRepo.CreateStatusHistory(&entity.OrderStatusHistory{
			ID:         uuid.New().String(),
			OrderID:    orderID,
			FromStatus: cur.Status,
			ToStatus:   domorders.StatusCancelled,
			Note:       "cancelado por el agente",
			CreatedAt:  now,
		}); err != nil {
			return err
		}

		// Reverso de los agregados que Confirm aplicó, sobre el total vigente.
		return customerRepo.ApplyOrderStats(cur.CustomerID, -1, cur.Total.Neg(), nil)
	})
	if err != nil {
		return nil, err
	}

	if alreadyCancelled {
		return &dto.CancelOrderResponse{
			OrderID:          order.ID,
			OrderNumber:      order.Number,
			Status:           domorders.StatusCancelled,
			AlreadyCancelled: true,
			Message:          "el pedido ya estaba cancelado",
		}, nil
	}

	order.Status = domorders.StatusCancelled
	uc.notifyCancelled(ctx, order)

	uc.log.Info().
		Str("order_id", orderID).
		Int64("order_number", order.Number).
		Msg("pedido cancelado")

	return &dto.CancelOrderResponse{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Status:      domorders.StatusCancelled,
		Message:     "pedido cancelado y stock liberado",
	}, nil
}

func (uc *CancelUseCase) notifyCancelled(ctx context.Context, order *entity.Order) {
	err := uc.notifier.Notify(ctx, OrderEvent{
		Type:        EventOrderCancelled,
		WorkspaceID: order.WorkspaceID,
		OrderID:     order.ID,
		Number:      order.Number,
		Status:      order.Status,
		Total:       order.Total,
		OccurredAt:  uc.now(),
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("order_id", order.ID).Msg("notificación de cancelación falló")
	}
}
