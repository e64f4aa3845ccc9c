package orders

import (
	"context"
	"errors"
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

// ModifyUseCase muta una línea de un pedido no procesado (add, remove,
// update_quantity) en una sola transacción serializable. Agregar un producto
// que ya tiene línea se normaliza a un update_quantity aditivo; nunca se
// duplica la línea. Los totales se recalculan desde cero al final.
type ModifyUseCase struct {
	txRunner    TxRunner
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	ledger      *inventory.Ledger
	notifier    Notifier
	log         *logger.Logger
	now         func() time.Time
}

// NewModifyUseCase construye el caso de uso.
func NewModifyUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	ledger *inventory.Ledger,
	notifier Notifier,
	log *logger.Logger,
	now func() time.Time,
) *ModifyUseCase {
	if now == nil {
		now = time.Now
	}
	return &ModifyUseCase{
		txRunner:    txRunner,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		ledger:      ledger,
		notifier:    notifier,
		log:         log,
		now:         now,
	}
}

// Modify aplica la acción sobre la línea indicada.
func (uc *ModifyUseCase) Modify(ctx context.Context, workspaceID, userID, orderID string, in dto.ModifyOrderRequest) (*dto.ModifyOrderResponse, error) {
	if orderID == "" || in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	switch in.Action {
	case dto.ModifyActionAdd, dto.ModifyActionUpdateQuantity:
		if in.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	case dto.ModifyActionRemove:
		// Sin cantidad: se elimina la línea completa.
	default:
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

	// Puerta de políticas, pre-chequeo barato: pedidos procesados se escalan,
	// nunca se fuerzan. La evaluación vinculante se repite sobre la fila
	// transaccional.
	if d := domorders.CanMutate(order.Status); !d.Allowed {
		return nil, &domain.PolicyViolationError{Status: order.Status, Reason: d.Reason, Handoff: d.Handoff}
	}

	// Producto para líneas nuevas (solo lectura, fuera de la transacción).
	var product *entity.Product
	if in.Action == dto.ModifyActionAdd {
		product, err = uc.productRepo.GetByID(in.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.WorkspaceID != workspaceID {
			return nil, domain.ErrForbidden
		}
	}

	now := uc.now()
	var subtotal, total = order.Subtotal, order.Total

	err = uc.txRunner.RunOrder(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		resRepo repository.StockReservationRepository,
		orderRepo repository.OrderRepository,
		_ repository.CustomerRepository,
	) error {
		// Relectura vinculante del pedido: un flujo externo pudo avanzar el
		// estado entre el pre-chequeo y la apertura de la transacción.
		cur, err := orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if cur == nil {
			return domain.ErrNotFound
		}
		if d := domorders.CanMutate(cur.Status); !d.Allowed {
			return &domain.PolicyViolationError{Status: cur.Status, Reason: d.Reason, Handoff: d.Handoff}
		}
		order = cur

		items, err := orderRepo.ListItems(orderID)
		if err != nil {
			return err
		}
		var line *entity.OrderItem
		for _, it := range items {
			if it.ProductID == in.ProductID && it.VariantID == in.VariantID {
				line = it
				break
			}
		}

		key := entity.StockKey{WorkspaceID: workspaceID, ProductID: in.ProductID, VariantID: in.VariantID}
		ref := entity.MovementRef{Type: entity.ReferenceTypeOrder, ID: orderID}

		switch in.Action {
		case dto.ModifyActionAdd:
			if line != nil {
				// Normalizado a update_quantity aditivo.
				if err := uc.changeQuantity(stockRepo, movRepo, resRepo, orderRepo, key, ref, line, line.Quantity+in.Quantity, userID, now); err != nil {
					return err
				}
				break
			}
			stock, err := uc.ledger.Reserve(stockRepo, movRepo, key, in.Quantity, ref, "línea agregada", userID)
			if errors.Is(err, domain.ErrInsufficientStock) {
				return shortfall(in, stock, product.Name, in.Quantity, domain.ShortfallModeAdd)
			}
			if err != nil {
				return err
			}
			if _, err := uc.ledger.AddToReservation(resRepo, workspaceID, orderID, key, in.Quantity); err != nil {
				return err
			}
			if err := orderRepo.CreateItem(&entity.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   orderID,
				ProductID: product.ID,
				VariantID: in.VariantID,
				SKU:       product.SKU,
				Name:      product.Name,
				Quantity:  in.Quantity,
				UnitPrice: product.Price,
				Total:     domorders.LineTotal(in.Quantity, product.Price),
				CreatedAt: now,
				UpdatedAt: now,
			}); err != nil {
				return err
			}

		case dto.ModifyActionRemove:
			if line == nil {
				return domain.ErrNotFound
			}
			if _, err := uc.ledger.Release(stockRepo, movRepo, key, line.Quantity, entity.MovementTypeRelease, ref, "línea eliminada", userID); err != nil {
				return err
			}
			if _, err := uc.ledger.AddToReservation(resRepo, workspaceID, orderID, key, -line.Quantity); err != nil {
				return err
			}
			if err := orderRepo.DeleteItem(line.ID); err != nil {
				return err
			}

		case dto.ModifyActionUpdateQuantity:
			if line == nil {
				return domain.ErrNotFound
			}
			if err := uc.changeQuantity(stockRepo, movRepo, resRepo, orderRepo, key, ref, line, in.Quantity, userID, now); err != nil {
				return err
			}
		}

		// Totales desde cero sobre el estado ya mutado, nunca incrementales.
		fresh, err := orderRepo.ListItems(orderID)
		if err != nil {
			return err
		}
		totals := domorders.RecomputeTotals(fresh, cur.Shipping, cur.Discount)
		if err := orderRepo.UpdateTotals(orderID, totals.Subtotal, totals.Total); err != nil {
			return err
		}
		subtotal, total = totals.Subtotal, totals.Total
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Subtotal, order.Total = subtotal, total
	uc.notify(ctx, EventOrderModified, order)

	uc.log.Info().
		Str("order_id", orderID).
		Str("action", in.Action).
		Str("product_id", in.ProductID).
		Msg("pedido modificado")

	return &dto.ModifyOrderResponse{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Status:      order.Status,
		Subtotal:    subtotal,
		Total:       total,
		Message:     "pedido actualizado",
	}, nil
}

// changeQuantity lleva la línea a newQty: delta positivo aparta stock
// (validando disponible), delta negativo libera exactamente la diferencia.
func (uc *ModifyUseCase) changeQuantity(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	resRepo repository.StockReservationRepository,
	orderRepo repository.OrderRepository,
	key entity.StockKey,
	ref entity.MovementRef,
	line *entity.OrderItem,
	newQty int,
	userID string,
	now time.Time,
) error {
	delta := newQty - line.Quantity
	switch {
	case delta > 0:
		stock, err := uc.ledger.Reserve(stockRepo, movRepo, key, delta, ref, "cantidad aumentada", userID)
		if errors.Is(err, domain.ErrInsufficientStock) {
			// En modo "set" el disponible reportado es el máximo alcanzable
			// para la línea: lo ya reservado más lo disponible del renglón.
			available := line.Quantity
			if stock != nil {
				available += stock.Available()
			}
			return &domain.StockShortfallError{Lines: []domain.ShortfallLine{{
				ProductID: line.ProductID,
				VariantID: line.VariantID,
				Name:      line.Name,
				Available: available,
				Requested: newQty,
				Mode:      domain.ShortfallModeSet,
			}}}
		}
		if err != nil {
			return err
		}
	case delta < 0:
		if _, err := uc.ledger.Release(stockRepo, movRepo, key, -delta, entity.MovementTypeRelease, ref, "cantidad reducida", userID); err != nil {
			return err
		}
	default:
		return nil
	}
	if _, err := uc.ledger.AddToReservation(resRepo, key.WorkspaceID, line.OrderID, key, delta); err != nil {
		return err
	}
	return orderRepo.UpdateItemQuantity(line.ID, newQty, domorders.LineTotal(newQty, line.UnitPrice))
}

func shortfall(in dto.ModifyOrderRequest, stock *entity.StockItem, name string, requested int, mode string) error {
	available := 0
	if stock != nil {
		available = stock.Available()
	}
	return &domain.StockShortfallError{Lines: []domain.ShortfallLine{{
		ProductID: in.ProductID,
		VariantID: in.VariantID,
		Name:      name,
		Available: available,
		Requested: requested,
		Mode:      mode,
	}}}
}

func (uc *ModifyUseCase) notify(ctx context.Context, eventType string, order *entity.Order) {
	err := uc.notifier.Notify(ctx, OrderEvent{
		Type:        eventType,
		WorkspaceID: order.WorkspaceID,
		OrderID:     order.ID,
		Number:      order.Number,
		Status:      order.Status,
		Total:       order.Total,
		OccurredAt:  uc.now(),
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("order_id", order.ID).Str("event", eventType).Msg("notificación falló")
	}
}
