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

// maxNumberAttempts reintentos del consecutivo ante conflicto de unicidad.
// El candidato se deriva del último número conocido dentro de cada intento;
// no hay contador centralizado.
const maxNumberAttempts = 3

// ConfirmUseCase convierte el carrito de la sesión en un pedido confirmado:
// pre-chequeo rápido de disponibilidad fuera de la transacción, transacción
// serializable con revalidación por línea (todo o nada), consecutivo con
// reintento acotado, reservas + movimientos + historial + agregados de
// cliente en el mismo commit, y amarre de idempotencia al cierre.
type ConfirmUseCase struct {
	txRunner     TxRunner
	orderRepo    repository.OrderRepository
	stockRepo    repository.StockRepository
	customerRepo repository.CustomerRepository
	ledger       *inventory.Ledger
	idemStore    IdempotencyStore
	cartStore    CartStore
	planLimits   PlanLimits
	notifier     Notifier
	log          *logger.Logger
	now          func() time.Time
}

// NewConfirmUseCase construye el caso de uso. now inyectable para tests.
func NewConfirmUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	stockRepo repository.StockRepository,
	customerRepo repository.CustomerRepository,
	ledger *inventory.Ledger,
	idemStore IdempotencyStore,
	cartStore CartStore,
	planLimits PlanLimits,
	notifier Notifier,
	log *logger.Logger,
	now func() time.Time,
) *ConfirmUseCase {
	if now == nil {
		now = time.Now
	}
	return &ConfirmUseCase{
		txRunner:     txRunner,
		orderRepo:    orderRepo,
		stockRepo:    stockRepo,
		customerRepo: customerRepo,
		ledger:       ledger,
		idemStore:    idemStore,
		cartStore:    cartStore,
		planLimits:   planLimits,
		notifier:     notifier,
		log:          log,
		now:          now,
	}
}

// Confirm ejecuta la conversión carrito -> pedido.
func (uc *ConfirmUseCase) Confirm(ctx context.Context, workspaceID, userID string, in dto.ConfirmOrderRequest) (*dto.ConfirmOrderResponse, error) {
	if in.CustomerID == "" {
		return nil, domain.ErrInvalidInput
	}

	cart := in.Cart
	if len(cart.Items) == 0 && in.SessionID != "" {
		snap, err := uc.cartStore.Get(ctx, workspaceID, in.SessionID)
		if err != nil {
			return nil, err
		}
		if snap != nil {
			cart = *snap
		}
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range cart.Items {
		if it.ProductID == "" || it.Quantity <= 0 || it.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}
	// Líneas repetidas del mismo (producto, variante) se funden sumando
	// cantidades: una sola línea de pedido por cada reserva.
	cart.Items = mergeCartLines(cart.Items)

	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.WorkspaceID != workspaceID {
		return nil, domain.ErrForbidden
	}

	now := uc.now()

	// Replay idempotente: mismo carrito dentro de la ventana -> mismo pedido,
	// cero escrituras adicionales.
	idemKey := ConfirmKey(workspaceID, cart.Items, now)
	if prevID, err := uc.idemStore.Get(ctx, idemKey); err != nil {
		uc.log.Warn().Err(err).Msg("idempotencia: lectura falló, se continúa sin dedup")
	} else if prevID != "" {
		prev, err := uc.orderRepo.GetByID(prevID)
		if err == nil && prev != nil {
			return &dto.ConfirmOrderResponse{
				OrderID:     prev.ID,
				OrderNumber: prev.Number,
				Status:      prev.Status,
				Total:       prev.Total,
				Duplicate:   true,
				Message:     "pedido ya confirmado",
			}, nil
		}
	}

	// Cuota mensual del plan (mes calendario UTC), antes de abrir transacción.
	quota, err := uc.planLimits.MonthlyOrderQuota(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if quota > 0 {
		monthStart := time.Date(now.UTC().Year(), now.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
		count, err := uc.orderRepo.CountCreatedSince(workspaceID, monthStart)
		if err != nil {
			return nil, err
		}
		if count >= quota {
			return nil, domain.ErrQuotaExceeded
		}
	}

	// Pre-chequeo rápido de disponibilidad fuera de la transacción: falla
	// barata y con detalle completo antes de tocar la base.
	if err := uc.precheckAvailability(workspaceID, cart.Items); err != nil {
		return nil, err
	}

	order, err := uc.confirmTx(ctx, workspaceID, userID, customer.ID, cart, now)
	if err != nil {
		return nil, err
	}

	// Amarre de idempotencia al borde de la transacción: si el proceso cae
	// justo después del commit la clave puede no quedar escrita; ventana
	// aceptada y documentada, no garantía de exactly-once.
	if err := uc.idemStore.Set(ctx, idemKey, order.ID, IdempotencyTTL); err != nil {
		uc.log.Warn().Err(err).Str("order_id", order.ID).Msg("idempotencia: escritura falló")
	}
	if in.SessionID != "" {
		if err := uc.cartStore.Clear(ctx, workspaceID, in.SessionID); err != nil {
			uc.log.Warn().Err(err).Str("session_id", in.SessionID).Msg("carrito: limpieza falló")
		}
	}
	uc.notify(ctx, EventOrderConfirmed, order)

	uc.log.Info().
		Str("order_id", order.ID).
		Int64("order_number", order.Number).
		Str("workspace_id", workspaceID).
		Msg("pedido confirmado")

	return &dto.ConfirmOrderResponse{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Status:      order.Status,
		Total:       order.Total,
		Message:     "pedido confirmado",
	}, nil
}

// mergeCartLines normaliza el carrito: las apariciones repetidas de un mismo
// (producto, variante) se funden en la primera, conservando su precio.
func mergeCartLines(items []dto.CartItem) []dto.CartItem {
	merged := make([]dto.CartItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, it := range items {
		k := it.ProductID + "|" + it.VariantID
		if i, ok := index[k]; ok {
			merged[i].Quantity += it.Quantity
			continue
		}
		index[k] = len(merged)
		merged = append(merged, it)
	}
	return merged
}

// precheckAvailability valida disponible >= solicitado por línea con lecturas
// fuera de transacción. La validación vinculante se repite adentro.
func (uc *ConfirmUseCase) precheckAvailability(workspaceID string, items []dto.CartItem) error {
	var shortfalls []domain.ShortfallLine
	for _, it := range items {
		key := entity.StockKey{WorkspaceID: workspaceID, ProductID: it.ProductID, VariantID: it.VariantID}
		stock, err := uc.stockRepo.Get(key)
		if err != nil {
			return err
		}
		available := 0
		if stock != nil {
			available = stock.Available()
		}
		if available < it.Quantity {
			shortfalls = append(shortfalls, domain.ShortfallLine{
				ProductID: it.ProductID,
				VariantID: it.VariantID,
				Name:      it.Name,
				Available: available,
				Requested: it.Quantity,
				Mode:      domain.ShortfallModeAdd,
			})
		}
	}
	if len(shortfalls) > 0 {
		return &domain.StockShortfallError{Lines: shortfalls}
	}
	return nil
}

// confirmTx corre la transacción serializable, reintentando completa ante
// conflicto del consecutivo (el insert fallido envenena la transacción, así
// que el reintento reabre todo).
func (uc *ConfirmUseCase) confirmTx(ctx context.Context, workspaceID, userID, customerID string, cart dto.CartSnapshot, now time.Time) (*entity.Order, error) {
	var order *entity.Order
	var err error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		order, err = uc.confirmTxOnce(ctx, workspaceID, userID, customerID, cart, now, int64(attempt))
		if errors.Is(err, domain.ErrOrderNumberConflict) {
			uc.log.Debug().Int("attempt", attempt+1).Msg("consecutivo en conflicto, regenerando")
			continue
		}
		return order, err
	}
	// Agotados los reintentos se reporta genérico, no el conflicto interno.
	return nil, domain.ErrConflict
}

func (uc *ConfirmUseCase) confirmTxOnce(ctx context.Context, workspaceID, userID, customerID string, cart dto.CartSnapshot, now time.Time, numberOffset int64) (*entity.Order, error) {
	var out *entity.Order
	err := uc.txRunner.RunOrder(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		resRepo repository.StockReservationRepository,
		orderRepo repository.OrderRepository,
		customerRepo repository.CustomerRepository,
	) error {
		// Candidato de consecutivo derivado del último conocido dentro de la
		// misma transacción.
		last, err := orderRepo.LastNumber(workspaceID)
		if err != nil {
			return err
		}
		orderID := uuid.New().String()
		ref := entity.MovementRef{Type: entity.ReferenceTypeOrder, ID: orderID}

		// Revalidación vinculante por línea sobre la fila transaccional.
		// Cualquier faltante aborta la transacción completa: sin pedidos
		// parciales; se recorren todas las líneas para devolver el detalle
		// completo (el rollback descarta lo aplicado).
		var shortfalls []domain.ShortfallLine
		items := make([]*entity.OrderItem, 0, len(cart.Items))
		for _, line := range cart.Items {
			key := entity.StockKey{WorkspaceID: workspaceID, ProductID: line.ProductID, VariantID: line.VariantID}
			stock, err := uc.ledger.Reserve(stockRepo, movRepo, key, line.Quantity, ref, "confirmación de pedido", userID)
			if errors.Is(err, domain.ErrInsufficientStock) {
				available := 0
				if stock != nil {
					available = stock.Available()
				}
				shortfalls = append(shortfalls, domain.ShortfallLine{
					ProductID: line.ProductID,
					VariantID: line.VariantID,
					Name:      line.Name,
					Available: available,
					Requested: line.Quantity,
					Mode:      domain.ShortfallModeAdd,
				})
				continue
			}
			if err != nil {
				return err
			}
			if _, err := uc.ledger.AddToReservation(resRepo, workspaceID, orderID, key, line.Quantity); err != nil {
				return err
			}
			items = append(items, &entity.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   orderID,
				ProductID: line.ProductID,
				VariantID: line.VariantID,
				SKU:       line.SKU,
				Name:      line.Name,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				Total:     domorders.LineTotal(line.Quantity, line.UnitPrice),
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
		if len(shortfalls) > 0 {
			return &domain.StockShortfallError{Lines: shortfalls}
		}

		totals := domorders.RecomputeTotals(items, cart.Shipping, cart.Discount)
		order := &entity.Order{
			ID:              orderID,
			WorkspaceID:     workspaceID,
			CustomerID:      customerID,
			Number:          last + 1 + numberOffset,
			Status:          domorders.StatusAwaitingAcceptance,
			Subtotal:        totals.Subtotal,
			Shipping:        cart.Shipping,
			Discount:        cart.Discount,
			Total:           totals.Total,
			Notes:           cart.Notes,
			ShippingAddress: cart.ShippingAddress,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := orderRepo.Create(order); err != nil {
			return err
		}
		for _, item := range items {
			if err := orderRepo.CreateItem(item); err != nil {
				return err
			}
		}
		if err := orderRepo.CreateStatusHistory(&entity.OrderStatusHistory{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			ToStatus:  domorders.StatusAwaitingAcceptance,
			Note:      "pedido confirmado por el agente",
			CreatedAt: now,
		}); err != nil {
			return err
		}
		if err := customerRepo.ApplyOrderStats(customerID, 1, order.Total, &now); err != nil {
			return err
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// notify publica el evento best-effort; la falla solo se registra.
func (uc *ConfirmUseCase) notify(ctx context.Context, eventType string, order *entity.Order) {
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
