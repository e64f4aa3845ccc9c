package orders_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/chatcommerce-api/internal/application/dto"
	"github.com/tu-usuario/chatcommerce-api/internal/application/inventory"
	"github.com/tu-usuario/chatcommerce-api/internal/application/orders"
	"github.com/tu-usuario/chatcommerce-api/internal/domain"
	"github.com/tu-usuario/chatcommerce-api/internal/domain/entity"
	domorders "github.com/tu-usuario/chatcommerce-api/internal/domain/orders"
)

// ──────────────────────────────────────────────────────────────────────────────
// Arnés de Modify: un pedido confirmado con una línea de prod-a x10 ya
// apartada (quantity=10, reserved=10).
// ──────────────────────────────────────────────────────────────────────────────

type modifyEnv struct {
	store    *memStore
	notifier *fakeNotifier
	uc       *orders.ModifyUseCase
}

func newModifyEnv(status string) *modifyEnv {
	store := newMemStore()
	now := testNow()

	store.customers[custID] = &entity.Customer{ID: custID, WorkspaceID: wsID, OrderCount: 1, TotalSpent: decimal.NewFromInt(204000)}
	store.orders["ord-1"] = &entity.Order{
		ID: "ord-1", WorkspaceID: wsID, CustomerID: custID, Number: 1, Status: status,
		Subtotal: decimal.NewFromInt(200000),
		Shipping: decimal.NewFromInt(5000),
		Discount: decimal.NewFromInt(1000),
		Total:    decimal.NewFromInt(204000),
		CreatedAt: now, UpdatedAt: now,
	}
	store.items["itm-a"] = &entity.OrderItem{
		ID: "itm-a", OrderID: "ord-1", ProductID: "prod-a", SKU: "SKU-A", Name: "Café 500g",
		Quantity: 10, UnitPrice: decimal.NewFromInt(20000), Total: decimal.NewFromInt(200000),
	}
	store.stock[entity.StockKey{WorkspaceID: wsID, ProductID: "prod-a"}] = &entity.StockItem{
		ID: "stk-prod-a", WorkspaceID: wsID, ProductID: "prod-a", Quantity: 10, Reserved: 10,
	}
	store.reservations["res-1"] = &entity.StockReservation{
		ID: "res-1", WorkspaceID: wsID, OrderID: "ord-1", ProductID: "prod-a",
		Quantity: 10, Status: entity.ReservationStatusActive,
		ExpiresAt: now.Add(entity.ReservationTTL),
	}
	store.products["prod-b"] = &entity.Product{
		ID: "prod-b", WorkspaceID: wsID, SKU: "SKU-B", Name: "Té verde",
		Price: decimal.NewFromInt(8000), Active: true,
	}
	store.stock[entity.StockKey{WorkspaceID: wsID, ProductID: "prod-b"}] = &entity.StockItem{
		ID: "stk-prod-b", WorkspaceID: wsID, ProductID: "prod-b", Quantity: 3,
	}

	env := &modifyEnv{store: store, notifier: &fakeNotifier{}}
	env.uc = orders.NewModifyUseCase(
		&memTxRunner{s: store},
		orderRepoView{store},
		productRepoView{store},
		inventory.NewLedger(testNow),
		env.notifier,
		testLogger(),
		testNow,
	)
	return env
}

func (e *modifyEnv) stockA() *entity.StockItem {
	return e.store.stock[entity.StockKey{WorkspaceID: wsID, ProductID: "prod-a"}]
}

// ──────────────────────────────────────────────────────────────────────────────
// update_quantity
// ──────────────────────────────────────────────────────────────────────────────

// Escenario base: bajar la línea de 10 a 5 libera exactamente 5 y recalcula
// los totales desde cero.
func TestModify_BajarCantidadLiberaLaDiferencia(t *testing.T) {
	env := newModifyEnv(domorders.StatusAwaitingAcceptance)

	resp, err := env.uc.Modify(context.Background(), wsID, agent, "ord-1", dto.ModifyOrderRequest{
		Action: dto.ModifyActionUpdateQuantity, ProductID: "prod-a", Quantity: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, env.stockA().Reserved)
	assert.Equal(t, 5, env.store.items["itm-a"].Quantity)
	assert.Equal(t, 5, env.store.reservations["res-1"].Quantity)

	// 5 x 20000 + 5000 - 1000.
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(100000)))
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(104000)))
	assert.True(t, env.store.orders["ord-1"].Total.Equal(decimal.NewFromInt(104000)))

	require.Len(t, env.store.movements, 1)
	assert.Equal(t, entity.MovementTypeRelease, env.store.movements[0].Type)
	assert.Equal(t, 5, env.store.movements[0].Delta)

	require.Len(t, env.notifier.events, 1)
	assert.Equal(t, orders.EventOrderModified, env.notifier.events[0].Type)
}

func TestModify_SubirCantidadMasAllaDelDisponibleFalla(t *testing.T) {
	env := newModifyEnv(domorders.StatusAwaitingAcceptance)

	_, err := env.uc.Modify(context.Background(), wsID, agent, "ord-1", dto.ModifyOrderRequest{
		Action: dto.ModifyActionUpdateQuantity, ProductID: "prod-a", Quantity: 12,
	})

	var shortErr *domain.StockShortfallError
	require.ErrorAs(t, err, &shortErr)
	require.Len(t, shortErr.Lines, 1)
	assert.Equal(t, domain.ShortfallModeSet, shortErr.Lines[0].Mode)
	assert.Equal(t, 12, shortErr.Lines[0].Requested)
	assert.Equal(t, 10, shortErr.Lines[0].Available, "máximo alcanzable: reservado + disponible")

	// reserved queda intacto y la línea no cambia.
	assert.Equal(t, 10, env.stockA().Reserved)
	assert.Equal(t, 10, env.store.items["itm-a"].Quantity)
	assert.Empty(t, env.store.movements)
}

func TestModify_SubirCantidadConDisponibleReservaElDelta(t *testing.T) {
	env := newModifyEnv(domorders.StatusAwaitingAcceptance)
	env.stockA().Quantity = 15 // llegaron 5 unidades más

	_, err := env.uc.Modify(context.Background(), wsID, agent, "ord-1", dto.ModifyOrderRequest{
		Action: dto.ModifyActionUpdateQuantity, ProductID: "prod-a", Quantity: 12,
	})
	require.NoError(t, err)

	assert.Equal(t, 12, env.stockA().Reserved)
	assert.Equal(t, 12, env.store.reservations["res-1"].Quantity)
	require.Len(t, env.store.movements, 1)
	assert.Equal(t, entity.MovementTypeReservation, env.store.movements[0].Type)
	assert.Equal(t, -2, env.store.movements[0].Delta)
}

// ──────────────────────────────────────────────────────────────────────────────
// add / remove
// ──────────────────────────────────────────────────────────────────────────────

func TestModify_AgregarLineaNueva(t *testing.T) {
	env := newModifyEnv(domorders.StatusAwaitingAcceptance)

	resp, err := env.uc.Modify(context.Background(), wsID, agent, "ord-1", dto.ModifyOrderRequest{
		Action: dto.ModifyActionAdd, ProductID: "prod-b", Quantity: 2,
	})
	require.NoError(t, err)

	stockB := env.store.stock[entity.StockKey{WorkspaceID: wsID, ProductID: "prod-b"}]
	assert.Equal(t, 2, stockB.Reserved)

	items, _ := orderRepoView{env.store}.ListItems("ord-1")
	assert.Len(t, items, 2)

	// 200000 + 2 x 8000 + 5000 - 1000.
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(220000)))
}

// Agregar un producto que ya tiene línea jamás duplica: se normaliza a un
// update_quantity aditivo.
func TestModify_AgregarProductoExistenteSeNormaliza(t *testing.T) {
	env := newModifyEnv(domorders.StatusAwaitingAcceptance)
	env.stockA().Quantity = 20

	_, err := env.uc.Modify(context.Background(), wsID, agent, "ord-1", dto.ModifyOrderRequest{
		Action: dto.ModifyActionAdd, ProductID: "prod-a", Quantity: 3,
	})
	require.NoError(t, err)

	items, _ := orderRepoView{env.store}.ListItems("ord-1")
	require.Len(t, items, 1, "nunca una línea duplicada")
	assert.Equal(t, 13, items[0].Quantity)
	assert.Equal(t, 13, env.stockA().Reserved)
	assert.Equal(t, 13, env.store.reservations["res-1"].Quantity)
}

func TestModify_EliminarLineaLiberaTodo(t *testing.T) {
	env := newModifyEnv(domorders.StatusAwaitingAcceptance)

	resp, err := env.uc.Modify(context.Background(), wsID, agent, "ord-1", dto.ModifyOrderRequest{
		Action: dto.ModifyActionRemove, ProductID: "prod-a",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, env.stockA().Reserved)
	assert.Equal(t, entity.ReservationStatusReleased, env.store.reservations["res-1"].Status)

	items, _ := orderRepoView{env.store}.ListItems("ord-1")
	assert.Empty(t, items)
	assert.True(t, resp.Subtotal.IsZero())
	// Sin líneas: total = 0 + envío - descuento.
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(4000)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Puerta de políticas
// ──────────────────────────────────────────────────────────────────────────────

func TestModify_PedidoProcesadoExigeHandoffYNoTocaNada(t *testing.T) {
	estados := []string{
		domorders.StatusAccepted,
		domorders.StatusProcessing,
		domorders.StatusShipped,
		domorders.StatusDelivered,
		domorders.StatusInvoiced,
	}
	for _, st := range estados {
		env := newModifyEnv(st)
		_, err := env.uc.Modify(context.Background(), wsID, agent, "ord-1", dto.ModifyOrderRequest{
			Action: dto.ModifyActionUpdateQuantity, ProductID: "prod-a", Quantity: 5,
		})

		var polErr *domain.PolicyViolationError
		require.ErrorAs(t, err, &polErr, "estado %s", st)
		assert.True(t, polErr.Handoff, "estado %s debe escalar a operador", st)

		assert.Equal(t, 10, env.stockA().Reserved, "estado %s: stock intacto", st)
		assert.Equal(t, 10, env.store.items["itm-a"].Quantity, "estado %s: línea intacta", st)
		assert.Empty(t, env.store.movements)
	}
}

// staleOrderRepo sirve una foto vieja del pedido en las lecturas de pool,
// emulando un escritor externo que avanzó el estado; la transacción sigue
// leyendo la verdad del store.
type staleOrderRepo struct {
	orderRepoView
	stale *entity.Order
}

func (r staleOrderRepo) GetByID(id string) (*entity.Order, error) {
	if id == r.stale.ID {
		cp := *r.stale
		return &cp, nil
	}
	return r.orderRepoView.GetByID(id)
}

// Carrera con un flujo externo: el pedido se despacha entre la lectura previa
// y la apertura de la transacción. La relectura dentro de la transacción debe
// rechazar la mutación sin liberar nada.
func TestModify_EstadoAvanzaEntreLecturaYTransaccion(t *testing.T) {
	env := newModifyEnv(domorders.StatusAwaitingAcceptance)
	stale := *env.store.orders["ord-1"] // foto vieja: aún mutable
	env.store.orders["ord-1"].Status = domorders.StatusShipped

	uc := orders.NewModifyUseCase(
		&memTxRunner{s: env.store},
		staleOrderRepo{orderRepoView{env.store}, &stale},
		productRepoView{env.store},
		inventory.NewLedger(testNow),
		env.notifier,
		testLogger(),
		testNow,
	)
	_, err := uc.Modify(context.Background(), wsID, agent, "ord-1", dto.ModifyOrderRequest{
		Action: dto.ModifyActionUpdateQuantity, ProductID: "prod-a", Quantity: 5,
	})

	var polErr *domain.PolicyViolationError
	require.ErrorAs(t, err, &polErr)
	assert.True(t, polErr.Handoff)

	assert.Equal(t, 10, env.stockA().Reserved, "nada liberado sobre un pedido despachado")
	assert.Equal(t, 10, env.store.items["itm-a"].Quantity)
	assert.Empty(t, env.store.movements)
	assert.Empty(t, env.notifier.events)
}

func TestModify_PedidoCanceladoNoSeModifica(t *testing.T) {
	env := newModifyEnv(domorders.StatusCancelled)
	_, err := env.uc.Modify(context.Background(), wsID, agent, "ord-1", dto.ModifyOrderRequest{
		Action: dto.ModifyActionUpdateQuantity, ProductID: "prod-a", Quantity: 5,
	})

	var polErr *domain.PolicyViolationError
	require.ErrorAs(t, err, &polErr)
	assert.False(t, polErr.Handoff)
	assert.Equal(t, domorders.ReasonAlreadyCancelled, polErr.Reason)
}

func TestModify_ValidacionesPrevias(t *testing.T) {
	env := newModifyEnv(domorders.StatusAwaitingAcceptance)

	_, err := env.uc.Modify(context.Background(), wsID, agent, "ord-1", dto.ModifyOrderRequest{
		Action: "reemplazar", ProductID: "prod-a", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "acción desconocida")

	_, err = env.uc.Modify(context.Background(), wsID, agent, "ord-1", dto.ModifyOrderRequest{
		Action: dto.ModifyActionUpdateQuantity, ProductID: "prod-a", Quantity: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero: usar remove")

	_, err = env.uc.Modify(context.Background(), wsID, agent, "no-existe", dto.ModifyOrderRequest{
		Action: dto.ModifyActionRemove, ProductID: "prod-a",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.uc.Modify(context.Background(), "ws-2", agent, "ord-1", dto.ModifyOrderRequest{
		Action: dto.ModifyActionRemove, ProductID: "prod-a",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
