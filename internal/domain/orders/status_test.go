package orders_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/chatcommerce-api/internal/domain/orders"
)

// ──────────────────────────────────────────────────────────────────────────────
// Puerta de políticas: única fuente de verdad del invariante de pedido
// protegido. Modify y Cancel deben consultarla de forma idéntica.
// ──────────────────────────────────────────────────────────────────────────────

func TestCanMutate_EstadosModificables(t *testing.T) {
	modificables := []string{
		orders.StatusDraft,
		orders.StatusAwaitingAcceptance,
		orders.StatusPendingPayment,
		orders.StatusPaid,
	}
	for _, st := range modificables {
		d := orders.CanMutate(st)
		assert.True(t, d.Allowed, "el estado %s debe admitir mutación", st)
		assert.False(t, d.Handoff, "estado %s no debe pedir handoff", st)
		assert.Equal(t, orders.ReasonAllowed, d.Reason)
	}
}

func TestCanMutate_EstadosProcesadosExigenHandoff(t *testing.T) {
	procesados := []string{
		orders.StatusAccepted,
		orders.StatusProcessing,
		orders.StatusShipped,
		orders.StatusDelivered,
		orders.StatusInvoiced,
	}
	for _, st := range procesados {
		d := orders.CanMutate(st)
		assert.False(t, d.Allowed, "el estado %s no debe admitir mutación", st)
		assert.True(t, d.Handoff, "el estado %s debe escalar a un operador", st)
		assert.Equal(t, orders.ReasonProcessed, d.Reason)
	}
}

func TestCanMutate_Cancelado(t *testing.T) {
	d := orders.CanMutate(orders.StatusCancelled)
	assert.False(t, d.Allowed)
	assert.False(t, d.Handoff, "cancelado no es caso de operador, es no-op del caller")
	assert.Equal(t, orders.ReasonAlreadyCancelled, d.Reason)
}

func TestCanMutate_EstadoDesconocido(t *testing.T) {
	d := orders.CanMutate("limbo")
	assert.False(t, d.Allowed)
	assert.True(t, d.Handoff)
	assert.Equal(t, orders.ReasonUnknownStatus, d.Reason)
}

func TestCanTransition_CanceladoDesdePreAccepted(t *testing.T) {
	preAccepted := []string{
		orders.StatusDraft,
		orders.StatusAwaitingAcceptance,
		orders.StatusPendingPayment,
		orders.StatusPaid,
	}
	for _, st := range preAccepted {
		assert.True(t, orders.CanTransition(st, orders.StatusCancelled),
			"cancelled debe ser alcanzable desde %s", st)
	}
	// Pasada la frontera "procesado" ya no se cancela automáticamente.
	assert.False(t, orders.CanTransition(orders.StatusAccepted, orders.StatusCancelled))
	assert.False(t, orders.CanTransition(orders.StatusShipped, orders.StatusCancelled))
}

func TestCanTransition_FlujoFeliz(t *testing.T) {
	cadena := []string{
		orders.StatusDraft,
		orders.StatusAwaitingAcceptance,
		orders.StatusPendingPayment,
		orders.StatusPaid,
		orders.StatusAccepted,
		orders.StatusProcessing,
		orders.StatusShipped,
		orders.StatusDelivered,
		orders.StatusInvoiced,
	}
	for i := 0; i < len(cadena)-1; i++ {
		assert.True(t, orders.CanTransition(cadena[i], cadena[i+1]),
			"%s -> %s debe ser válido", cadena[i], cadena[i+1])
	}
	// Los terminales no tienen salida.
	assert.False(t, orders.CanTransition(orders.StatusInvoiced, orders.StatusDraft))
	assert.False(t, orders.CanTransition(orders.StatusCancelled, orders.StatusDraft))
}
