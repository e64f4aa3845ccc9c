package orders

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/chatcommerce-api/internal/domain/entity"
)

// Totals totales de un pedido recalculados desde cero.
type Totals struct {
	Subtotal decimal.Decimal
	Total    decimal.Decimal
}

// RecomputeTotals recalcula subtotal y total desde las líneas:
// subtotal = sum(item.Total), total = subtotal + shipping - discount.
// Se invoca al final de toda operación mutadora en lugar de mantener los
// campos incrementalmente, para que los totales no puedan derivar.
func RecomputeTotals(items []*entity.OrderItem, shipping, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Total)
	}
	return Totals{
		Subtotal: subtotal,
		Total:    subtotal.Add(shipping).Sub(discount),
	}
}

// LineTotal total de una línea: quantity x unitPrice.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
