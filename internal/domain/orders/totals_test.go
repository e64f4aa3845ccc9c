package orders_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/chatcommerce-api/internal/domain/entity"
	"github.com/tu-usuario/chatcommerce-api/internal/domain/orders"
)

func TestRecomputeTotals_DesdeCero(t *testing.T) {
	items := []*entity.OrderItem{
		{Total: decimal.NewFromInt(30000)},
		{Total: decimal.NewFromInt(12500)},
	}
	tot := orders.RecomputeTotals(items, decimal.NewFromInt(8000), decimal.NewFromInt(2500))

	assert.True(t, tot.Subtotal.Equal(decimal.NewFromInt(42500)), "subtotal = suma de líneas")
	assert.True(t, tot.Total.Equal(decimal.NewFromInt(48000)), "total = subtotal + envío - descuento")
}

func TestRecomputeTotals_SinLineas(t *testing.T) {
	tot := orders.RecomputeTotals(nil, decimal.Zero, decimal.Zero)
	assert.True(t, tot.Subtotal.IsZero())
	assert.True(t, tot.Total.IsZero())
}

func TestLineTotal(t *testing.T) {
	total := orders.LineTotal(3, decimal.NewFromFloat(1999.90))
	assert.True(t, total.Equal(decimal.NewFromFloat(5999.70)))
}
