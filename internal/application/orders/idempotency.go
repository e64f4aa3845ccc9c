package orders

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tu-usuario/chatcommerce-api/internal/application/dto"
)

// DedupWindow ancho del balde temporal de la clave de idempotencia. Un
// carrito idéntico confirmado dos veces dentro de la misma ventana devuelve
// el primer pedido. Limitación documentada: dos carritos genuinamente
// distintos pero idénticos en contenido dentro de la ventana se deduplican
// de más, y un reintento que cruza el borde del balde se deduplica de menos.
// Es protección de reintentos at-least-once, no unicidad global.
const DedupWindow = 5 * time.Minute

// IdempotencyTTL vigencia del registro de idempotencia.
const IdempotencyTTL = 24 * time.Hour

// ConfirmKey deriva la clave de idempotencia de Confirm: hash SHA-256 del
// workspace más las identidades y cantidades de línea ordenadas, más el
// balde temporal.
func ConfirmKey(workspaceID string, items []dto.CartItem, at time.Time) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s|%s|%d", it.ProductID, it.VariantID, it.Quantity))
	}
	sort.Strings(lines)
	bucket := at.UTC().Truncate(DedupWindow).Unix()

	h := sha256.Sum256([]byte(fmt.Sprintf("%s\n%s\n%d", workspaceID, strings.Join(lines, "\n"), bucket)))
	return hex.EncodeToString(h[:])
}
