package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/chatcommerce-api/internal/application/dto"
	"github.com/tu-usuario/chatcommerce-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción serializable con los
// repositorios atados a la tx. Commit si fn retorna nil, rollback si no.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		resRepo repository.StockReservationRepository,
		orderRepo repository.OrderRepository,
		customerRepo repository.CustomerRepository,
	) error) error
}

// IdempotencyStore mapea una clave derivada del contenido a un resultado ya
// producido, para que las llamadas repetidas del agente sean no-ops.
// Get devuelve "" (sin error) si la clave no existe.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CartStore colaborador externo que guarda el carrito de la sesión
// conversacional. Se lee una vez al confirmar y se limpia tras el commit.
type CartStore interface {
	Get(ctx context.Context, workspaceID, sessionID string) (*dto.CartSnapshot, error)
	Clear(ctx context.Context, workspaceID, sessionID string) error
}

// PlanLimits colaborador que entrega la cuota mensual de pedidos del
// workspace (0 = sin límite).
type PlanLimits interface {
	MonthlyOrderQuota(ctx context.Context, workspaceID string) (int, error)
}

// Tipos de evento de pedido publicados tras el commit.
const (
	EventOrderConfirmed = "order.confirmed"
	EventOrderModified  = "order.modified"
	EventOrderCancelled = "order.cancelled"
)

// OrderEvent notificación best-effort; su entrega nunca es parte de la
// transacción y su falla jamás revierte la mutación.
type OrderEvent struct {
	Type        string          `json:"type"`
	WorkspaceID string          `json:"workspace_id"`
	OrderID     string          `json:"order_id"`
	Number      int64           `json:"number"`
	Status      string          `json:"status"`
	Total       decimal.Decimal `json:"total"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// Notifier puerto de notificación post-commit.
type Notifier interface {
	Notify(ctx context.Context, event OrderEvent) error
}
