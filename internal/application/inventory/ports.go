package inventory

import (
	"context"

	"github.com/tu-usuario/chatcommerce-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción serializable con los
// repositorios del libro de stock atados a la tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
