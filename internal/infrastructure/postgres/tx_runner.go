package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tu-usuario/chatcommerce-api/internal/application/inventory"
	"github.com/tu-usuario/chatcommerce-api/internal/application/orders"
	"github.com/tu-usuario/chatcommerce-api/internal/domain"
	"github.com/tu-usuario/chatcommerce-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)
var _ orders.TxRunner = (*TxRunner)(nil)

// txTimeout tope por transacción. Una mutación de pedido que no cierra en
// este plazo se aborta y el rollback descarta todo.
const txTimeout = 15 * time.Second

// serializableTx opciones de toda transacción de mutación: el aislamiento
// serializable hace imposibles las dobles reservas bajo concurrencia.
var serializableTx = pgx.TxOptions{IsoLevel: pgx.Serializable}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con repos
// atados a la tx.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run transacción de stock (ajustes manuales y entradas de mercancía).
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewStockRepository(tx), NewStockMovementRepository(tx))
	})
}

// RunOrder transacción de mutación de pedidos (Confirm, Modify, Cancel).
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	resRepo repository.StockReservationRepository,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(
			NewStockRepository(tx),
			NewStockMovementRepository(tx),
			NewStockReservationRepository(tx),
			NewOrderRepository(tx),
			NewCustomerRepository(tx),
		)
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := r.pool.BeginTx(ctx, serializableTx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return txErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txErr traduce el fallo de serialización (SQLSTATE 40001), que bajo SSI
// puede saltar en cualquier sentencia y no solo en el COMMIT, al conflicto
// genérico reintentable. Cualquier otro error pasa intacto.
func txErr(err error) error {
	if isSerializationFailure(err) {
		return domain.ErrConflict
	}
	return err
}
