package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/chatcommerce-api/internal/domain"
)

// Bajo SSI el fallo de serialización puede saltar en cualquier sentencia,
// no solo en el COMMIT; en ambos casos el caller recibe el conflicto
// genérico reintentable.
func TestTxErr_FalloDeSerializacionSeVuelveConflicto(t *testing.T) {
	raw := &pgconn.PgError{
		Code:    "40001",
		Message: "could not serialize access due to read/write dependencies among transactions",
	}
	assert.ErrorIs(t, txErr(raw), domain.ErrConflict)
	assert.ErrorIs(t, txErr(fmt.Errorf("reservar stock: %w", raw)), domain.ErrConflict, "también envuelto")
}

func TestTxErr_OtrosErroresPasanIntactos(t *testing.T) {
	base := errors.New("columna inexistente")
	assert.Equal(t, base, txErr(base))

	unique := &pgconn.PgError{Code: "23505"}
	assert.Equal(t, error(unique), txErr(unique), "la violación de unicidad no es un conflicto reintentable")

	assert.ErrorIs(t, txErr(domain.ErrNotFound), domain.ErrNotFound)
}
