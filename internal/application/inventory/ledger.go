package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/chatcommerce-api/internal/domain"
	"github.com/tu-usuario/chatcommerce-api/internal/domain/entity"
	"github.com/tu-usuario/chatcommerce-api/internal/domain/repository"
)

// Ledger primitivas del libro de stock: Reserve, Release y Adjust.
// Cada primitiva lee el renglón bloqueado dentro de la transacción en curso
// (nunca un valor cacheado), valida el delta contra el disponible y actualiza
// contador y movimiento de auditoría juntos: jamás de forma independiente.
// Los repositorios llegan atados a la transacción del caller (mismo patrón
// que el TxRunner).
type Ledger struct {
	now func() time.Time
}

// NewLedger construye el libro. now inyectable para tests; nil = time.Now.
func NewLedger(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{now: now}
}

// Reserve aparta qty unidades del renglón: valida available >= qty,
// incrementa Reserved y registra un movimiento "reservation" con delta
// negativo sobre el disponible. Devuelve el renglón leído aunque falle la
// validación, para que el caller arme el detalle de faltantes.
func (l *Ledger) Reserve(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	key entity.StockKey,
	qty int,
	ref entity.MovementRef,
	reason, actor string,
) (*entity.StockItem, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	item, err := stockRepo.GetForUpdate(key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		// Sin renglón de stock no hay disponible: mismo tratamiento que 0.
		return nil, domain.ErrInsufficientStock
	}
	if item.Available() < qty {
		return item, domain.ErrInsufficientStock
	}

	prev := item.Available()
	item.Reserved += qty
	item.UpdatedAt = l.now()
	if err := stockRepo.Upsert(item); err != nil {
		return item, err
	}
	if err := l.appendMovement(movRepo, item, entity.MovementTypeReservation, -qty, prev, ref, reason, actor); err != nil {
		return item, err
	}
	return item, nil
}

// Release libera qty unidades apartadas: decrementa Reserved y registra un
// movimiento del tipo indicado (release o reversal) con delta positivo.
// El caller garantiza qty <= Reserved vía su cálculo de delta; aquí se
// valida defensivamente.
func (l *Ledger) Release(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	key entity.StockKey,
	qty int,
	movementType string,
	ref entity.MovementRef,
	reason, actor string,
) (*entity.StockItem, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if movementType != entity.MovementTypeRelease && movementType != entity.MovementTypeReversal {
		return nil, domain.ErrInvalidInput
	}
	item, err := stockRepo.GetForUpdate(key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.Reserved < qty {
		return item, domain.ErrConflict
	}

	prev := item.Available()
	item.Reserved -= qty
	item.UpdatedAt = l.now()
	if err := stockRepo.Upsert(item); err != nil {
		return item, err
	}
	if err := l.appendMovement(movRepo, item, movementType, qty, prev, ref, reason, actor); err != nil {
		return item, err
	}
	return item, nil
}

// Adjust modifica la existencia física en delta (positivo = entrada,
// negativo = merma). Crea el renglón con la primera entrada. La nueva
// existencia nunca puede quedar por debajo de lo reservado.
func (l *Ledger) Adjust(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	key entity.StockKey,
	delta int,
	ref entity.MovementRef,
	reason, actor string,
) (*entity.StockItem, error) {
	if delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	item, err := stockRepo.GetForUpdate(key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		if delta < 0 {
			return nil, domain.ErrNotFound
		}
		item = &entity.StockItem{
			ID:          uuid.New().String(),
			WorkspaceID: key.WorkspaceID,
			ProductID:   key.ProductID,
			VariantID:   key.VariantID,
			LocationID:  key.LocationID,
		}
	}
	if item.Quantity+delta < item.Reserved {
		return item, domain.ErrConflict
	}

	prev := item.Available()
	item.Quantity += delta
	item.UpdatedAt = l.now()
	if err := stockRepo.Upsert(item); err != nil {
		return item, err
	}
	if err := l.appendMovement(movRepo, item, entity.MovementTypeAdjustment, delta, prev, ref, reason, actor); err != nil {
		return item, err
	}
	return item, nil
}

func (l *Ledger) appendMovement(
	movRepo repository.StockMovementRepository,
	item *entity.StockItem,
	movementType string,
	delta, prev int,
	ref entity.MovementRef,
	reason, actor string,
) error {
	return movRepo.Create(&entity.StockMovement{
		ID:            uuid.New().String(),
		StockItemID:   item.ID,
		Type:          movementType,
		Delta:         delta,
		PreviousQty:   prev,
		NewQty:        prev + delta,
		Reason:        reason,
		ReferenceType: ref.Type,
		ReferenceID:   ref.ID,
		CreatedAt:     l.now(),
		CreatedBy:     actor,
	})
}
