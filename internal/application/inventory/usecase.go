package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/tu-usuario/chatcommerce-api/internal/application/dto"
	"github.com/tu-usuario/chatcommerce-api/internal/domain"
	"github.com/tu-usuario/chatcommerce-api/internal/domain/entity"
	"github.com/tu-usuario/chatcommerce-api/internal/domain/repository"
)

// StockUseCase ajustes manuales / entradas de mercancía y lectura del
// renglón con sus movimientos recientes.
type StockUseCase struct {
	txRunner  TxRunner
	stockRepo repository.StockRepository
	movRepo   repository.StockMovementRepository
	ledger    *Ledger
}

// NewStockUseCase construye el caso de uso. stockRepo y movRepo atados al
// pool (solo lecturas); las escrituras pasan por el TxRunner.
func NewStockUseCase(txRunner TxRunner, stockRepo repository.StockRepository, movRepo repository.StockMovementRepository, ledger *Ledger) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, stockRepo: stockRepo, movRepo: movRepo, ledger: ledger}
}

// Adjust aplica un ajuste de existencia (delta firmado) de forma
// transaccional y devuelve el renglón resultante.
func (uc *StockUseCase) Adjust(ctx context.Context, workspaceID, userID string, in dto.AdjustStockRequest) (*dto.StockItemDTO, error) {
	if in.ProductID == "" || in.Delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	key := entity.StockKey{
		WorkspaceID: workspaceID,
		ProductID:   in.ProductID,
		VariantID:   in.VariantID,
		LocationID:  in.LocationID,
	}
	ref := entity.MovementRef{Type: entity.ReferenceTypeAdjustment, ID: uuid.New().String()}

	var item *entity.StockItem
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		var err error
		item, err = uc.ledger.Adjust(stockRepo, movRepo, key, in.Delta, ref, in.Reason, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := toStockItemDTO(item)
	return &out, nil
}

// Get devuelve el renglón de stock y sus movimientos recientes.
func (uc *StockUseCase) Get(ctx context.Context, workspaceID, productID, variantID, locationID string, page dto.PageRequest) (*dto.StockResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()

	item, err := uc.stockRepo.Get(entity.StockKey{
		WorkspaceID: workspaceID,
		ProductID:   productID,
		VariantID:   variantID,
		LocationID:  locationID,
	})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	movements, err := uc.movRepo.ListByStockItem(item.ID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}

	resp := &dto.StockResponse{Item: toStockItemDTO(item)}
	for _, m := range movements {
		resp.Movements = append(resp.Movements, dto.StockMovementDTO{
			ID:            m.ID,
			Type:          m.Type,
			Delta:         m.Delta,
			PreviousQty:   m.PreviousQty,
			NewQty:        m.NewQty,
			Reason:        m.Reason,
			ReferenceType: m.ReferenceType,
			ReferenceID:   m.ReferenceID,
			CreatedAt:     m.CreatedAt,
		})
	}
	return resp, nil
}

func toStockItemDTO(item *entity.StockItem) dto.StockItemDTO {
	return dto.StockItemDTO{
		ID:         item.ID,
		ProductID:  item.ProductID,
		VariantID:  item.VariantID,
		LocationID: item.LocationID,
		Quantity:   item.Quantity,
		Reserved:   item.Reserved,
		Available:  item.Available(),
		UpdatedAt:  item.UpdatedAt,
	}
}
