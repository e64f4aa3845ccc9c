package orders

import (
	"context"

	"github.com/tu-usuario/chatcommerce-api/internal/application/dto"
	"github.com/tu-usuario/chatcommerce-api/internal/domain"
	"github.com/tu-usuario/chatcommerce-api/internal/domain/repository"
)

// GetOrderUseCase lectura de un pedido con líneas e historial de estados.
type GetOrderUseCase struct {
	orderRepo repository.OrderRepository
}

func NewGetOrderUseCase(orderRepo repository.OrderRepository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo}
}

func (uc *GetOrderUseCase) Get(ctx context.Context, workspaceID, orderID string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.WorkspaceID != workspaceID {
		return nil, domain.ErrForbidden
	}

	items, err := uc.orderRepo.ListItems(orderID)
	if err != nil {
		return nil, err
	}
	history, err := uc.orderRepo.ListStatusHistory(orderID)
	if err != nil {
		return nil, err
	}

	resp := &dto.OrderResponse{
		ID:              order.ID,
		Number:          order.Number,
		CustomerID:      order.CustomerID,
		Status:          order.Status,
		Subtotal:        order.Subtotal,
		Shipping:        order.Shipping,
		Discount:        order.Discount,
		Total:           order.Total,
		Notes:           order.Notes,
		ShippingAddress: order.ShippingAddress,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.OrderItemDTO{
			ID:        it.ID,
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			SKU:       it.SKU,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     it.Total,
		})
	}
	for _, h := range history {
		resp.StatusHistory = append(resp.StatusHistory, dto.StatusHistoryDTO{
			FromStatus: h.FromStatus,
			ToStatus:   h.ToStatus,
			Note:       h.Note,
			CreatedAt:  h.CreatedAt,
		})
	}
	return resp, nil
}
