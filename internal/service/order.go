package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/citywaste/waste-flow-api/internal/dto"
	"github.com/citywaste/waste-flow-api/internal/model"
	"github.com/citywaste/waste-flow-api/internal/repository"
)

type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo, productRepo: productRepo}
}

// Create prices the order once, against the product's price at this moment.
// Later price changes never touch existing orders.
func (s *OrderService) Create(ctx context.Context, userID int64, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	order := &model.Order{
		UserID:     userID,
		ProductID:  product.ID,
		Quantity:   req.Quantity,
		TotalPrice: product.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
		Status:     model.OrderStatusPending,
		Product:    product,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	resp := toOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]dto.OrderResponse, error) {
	orders, err := s.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, toOrderResponse(&orders[i]))
	}
	return items, nil
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:         order.ID,
		ProductID:  order.ProductID,
		Quantity:   order.Quantity,
		TotalPrice: order.TotalPrice,
		Status:     order.Status,
		CreatedAt:  order.CreatedAt,
	}
	if order.Product != nil {
		product := toProductResponse(order.Product)
		resp.Product = &product
	}
	return resp
}
