package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mirkom117/Filiera-Agricola-IDS-sub000/internal/entities"
	"github.com/mirkom117/Filiera-Agricola-IDS-sub000/internal/lifecycle"
)

// OrderStore is the indexed collection the service writes to and reads from.
type OrderStore interface {
	Insert(order entities.Order)
	Replace(oldOrder, newOrder entities.Order)
	FindByID(id string) (entities.Order, bool)
	ByStatus(status entities.OrderStatus) []entities.Order
	ByBuyer(buyerID string) []entities.Order
	BySeller(sellerID string) []entities.Order
	All() []entities.Order
}

type OrderItemInput struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Notes       string
}

type CreateOrderInput struct {
	BuyerID              string
	SellerID             string
	Items                []OrderItemInput
	ExpectedDeliveryDate *time.Time
	DeliveryAddress      string
	PaymentMethod        string
	DeliveryMethod       string
	Notes                string
	OrganicCertified     bool
}

// UpdateOrderInput is a full administrative replace of an order's mutable
// fields. It deliberately bypasses the named-transition preconditions.
type UpdateOrderInput struct {
	BuyerID              string
	SellerID             string
	Items                []OrderItemInput
	Status               entities.OrderStatus
	ExpectedDeliveryDate *time.Time
	DeliveryAddress      string
	PaymentMethod        string
	DeliveryMethod       string
	Notes                string
	OrganicCertified     bool
}

type orderService struct {
	logger *slog.Logger
	store  OrderStore
}

func NewOrderService(logger *slog.Logger, store OrderStore) *orderService {
	return &orderService{
		logger: logger.With(slog.String("service", "order")),
		store:  store,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, in CreateOrderInput) (entities.Order, error) {
	items, err := validateOrderFields(in.BuyerID, in.SellerID, in.Items)
	if err != nil {
		return entities.Order{}, err
	}

	order := entities.Order{
		ID:                   uuid.NewString(),
		BuyerID:              in.BuyerID,
		SellerID:             in.SellerID,
		Items:                items,
		TotalAmount:          entities.ItemsTotal(items),
		Status:               entities.StatusPending,
		OrderDate:            time.Now().UTC(),
		ExpectedDeliveryDate: in.ExpectedDeliveryDate,
		DeliveryAddress:      in.DeliveryAddress,
		PaymentMethod:        in.PaymentMethod,
		DeliveryMethod:       in.DeliveryMethod,
		Notes:                in.Notes,
		OrganicCertified:     in.OrganicCertified,
	}

	s.store.Insert(order)
	s.logger.DebugContext(ctx, "order created", slog.String("order_id", order.ID), slog.String("buyer_id", order.BuyerID))
	return order, nil
}

// UpdateOrder replaces every mutable field of an existing order. The id and
// order date survive from the current version, the total is recomputed and
// the delivery-date stamp follows the new status.
func (s *orderService) UpdateOrder(ctx context.Context, id string, in UpdateOrderInput) (entities.Order, error) {
	current, ok := s.store.FindByID(id)
	if !ok {
		return entities.Order{}, fmt.Errorf("order %s: %w", id, entities.ErrOrderNotFound)
	}

	items, err := validateOrderFields(in.BuyerID, in.SellerID, in.Items)
	if err != nil {
		return entities.Order{}, err
	}
	if !in.Status.Valid() {
		return entities.Order{}, fmt.Errorf("%w: unknown order status %q", entities.ErrValidation, string(in.Status))
	}

	next := entities.Order{
		ID:                   current.ID,
		BuyerID:              in.BuyerID,
		SellerID:             in.SellerID,
		Items:                items,
		TotalAmount:          entities.ItemsTotal(items),
		Status:               current.Status,
		OrderDate:            current.OrderDate,
		ExpectedDeliveryDate: in.ExpectedDeliveryDate,
		ActualDeliveryDate:   current.ActualDeliveryDate,
		DeliveryAddress:      in.DeliveryAddress,
		PaymentMethod:        in.PaymentMethod,
		DeliveryMethod:       in.DeliveryMethod,
		Notes:                in.Notes,
		OrganicCertified:     in.OrganicCertified,
	}
	next = lifecycle.Successor(next, in.Status, time.Now().UTC())

	s.store.Replace(current, next)
	s.logger.DebugContext(ctx, "order updated", slog.String("order_id", id))
	return next, nil
}

// UpdateOrderStatus is the transition-unrestricted primitive. It reports
// changed=false, not an error, when the order already has the target status.
func (s *orderService) UpdateOrderStatus(ctx context.Context, id string, status entities.OrderStatus) (entities.Order, bool, error) {
	if !status.Valid() {
		return entities.Order{}, false, fmt.Errorf("%w: unknown order status %q", entities.ErrValidation, string(status))
	}

	current, ok := s.store.FindByID(id)
	if !ok {
		return entities.Order{}, false, fmt.Errorf("order %s: %w", id, entities.ErrOrderNotFound)
	}
	if current.Status == status {
		return current, false, nil
	}

	next := lifecycle.Successor(current, status, time.Now().UTC())
	s.store.Replace(current, next)
	s.logger.DebugContext(ctx, "order status updated",
		slog.String("order_id", id),
		slog.String("from", string(current.Status)),
		slog.String("to", string(status)),
	)
	return next, true, nil
}

func (s *orderService) ConfirmOrder(ctx context.Context, id string) (entities.Order, error) {
	return s.namedTransition(ctx, id, entities.StatusConfirmed, lifecycle.CheckConfirm)
}

func (s *orderService) ShipOrder(ctx context.Context, id string) (entities.Order, error) {
	return s.namedTransition(ctx, id, entities.StatusShipped, lifecycle.CheckShip)
}

func (s *orderService) DeliverOrder(ctx context.Context, id string) (entities.Order, error) {
	return s.namedTransition(ctx, id, entities.StatusDelivered, lifecycle.CheckDeliver)
}

func (s *orderService) CancelOrder(ctx context.Context, id string) (entities.Order, error) {
	return s.namedTransition(ctx, id, entities.StatusCancelled, lifecycle.CheckCancel)
}

// namedTransition runs a policy guard against the current status, then hands
// off to the generic primitive.
func (s *orderService) namedTransition(ctx context.Context, id string, target entities.OrderStatus, check func(entities.OrderStatus) error) (entities.Order, error) {
	current, ok := s.store.FindByID(id)
	if !ok {
		return entities.Order{}, fmt.Errorf("order %s: %w", id, entities.ErrOrderNotFound)
	}
	if err := check(current.Status); err != nil {
		return entities.Order{}, err
	}

	order, _, err := s.UpdateOrderStatus(ctx, id, target)
	return order, err
}

func (s *orderService) GetOrderByID(ctx context.Context, id string) (entities.Order, error) {
	order, ok := s.store.FindByID(id)
	if !ok {
		return entities.Order{}, fmt.Errorf("order %s: %w", id, entities.ErrOrderNotFound)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context) []entities.Order {
	return s.store.All()
}

func (s *orderService) OrdersByStatus(ctx context.Context, status entities.OrderStatus) []entities.Order {
	return s.store.ByStatus(status)
}

func (s *orderService) OrdersByBuyer(ctx context.Context, buyerID string) []entities.Order {
	return s.store.ByBuyer(buyerID)
}

func (s *orderService) OrdersBySeller(ctx context.Context, sellerID string) []entities.Order {
	return s.store.BySeller(sellerID)
}

func validateOrderFields(buyerID, sellerID string, items []OrderItemInput) ([]entities.OrderItem, error) {
	if buyerID == "" {
		return nil, fmt.Errorf("%w: buyer id is required", entities.ErrValidation)
	}
	if sellerID == "" {
		return nil, fmt.Errorf("%w: seller id is required", entities.ErrValidation)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", entities.ErrValidation)
	}

	out := make([]entities.OrderItem, 0, len(items))
	for i, item := range items {
		if item.ProductID == "" {
			return nil, fmt.Errorf("%w: item %d: product id is required", entities.ErrValidation, i)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %d: quantity must be positive", entities.ErrValidation, i)
		}
		if item.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: item %d: unit price cannot be negative", entities.ErrValidation, i)
		}
		out = append(out, entities.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Notes:       item.Notes,
		})
	}
	return out, nil
}
