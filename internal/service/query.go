package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mirkom117/Filiera-Agricola-IDS-sub000/internal/entities"
)

// queryService provides read-only derived views over the order store.
type queryService struct {
	logger *slog.Logger
	store  OrderStore
}

func NewQueryService(logger *slog.Logger, store OrderStore) *queryService {
	return &queryService{
		logger: logger.With(slog.String("service", "query")),
		store:  store,
	}
}

// ByDateRange returns orders placed between start and end, both inclusive.
func (s *queryService) ByDateRange(ctx context.Context, start, end time.Time) ([]entities.Order, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start date is after end date", entities.ErrValidation)
	}

	var out []entities.Order
	for _, order := range s.store.All() {
		if !order.OrderDate.Before(start) && !order.OrderDate.After(end) {
			out = append(out, order)
		}
	}
	return out, nil
}

// ByAmountRange returns orders whose total falls between min and max, both
// inclusive.
func (s *queryService) ByAmountRange(ctx context.Context, min, max decimal.Decimal) ([]entities.Order, error) {
	if min.IsNegative() {
		return nil, fmt.Errorf("%w: minimum amount cannot be negative", entities.ErrValidation)
	}
	if max.LessThan(min) {
		return nil, fmt.Errorf("%w: maximum amount is below minimum", entities.ErrValidation)
	}

	var out []entities.Order
	for _, order := range s.store.All() {
		if order.TotalAmount.GreaterThanOrEqual(min) && order.TotalAmount.LessThanOrEqual(max) {
			out = append(out, order)
		}
	}
	return out, nil
}

// OverdueOrders returns open orders whose expected delivery date has passed.
func (s *queryService) OverdueOrders(ctx context.Context) []entities.Order {
	now := time.Now()

	var out []entities.Order
	for _, order := range s.store.All() {
		if order.ExpectedDeliveryDate == nil || order.Status.IsTerminal() {
			continue
		}
		if now.After(*order.ExpectedDeliveryDate) {
			out = append(out, order)
		}
	}
	return out
}

func (s *queryService) OrganicCertifiedOrders(ctx context.Context) []entities.Order {
	var out []entities.Order
	for _, order := range s.store.All() {
		if order.OrganicCertified {
			out = append(out, order)
		}
	}
	return out
}

// CountByStatus always carries all six statuses, zero-valued when empty.
func (s *queryService) CountByStatus(ctx context.Context) map[entities.OrderStatus]int {
	counts := make(map[entities.OrderStatus]int, len(entities.AllStatuses))
	for _, status := range entities.AllStatuses {
		counts[status] = 0
	}
	for _, order := range s.store.All() {
		counts[order.Status]++
	}
	return counts
}

// TotalRevenue sums the totals of delivered orders only.
func (s *queryService) TotalRevenue(ctx context.Context) decimal.Decimal {
	total := decimal.Zero
	for _, order := range s.store.ByStatus(entities.StatusDelivered) {
		total = total.Add(order.TotalAmount)
	}
	return total
}

func (s *queryService) TotalRevenueForSeller(ctx context.Context, sellerID string) decimal.Decimal {
	total := decimal.Zero
	for _, order := range s.store.BySeller(sellerID) {
		if order.Status == entities.StatusDelivered {
			total = total.Add(order.TotalAmount)
		}
	}
	return total
}

// AverageOrderValue is the mean total over every order regardless of status,
// unlike TotalRevenue which only counts delivered ones.
func (s *queryService) AverageOrderValue(ctx context.Context) decimal.Decimal {
	orders := s.store.All()
	if len(orders) == 0 {
		return decimal.Zero
	}

	total := decimal.Zero
	for _, order := range orders {
		total = total.Add(order.TotalAmount)
	}
	return total.Div(decimal.NewFromInt(int64(len(orders))))
}
