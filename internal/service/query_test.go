package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirkom117/Filiera-Agricola-IDS-sub000/internal/entities"
	"github.com/mirkom117/Filiera-Agricola-IDS-sub000/internal/service"
	"github.com/mirkom117/Filiera-Agricola-IDS-sub000/internal/store"
)

type queryService interface {
	ByDateRange(ctx context.Context, start, end time.Time) ([]entities.Order, error)
	ByAmountRange(ctx context.Context, min, max decimal.Decimal) ([]entities.Order, error)
	OverdueOrders(ctx context.Context) []entities.Order
	OrganicCertifiedOrders(ctx context.Context) []entities.Order
	CountByStatus(ctx context.Context) map[entities.OrderStatus]int
	TotalRevenue(ctx context.Context) decimal.Decimal
	TotalRevenueForSeller(ctx context.Context, sellerID string) decimal.Decimal
	AverageOrderValue(ctx context.Context) decimal.Decimal
}

func newQueryService(t *testing.T) (queryService, *store.OrderStore) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.NewOrderStore()
	return service.NewQueryService(logger, st), st
}

type orderSpec struct {
	id        string
	sellerID  string
	status    entities.OrderStatus
	total     float64
	orderDate time.Time
	expected  *time.Time
	organic   bool
}

func insertOrders(st *store.OrderStore, specs []orderSpec) {
	for _, spec := range specs {
		order := entities.Order{
			ID:       spec.id,
			BuyerID:  "b1",
			SellerID: spec.sellerID,
			Items: []entities.OrderItem{
				{ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromFloat(spec.total)},
			},
			TotalAmount:          decimal.NewFromFloat(spec.total),
			Status:               spec.status,
			OrderDate:            spec.orderDate,
			ExpectedDeliveryDate: spec.expected,
			OrganicCertified:     spec.organic,
		}
		if spec.status == entities.StatusDelivered {
			delivered := spec.orderDate.AddDate(0, 0, 3)
			order.ActualDeliveryDate = &delivered
		}
		st.Insert(order)
	}
}

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func orderIDs(orders []entities.Order) []string {
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}

func TestQueryService_ByDateRange(t *testing.T) {
	svc, st := newQueryService(t)
	ctx := context.Background()

	insertOrders(st, []orderSpec{
		{id: "o1", sellerID: "s1", status: entities.StatusPending, total: 10, orderDate: day(1)},
		{id: "o2", sellerID: "s1", status: entities.StatusPending, total: 20, orderDate: day(5)},
		{id: "o3", sellerID: "s1", status: entities.StatusPending, total: 30, orderDate: day(10)},
	})

	// Both bounds are inclusive.
	orders, err := svc.ByDateRange(ctx, day(1), day(5))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"o1", "o2"}, orderIDs(orders))

	orders, err = svc.ByDateRange(ctx, day(11), day(20))
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, err = svc.ByDateRange(ctx, day(5), day(1))
	assert.ErrorIs(t, err, entities.ErrValidation)
}

func TestQueryService_ByAmountRange(t *testing.T) {
	svc, st := newQueryService(t)
	ctx := context.Background()

	insertOrders(st, []orderSpec{
		{id: "o1", sellerID: "s1", status: entities.StatusPending, total: 10, orderDate: day(1)},
		{id: "o2", sellerID: "s1", status: entities.StatusPending, total: 20, orderDate: day(2)},
		{id: "o3", sellerID: "s1", status: entities.StatusPending, total: 30, orderDate: day(3)},
	})

	orders, err := svc.ByAmountRange(ctx, decimal.NewFromInt(10), decimal.NewFromInt(20))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"o1", "o2"}, orderIDs(orders))

	_, err = svc.ByAmountRange(ctx, decimal.NewFromInt(-1), decimal.NewFromInt(20))
	assert.ErrorIs(t, err, entities.ErrValidation)

	_, err = svc.ByAmountRange(ctx, decimal.NewFromInt(20), decimal.NewFromInt(10))
	assert.ErrorIs(t, err, entities.ErrValidation)
}

func TestQueryService_OverdueOrders(t *testing.T) {
	svc, st := newQueryService(t)

	past := time.Now().AddDate(0, 0, -2)
	future := time.Now().AddDate(0, 0, 2)

	insertOrders(st, []orderSpec{
		// Overdue: expected date passed and still open.
		{id: "late", sellerID: "s1", status: entities.StatusProcessing, total: 10, orderDate: day(1), expected: &past},
		// Identical but cancelled: not overdue.
		{id: "cancelled", sellerID: "s1", status: entities.StatusCancelled, total: 10, orderDate: day(1), expected: &past},
		{id: "delivered", sellerID: "s1", status: entities.StatusDelivered, total: 10, orderDate: day(1), expected: &past},
		{id: "on-time", sellerID: "s1", status: entities.StatusProcessing, total: 10, orderDate: day(1), expected: &future},
		{id: "no-date", sellerID: "s1", status: entities.StatusProcessing, total: 10, orderDate: day(1)},
	})

	assert.Equal(t, []string{"late"}, orderIDs(svc.OverdueOrders(context.Background())))
}

func TestQueryService_OrganicCertifiedOrders(t *testing.T) {
	svc, st := newQueryService(t)

	insertOrders(st, []orderSpec{
		{id: "o1", sellerID: "s1", status: entities.StatusPending, total: 10, orderDate: day(1), organic: true},
		{id: "o2", sellerID: "s1", status: entities.StatusPending, total: 20, orderDate: day(2)},
	})

	assert.Equal(t, []string{"o1"}, orderIDs(svc.OrganicCertifiedOrders(context.Background())))
}

func TestQueryService_CountByStatus(t *testing.T) {
	svc, st := newQueryService(t)
	ctx := context.Background()

	// Even an empty store reports all six statuses.
	counts := svc.CountByStatus(ctx)
	require.Len(t, counts, 6)
	for _, status := range entities.AllStatuses {
		assert.Equal(t, 0, counts[status])
	}

	insertOrders(st, []orderSpec{
		{id: "o1", sellerID: "s1", status: entities.StatusPending, total: 10, orderDate: day(1)},
		{id: "o2", sellerID: "s1", status: entities.StatusPending, total: 20, orderDate: day(2)},
		{id: "o3", sellerID: "s1", status: entities.StatusDelivered, total: 30, orderDate: day(3)},
	})

	counts = svc.CountByStatus(ctx)
	assert.Equal(t, 2, counts[entities.StatusPending])
	assert.Equal(t, 1, counts[entities.StatusDelivered])
	assert.Equal(t, 0, counts[entities.StatusShipped])
	require.Len(t, counts, 6)
}

func TestQueryService_Revenue(t *testing.T) {
	svc, st := newQueryService(t)
	ctx := context.Background()

	insertOrders(st, []orderSpec{
		{id: "o1", sellerID: "s1", status: entities.StatusDelivered, total: 100, orderDate: day(1)},
		{id: "o2", sellerID: "s2", status: entities.StatusDelivered, total: 50, orderDate: day(2)},
		// Open and cancelled orders never count as revenue.
		{id: "o3", sellerID: "s1", status: entities.StatusPending, total: 999, orderDate: day(3)},
		{id: "o4", sellerID: "s1", status: entities.StatusCancelled, total: 999, orderDate: day(4)},
	})

	assert.True(t, svc.TotalRevenue(ctx).Equal(decimal.NewFromInt(150)))
	assert.True(t, svc.TotalRevenueForSeller(ctx, "s1").Equal(decimal.NewFromInt(100)))
	assert.True(t, svc.TotalRevenueForSeller(ctx, "s2").Equal(decimal.NewFromInt(50)))
	assert.True(t, svc.TotalRevenueForSeller(ctx, "unknown").IsZero())
}

func TestQueryService_AverageOrderValue(t *testing.T) {
	svc, st := newQueryService(t)
	ctx := context.Background()

	// Empty store: zero, not an error.
	assert.True(t, svc.AverageOrderValue(ctx).IsZero())

	// The average spans every status, unlike TotalRevenue.
	insertOrders(st, []orderSpec{
		{id: "o1", sellerID: "s1", status: entities.StatusDelivered, total: 30, orderDate: day(1)},
		{id: "o2", sellerID: "s1", status: entities.StatusPending, total: 10, orderDate: day(2)},
		{id: "o3", sellerID: "s1", status: entities.StatusCancelled, total: 20, orderDate: day(3)},
	})

	assert.True(t, svc.AverageOrderValue(ctx).Equal(decimal.NewFromInt(20)), "got %s", svc.AverageOrderValue(ctx))
}
