package lifecycle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirkom117/Filiera-Agricola-IDS-sub000/internal/entities"
	"github.com/mirkom117/Filiera-Agricola-IDS-sub000/internal/lifecycle"
)

func TestGuards(t *testing.T) {
	all := entities.AllStatuses

	testCases := []struct {
		name    string
		check   func(entities.OrderStatus) error
		allowed []entities.OrderStatus
	}{
		{"confirm", lifecycle.CheckConfirm, []entities.OrderStatus{entities.StatusPending}},
		{"ship", lifecycle.CheckShip, []entities.OrderStatus{entities.StatusProcessing}},
		{"deliver", lifecycle.CheckDeliver, []entities.OrderStatus{entities.StatusShipped}},
		{"cancel", lifecycle.CheckCancel, []entities.OrderStatus{
			entities.StatusPending, entities.StatusConfirmed, entities.StatusProcessing,
			entities.StatusShipped, entities.StatusCancelled,
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for _, status := range all {
				err := tc.check(status)
				if containsStatus(tc.allowed, status) {
					assert.NoError(t, err, "status %s", status)
				} else {
					assert.ErrorIs(t, err, entities.ErrValidation, "status %s", status)
				}
			}
		})
	}
}

func containsStatus(statuses []entities.OrderStatus, s entities.OrderStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

func TestSuccessor_DeliveredStampsDate(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	order := entities.Order{ID: "o1", Status: entities.StatusShipped}

	next := lifecycle.Successor(order, entities.StatusDelivered, now)

	assert.Equal(t, entities.StatusDelivered, next.Status)
	require.NotNil(t, next.ActualDeliveryDate)
	assert.Equal(t, now, *next.ActualDeliveryDate)
}

func TestSuccessor_KeepsExistingDeliveryDate(t *testing.T) {
	earlier := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	order := entities.Order{ID: "o1", Status: entities.StatusDelivered, ActualDeliveryDate: &earlier}

	next := lifecycle.Successor(order, entities.StatusDelivered, time.Now())

	require.NotNil(t, next.ActualDeliveryDate)
	assert.Equal(t, earlier, *next.ActualDeliveryDate)
}

func TestSuccessor_LeavingDeliveredClearsDate(t *testing.T) {
	delivered := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	order := entities.Order{ID: "o1", Status: entities.StatusDelivered, ActualDeliveryDate: &delivered}

	next := lifecycle.Successor(order, entities.StatusProcessing, time.Now())

	assert.Equal(t, entities.StatusProcessing, next.Status)
	assert.Nil(t, next.ActualDeliveryDate)
}

func TestSuccessor_DoesNotShareItems(t *testing.T) {
	order := entities.Order{
		ID:     "o1",
		Status: entities.StatusPending,
		Items:  []entities.OrderItem{{ProductID: "p1", Quantity: 1}},
	}

	next := lifecycle.Successor(order, entities.StatusConfirmed, time.Now())
	next.Items[0].Quantity = 42

	assert.Equal(t, 1, order.Items[0].Quantity)
}
