// Package lifecycle holds the order state machine: the preconditions the
// named transitions enforce and the construction of successor versions.
//
// The policy table is asymmetric on purpose: nothing named moves an order
// from CONFIRMED to PROCESSING, only the unrestricted status primitive does.
package lifecycle

import (
	"fmt"
	"slices"
	"time"

	"github.com/mirkom117/Filiera-Agricola-IDS-sub000/internal/entities"
)

func CheckConfirm(status entities.OrderStatus) error {
	if status != entities.StatusPending {
		return fmt.Errorf("%w: only pending orders can be confirmed (order is %s)", entities.ErrValidation, status)
	}
	return nil
}

func CheckShip(status entities.OrderStatus) error {
	if status != entities.StatusProcessing {
		return fmt.Errorf("%w: only processing orders can be shipped (order is %s)", entities.ErrValidation, status)
	}
	return nil
}

func CheckDeliver(status entities.OrderStatus) error {
	if status != entities.StatusShipped {
		return fmt.Errorf("%w: only shipped orders can be delivered (order is %s)", entities.ErrValidation, status)
	}
	return nil
}

func CheckCancel(status entities.OrderStatus) error {
	if status == entities.StatusDelivered {
		return fmt.Errorf("%w: cannot cancel a delivered order", entities.ErrValidation)
	}
	return nil
}

// Successor builds the next version of an order for a status change.
// Reaching DELIVERED stamps the actual delivery date with now (unless one is
// already set); leaving it clears the stamp, keeping the date tied to the
// status.
func Successor(order entities.Order, status entities.OrderStatus, now time.Time) entities.Order {
	next := order
	next.Items = slices.Clone(order.Items)
	next.Status = status

	if status == entities.StatusDelivered {
		if next.ActualDeliveryDate == nil {
			delivered := now
			next.ActualDeliveryDate = &delivered
		}
	} else {
		next.ActualDeliveryDate = nil
	}
	return next
}
