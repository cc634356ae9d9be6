package store

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/mirkom117/Filiera-Agricola-IDS-sub000/internal/entities"
)

// OrderStore holds the current version of every order and keeps three
// secondary indexes (status, buyer, seller) consistent with it. The indexes
// hold ids only; the orders map is the single source of truth.
//
// Insert with an existing id and Replace with mismatched or unknown ids are
// caller bugs and panic rather than returning an error.
type OrderStore struct {
	mu       sync.RWMutex
	orders   map[string]entities.Order
	byStatus map[entities.OrderStatus]map[string]struct{}
	byBuyer  map[string]map[string]struct{}
	bySeller map[string]map[string]struct{}
}

func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders:   make(map[string]entities.Order),
		byStatus: make(map[entities.OrderStatus]map[string]struct{}),
		byBuyer:  make(map[string]map[string]struct{}),
		bySeller: make(map[string]map[string]struct{}),
	}
}

// Insert adds a brand-new order. The id must not already exist.
func (s *OrderStore) Insert(order entities.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.ID]; ok {
		panic(fmt.Sprintf("store: duplicate insert of order %s", order.ID))
	}

	s.orders[order.ID] = cloneOrder(order)
	s.index(order)
}

// Replace swaps the stored version of an order for its successor. Both must
// carry the same id. De-indexing uses the stored version's fields, so the
// indexes stay consistent even if buyer, seller or status changed.
func (s *OrderStore) Replace(oldOrder, newOrder entities.Order) {
	if oldOrder.ID != newOrder.ID {
		panic(fmt.Sprintf("store: replace with mismatched ids %s and %s", oldOrder.ID, newOrder.ID))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.orders[oldOrder.ID]
	if !ok {
		panic(fmt.Sprintf("store: replace of unknown order %s", oldOrder.ID))
	}

	s.unindex(stored)
	s.orders[newOrder.ID] = cloneOrder(newOrder)
	s.index(newOrder)
}

func (s *OrderStore) FindByID(id string) (entities.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return entities.Order{}, false
	}
	return cloneOrder(order), true
}

func (s *OrderStore) ByStatus(status entities.OrderStatus) []entities.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(s.byStatus[status])
}

func (s *OrderStore) ByBuyer(buyerID string) []entities.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(s.byBuyer[buyerID])
}

func (s *OrderStore) BySeller(sellerID string) []entities.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(s.bySeller[sellerID])
}

func (s *OrderStore) All() []entities.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]entities.Order, 0, len(s.orders))
	for _, order := range s.orders {
		orders = append(orders, cloneOrder(order))
	}
	sortOrders(orders)
	return orders
}

func (s *OrderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

func (s *OrderStore) index(order entities.Order) {
	addToBucket(s.byStatus, order.Status, order.ID)
	addToBucket(s.byBuyer, order.BuyerID, order.ID)
	addToBucket(s.bySeller, order.SellerID, order.ID)
}

func (s *OrderStore) unindex(order entities.Order) {
	removeFromBucket(s.byStatus, order.Status, order.ID)
	removeFromBucket(s.byBuyer, order.BuyerID, order.ID)
	removeFromBucket(s.bySeller, order.SellerID, order.ID)
}

// collect resolves an id set against the canonical map into a sorted snapshot.
func (s *OrderStore) collect(ids map[string]struct{}) []entities.Order {
	orders := make([]entities.Order, 0, len(ids))
	for id := range ids {
		orders = append(orders, cloneOrder(s.orders[id]))
	}
	sortOrders(orders)
	return orders
}

func addToBucket[K comparable](buckets map[K]map[string]struct{}, key K, id string) {
	bucket, ok := buckets[key]
	if !ok {
		bucket = make(map[string]struct{})
		buckets[key] = bucket
	}
	bucket[id] = struct{}{}
}

func removeFromBucket[K comparable](buckets map[K]map[string]struct{}, key K, id string) {
	bucket, ok := buckets[key]
	if !ok {
		return
	}
	delete(bucket, id)
	if len(bucket) == 0 {
		delete(buckets, key)
	}
}

func sortOrders(orders []entities.Order) {
	slices.SortFunc(orders, func(a, b entities.Order) int {
		if !a.OrderDate.Equal(b.OrderDate) {
			return a.OrderDate.Compare(b.OrderDate)
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
}

// cloneOrder deep-copies the slice and pointer fields so callers never share
// memory with the stored version.
func cloneOrder(order entities.Order) entities.Order {
	order.Items = slices.Clone(order.Items)
	order.ExpectedDeliveryDate = cloneTime(order.ExpectedDeliveryDate)
	order.ActualDeliveryDate = cloneTime(order.ActualDeliveryDate)
	return order
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
