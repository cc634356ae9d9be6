package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mirkom117/Filiera-Agricola-IDS-sub000/internal/entities"
	"github.com/mirkom117/Filiera-Agricola-IDS-sub000/internal/service"
)

// OrderItem is one order line.
type OrderItem struct {
	ProductID   string  `json:"product_id" validate:"required"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
	TotalPrice  float64 `json:"total_price,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

type Order struct {
	ID                   string      `json:"id"`
	BuyerID              string      `json:"buyer_id"`
	SellerID             string      `json:"seller_id"`
	Items                []OrderItem `json:"items"`
	TotalAmount          float64     `json:"total_amount"`
	Status               string      `json:"status"`
	OrderDate            time.Time   `json:"order_date"`
	ExpectedDeliveryDate *time.Time  `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate   *time.Time  `json:"actual_delivery_date,omitempty"`
	DeliveryAddress      string      `json:"delivery_address,omitempty"`
	PaymentMethod        string      `json:"payment_method,omitempty"`
	DeliveryMethod       string      `json:"delivery_method,omitempty"`
	Notes                string      `json:"notes,omitempty"`
	OrganicCertified     bool        `json:"organic_certified"`
}

type CreateOrderRequest struct {
	BuyerID              string      `json:"buyer_id" validate:"required"`
	SellerID             string      `json:"seller_id" validate:"required"`
	Items                []OrderItem `json:"items" validate:"required,min=1,dive"`
	ExpectedDeliveryDate *time.Time  `json:"expected_delivery_date,omitempty"`
	DeliveryAddress      string      `json:"delivery_address,omitempty"`
	PaymentMethod        string      `json:"payment_method,omitempty"`
	DeliveryMethod       string      `json:"delivery_method,omitempty"`
	Notes                string      `json:"notes,omitempty"`
	OrganicCertified     bool        `json:"organic_certified,omitempty"`
}

type UpdateOrderRequest struct {
	BuyerID              string      `json:"buyer_id" validate:"required"`
	SellerID             string      `json:"seller_id" validate:"required"`
	Items                []OrderItem `json:"items" validate:"required,min=1,dive"`
	Status               string      `json:"status" validate:"required"`
	ExpectedDeliveryDate *time.Time  `json:"expected_delivery_date,omitempty"`
	DeliveryAddress      string      `json:"delivery_address,omitempty"`
	PaymentMethod        string      `json:"payment_method,omitempty"`
	DeliveryMethod       string      `json:"delivery_method,omitempty"`
	Notes                string      `json:"notes,omitempty"`
	OrganicCertified     bool        `json:"organic_certified,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// StatusUpdateResponse carries the documented no-op signal: changed=false
// means the order already had the requested status.
type StatusUpdateResponse struct {
	Changed bool  `json:"changed"`
	Order   Order `json:"order"`
}

type StatsResponse struct {
	CountByStatus     map[string]int `json:"count_by_status"`
	TotalRevenue      float64        `json:"total_revenue"`
	AverageOrderValue float64        `json:"average_order_value"`
}

type SellerRevenueResponse struct {
	SellerID     string  `json:"seller_id"`
	TotalRevenue float64 `json:"total_revenue"`
}

func ItemEntityToJSON(i entities.OrderItem) OrderItem {
	return OrderItem{
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice.InexactFloat64(),
		TotalPrice:  i.TotalPrice().InexactFloat64(),
		Notes:       i.Notes,
	}
}

func OrderEntityToJSON(o entities.Order) Order {
	items := make([]OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ItemEntityToJSON(it))
	}

	return Order{
		ID:                   o.ID,
		BuyerID:              o.BuyerID,
		SellerID:             o.SellerID,
		Items:                items,
		TotalAmount:          o.TotalAmount.InexactFloat64(),
		Status:               string(o.Status),
		OrderDate:            o.OrderDate,
		ExpectedDeliveryDate: o.ExpectedDeliveryDate,
		ActualDeliveryDate:   o.ActualDeliveryDate,
		DeliveryAddress:      o.DeliveryAddress,
		PaymentMethod:        o.PaymentMethod,
		DeliveryMethod:       o.DeliveryMethod,
		Notes:                o.Notes,
		OrganicCertified:     o.OrganicCertified,
	}
}

func OrdersEntityToJSON(orders []entities.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderEntityToJSON(o))
	}
	return out
}

func itemInputsFromJSON(items []OrderItem) []service.OrderItemInput {
	out := make([]service.OrderItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, service.OrderItemInput{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   decimal.NewFromFloat(it.UnitPrice),
			Notes:       it.Notes,
		})
	}
	return out
}

func CreateRequestToInput(req CreateOrderRequest) service.CreateOrderInput {
	return service.CreateOrderInput{
		BuyerID:              req.BuyerID,
		SellerID:             req.SellerID,
		Items:                itemInputsFromJSON(req.Items),
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		DeliveryAddress:      req.DeliveryAddress,
		PaymentMethod:        req.PaymentMethod,
		DeliveryMethod:       req.DeliveryMethod,
		Notes:                req.Notes,
		OrganicCertified:     req.OrganicCertified,
	}
}

func UpdateRequestToInput(req UpdateOrderRequest, status entities.OrderStatus) service.UpdateOrderInput {
	return service.UpdateOrderInput{
		BuyerID:              req.BuyerID,
		SellerID:             req.SellerID,
		Items:                itemInputsFromJSON(req.Items),
		Status:               status,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		DeliveryAddress:      req.DeliveryAddress,
		PaymentMethod:        req.PaymentMethod,
		DeliveryMethod:       req.DeliveryMethod,
		Notes:                req.Notes,
		OrganicCertified:     req.OrganicCertified,
	}
}
