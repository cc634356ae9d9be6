package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
)

type Item struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Notes       string  `json:"notes,omitempty"`
}

type Order struct {
	BuyerID              string  `json:"buyer_id"`
	SellerID             string  `json:"seller_id"`
	Items                []Item  `json:"items"`
	ExpectedDeliveryDate *string `json:"expected_delivery_date,omitempty"`
	DeliveryAddress      string  `json:"delivery_address"`
	PaymentMethod        string  `json:"payment_method"`
	DeliveryMethod       string  `json:"delivery_method"`
	OrganicCertified     bool    `json:"organic_certified"`
}

var products = []struct {
	id    string
	name  string
	price float64
}{
	{"prod-tomatoes", "San Marzano tomatoes", 3.20},
	{"prod-olive-oil", "Extra virgin olive oil", 12.50},
	{"prod-wheat", "Durum wheat", 0.85},
	{"prod-honey", "Wildflower honey", 8.00},
	{"prod-cheese", "Pecorino", 15.75},
	{"prod-wine", "Chianti", 9.90},
}

var buyers = []string{"buyer-coop-nord", "buyer-mercato-sud", "buyer-ristorante-01", "buyer-gdo-03"}
var sellers = []string{"seller-azienda-rossi", "seller-fattoria-bianchi", "seller-cantina-verdi"}

func generateRandomOrder() Order {
	items := make([]Item, 0, 1+rand.Intn(3))
	for i := 0; i < cap(items); i++ {
		p := products[rand.Intn(len(products))]
		items = append(items, Item{
			ProductID:   p.id,
			ProductName: p.name,
			Quantity:    1 + rand.Intn(50),
			UnitPrice:   p.price,
		})
	}

	var expected *string
	if rand.Intn(2) == 0 {
		d := time.Now().AddDate(0, 0, 1+rand.Intn(14)).Format(time.RFC3339)
		expected = &d
	}

	return Order{
		BuyerID:              buyers[rand.Intn(len(buyers))],
		SellerID:             sellers[rand.Intn(len(sellers))],
		Items:                items,
		ExpectedDeliveryDate: expected,
		DeliveryAddress:      fmt.Sprintf("Via Roma %d, Firenze", 1+rand.Intn(200)),
		PaymentMethod:        "bank_transfer",
		DeliveryMethod:       "refrigerated_truck",
		OrganicCertified:     rand.Intn(3) == 0,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	writer := &kafka.Writer{
		Addr:     kafka.TCP("localhost:9092"),
		Topic:    "orders",
		Balancer: &kafka.LeastBytes{},
	}
	defer writer.Close()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			order := generateRandomOrder()
			value, err := json.Marshal(order)
			if err != nil {
				log.Printf("marshal: %v", err)
				continue
			}
			if err := writer.WriteMessages(ctx, kafka.Message{Value: value}); err != nil {
				log.Printf("write: %v", err)
				continue
			}
			log.Printf("sent order for %s -> %s (%d items)", order.BuyerID, order.SellerID, len(order.Items))
		}
	}
}
