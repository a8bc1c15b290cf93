package models

import (
	"context"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderItem struct {
	ItemID   string  `json:"itemId" bson:"itemId"`
	Name     string  `json:"Name" bson:"Name"`
	Brand    string  `json:"Brand,omitempty" bson:"Brand,omitempty"`
	Image    string  `json:"Image,omitempty" bson:"Image,omitempty"`
	Price    float64 `json:"Price" bson:"Price"`
	Quantity int     `json:"Quantity" bson:"Quantity"`
}

type Order struct {
	Record         `bson:",inline"`
	CustomerID     int64       `json:"CustomerID" bson:"CustomerID"`
	OrderReference string      `json:"OrderReference" bson:"OrderReference"`
	Items          []OrderItem `json:"Items" bson:"Items"`
	Location       string      `json:"Location" bson:"Location"`
	TotalExclVAT   float64     `json:"TotalExclVAT" bson:"TotalExclVAT"`
	VAT            float64     `json:"VAT" bson:"VAT"`
	TotalInclVAT   float64     `json:"TotalInclVAT" bson:"TotalInclVAT"`
	PaymentMethod  string      `json:"paymentMethod" bson:"paymentMethod"`
	PaymentStatus  string      `json:"paymentStatus" bson:"paymentStatus"`
	ChargeID       string      `json:"chargeId,omitempty" bson:"chargeId,omitempty"`
	Delivery       string      `json:"Delivery,omitempty" bson:"Delivery,omitempty"`
	Status         string      `json:"status" bson:"status"`
}

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

var orderItemSchema = Schema{
	Entity:  "order item",
	Fields:  []string{"itemId", "Name", "Brand", "Image", "Price", "Quantity"},
	Numeric: []string{"Price"},
	Integer: []string{"Quantity"},
	Text:    []string{"itemId"},
	Normalize: func(m map[string]any) error {
		if q, ok := m["Quantity"].(int64); ok && q < 1 {
			return &ValueError{Field: "Quantity", Reason: "must be at least 1"}
		}
		if p, ok := m["Price"].(float64); ok && p < 0 {
			return &ValueError{Field: "Price", Reason: "must not be negative"}
		}
		return nil
	},
}

var OrderSchema = Schema{
	Entity: "order",
	Fields: []string{"CustomerID", "OrderReference", "Items", "Location", "TotalExclVAT",
		"VAT", "TotalInclVAT", "paymentMethod", "paymentStatus", "Delivery", "status"},
	Required:  []string{"CustomerID", "Items", "Location", "paymentMethod"},
	Numeric:   []string{"TotalExclVAT", "VAT", "TotalInclVAT"},
	Integer:   []string{"CustomerID"},
	Text:      []string{"OrderReference", "Delivery"},
	Filters:   []string{"CustomerID", "status", "paymentStatus"},
	Normalize: normalizeOrderItems,
}

func normalizeOrderItems(m map[string]any) error {
	raw, ok := m["Items"]
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return &ValueError{Field: "Items", Reason: "must be a list"}
	}
	items := make([]any, 0, len(list))
	for _, entry := range list {
		item, ok := entry.(map[string]any)
		if !ok {
			return &ValueError{Field: "Items", Reason: "each item must be an object"}
		}
		clean := orderItemSchema.known(item)
		if err := orderItemSchema.coerce(clean); err != nil {
			return err
		}
		if _, ok := clean["Quantity"]; !ok {
			clean["Quantity"] = int64(1)
		}
		items = append(items, clean)
	}
	m["Items"] = items
	return nil
}

// Totals computes the order totals from its items, using rate as the VAT
// fraction (0.15 for 15%).
func (o *Order) Totals(rate float64) (excl, vat, incl float64) {
	var sum float64
	for _, it := range o.Items {
		sum += it.Price * float64(it.Quantity)
	}
	excl = roundCents(sum)
	vat = roundCents(excl * rate)
	return excl, vat, roundCents(excl + vat)
}

// ApplyTotals sets the totals from the items. A total the client sent that
// disagrees with the items is a ValueError.
func (o *Order) ApplyTotals(rate float64) error {
	excl, vat, incl := o.Totals(rate)
	for _, t := range []struct {
		field     string
		got, want float64
	}{
		{"TotalExclVAT", o.TotalExclVAT, excl},
		{"VAT", o.VAT, vat},
		{"TotalInclVAT", o.TotalInclVAT, incl},
	} {
		if t.got != 0 && roundCents(t.got) != t.want {
			return &ValueError{Field: t.field, Reason: "does not match the order items"}
		}
	}
	o.TotalExclVAT, o.VAT, o.TotalInclVAT = excl, vat, incl
	return nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

type OrderStore struct {
	*Collection[Order]
}

func NewOrderStore(coll *mongo.Collection) *OrderStore {
	return &OrderStore{Collection: NewCollection[Order](coll)}
}

func (s *OrderStore) ForCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	return s.Find(ctx, bson.M{"CustomerID": customerID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}
