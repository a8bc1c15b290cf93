package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CartItem struct {
	Record     `bson:",inline"`
	CustomerID int64   `json:"CustomerID" bson:"CustomerID"`
	ItemID     string  `json:"itemId" bson:"itemId"`
	Name       string  `json:"Name" bson:"Name"`
	Price      float64 `json:"Price" bson:"Price"`
	Image      string  `json:"Image,omitempty" bson:"Image,omitempty"`
	Brand      string  `json:"Brand,omitempty" bson:"Brand,omitempty"`
	Quantity   int     `json:"Quantity" bson:"Quantity"`
}

var CartSchema = Schema{
	Entity:   "cart item",
	Fields:   []string{"CustomerID", "itemId", "Name", "Price", "Image", "Brand", "Quantity"},
	Required: []string{"CustomerID", "itemId", "Name", "Price", "Quantity"},
	Numeric:  []string{"Price"},
	Integer:  []string{"CustomerID", "Quantity"},
	Text:     []string{"itemId"},
	Normalize: func(m map[string]any) error {
		if q, ok := m["Quantity"].(int64); ok && q < 1 {
			return &ValueError{Field: "Quantity", Reason: "must be at least 1"}
		}
		return nil
	},
}

type CartStore struct {
	*Collection[CartItem]
}

func NewCartStore(coll *mongo.Collection) *CartStore {
	return &CartStore{Collection: NewCollection[CartItem](coll)}
}

func (s *CartStore) ForCustomer(ctx context.Context, customerID int64) ([]CartItem, error) {
	return s.Find(ctx, bson.M{"CustomerID": customerID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

// Add inserts item unless the customer already has the same itemId.
func (s *CartStore) Add(ctx context.Context, item *CartItem) (primitive.ObjectID, error) {
	return s.InsertIfAbsent(ctx, bson.M{"CustomerID": item.CustomerID, "itemId": item.ItemID}, item)
}

// Remove deletes one of the customer's cart records, matched either by its
// own id or by the part's itemId.
func (s *CartStore) Remove(ctx context.Context, customerID int64, ref string) error {
	filter := bson.M{"CustomerID": customerID, "itemId": ref}
	if oid, err := primitive.ObjectIDFromHex(ref); err == nil {
		filter = bson.M{
			"CustomerID": customerID,
			"$or":        bson.A{bson.M{"_id": oid}, bson.M{"itemId": ref}},
		}
	}
	return s.DeleteOne(ctx, filter)
}

func (s *CartStore) Clear(ctx context.Context, customerID int64) (int64, error) {
	return s.DeleteMany(ctx, bson.M{"CustomerID": customerID})
}

// PurgeOlderThan removes cart records added before cutoff.
func (s *CartStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.DeleteMany(ctx, bson.M{"createdAt": bson.M{"$lt": cutoff}})
}
