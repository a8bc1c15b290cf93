package db

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type indexSpec struct {
	coll  *mongo.Collection
	model mongo.IndexModel
}

// EnsureIndexes creates the unique indexes backing duplicate-email and
// duplicate-cart-item rejection, plus lookup indexes on CustomerID. Failures
// are logged and returned; existing duplicate data makes a unique index fail.
func EnsureIndexes(ctx context.Context, c Collections) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	specs := []indexSpec{
		{c.Users, mongo.IndexModel{
			Keys:    bson.D{{Key: "Email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		}},
		{c.Cart, mongo.IndexModel{
			Keys:    bson.D{{Key: "CustomerID", Value: 1}, {Key: "itemId", Value: 1}},
			Options: options.Index().SetName("customer_item_unique").SetUnique(true),
		}},
		{c.Orders, mongo.IndexModel{
			Keys:    bson.D{{Key: "CustomerID", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("customer_created"),
		}},
		{c.UserLocations, mongo.IndexModel{
			Keys:    bson.D{{Key: "CustomerID", Value: 1}},
			Options: options.Index().SetName("customer"),
		}},
		{c.UserPartsDetails, mongo.IndexModel{
			Keys:    bson.D{{Key: "CustomerID", Value: 1}, {Key: "ProductID", Value: 1}},
			Options: options.Index().SetName("customer_product"),
		}},
		{c.FeedbackRatings, mongo.IndexModel{
			Keys:    bson.D{{Key: "productId", Value: 1}},
			Options: options.Index().SetName("product"),
		}},
	}

	var firstErr error
	for _, s := range specs {
		name, err := s.coll.Indexes().CreateOne(ctx, s.model)
		if err != nil {
			log.Printf("[DB] [WARN] index on %s failed: %v", s.coll.Name(), err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		log.Printf("[DB] index %s.%s ready", s.coll.Name(), name)
	}
	return firstErr
}
