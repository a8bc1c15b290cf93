package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names used by the storefront.
const (
	UsersCollection            = "Users"
	BrandsCollection           = "Brands"
	PartsCollection            = "Parts"
	CartCollection             = "Cart"
	OrdersCollection           = "Orders"
	UserLocationsCollection    = "UserLocations"
	UserPartsDetailsCollection = "UserPartsDetails"
	FeedbackRatingsCollection  = "FeedbackRatings"
)

// Collections holds every handle the API needs. It is built once at startup
// and passed to the stores.
type Collections struct {
	Users            *mongo.Collection
	Brands           *mongo.Collection
	Parts            *mongo.Collection
	Cart             *mongo.Collection
	Orders           *mongo.Collection
	UserLocations    *mongo.Collection
	UserPartsDetails *mongo.Collection
	FeedbackRatings  *mongo.Collection
}

func NewCollections(database *mongo.Database) Collections {
	return Collections{
		Users:            database.Collection(UsersCollection),
		Brands:           database.Collection(BrandsCollection),
		Parts:            database.Collection(PartsCollection),
		Cart:             database.Collection(CartCollection),
		Orders:           database.Collection(OrdersCollection),
		UserLocations:    database.Collection(UserLocationsCollection),
		UserPartsDetails: database.Collection(UserPartsDetailsCollection),
		FeedbackRatings:  database.Collection(FeedbackRatingsCollection),
	}
}

// Connect opens the client and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Println("[DB] connected to MongoDB")
	return client, nil
}

// Disconnect closes the client, logging rather than failing.
func Disconnect(client *mongo.Client) {
	if client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		log.Println("[DB] failed to disconnect MongoDB:", err)
		return
	}
	log.Println("[DB] disconnected from MongoDB")
}

// Ping reports whether the primary is reachable.
func Ping(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, readpref.Primary())
}
