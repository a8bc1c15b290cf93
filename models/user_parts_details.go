package models

import "go.mongodb.org/mongo-driver/mongo"

// UserPartsDetails tracks one customer's interaction with one part.
type UserPartsDetails struct {
	Record     `bson:",inline"`
	CustomerID int64   `json:"CustomerID" bson:"CustomerID"`
	ProductID  int64   `json:"ProductID" bson:"ProductID"`
	Price      float64 `json:"price" bson:"price"`
	Quantity   int     `json:"quantity" bson:"quantity"`
	InCart     bool    `json:"inCart" bson:"inCart"`
	Reviewed   bool    `json:"reviewed" bson:"reviewed"`
	CheckedOut bool    `json:"checkedOut" bson:"checkedOut"`
	Status     string  `json:"status,omitempty" bson:"status,omitempty"`
}

var UserPartsDetailsSchema = Schema{
	Entity: "user parts details",
	Fields: []string{"CustomerID", "ProductID", "price", "quantity", "inCart",
		"reviewed", "checkedOut", "status"},
	Required: []string{"CustomerID", "ProductID", "price", "quantity"},
	Numeric:  []string{"price"},
	Integer:  []string{"CustomerID", "ProductID", "quantity"},
	Filters:  []string{"CustomerID", "ProductID", "status"},
}

func NewUserPartsDetailsStore(coll *mongo.Collection) *Collection[UserPartsDetails] {
	return NewCollection[UserPartsDetails](coll)
}
