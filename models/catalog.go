package models

import "go.mongodb.org/mongo-driver/mongo"

type Brand struct {
	Record      `bson:",inline"`
	Name        string `json:"Name" bson:"Name"`
	Image       string `json:"Image,omitempty" bson:"Image,omitempty"`
	Description string `json:"Description,omitempty" bson:"Description,omitempty"`
}

var BrandSchema = Schema{
	Entity:   "brand",
	Fields:   []string{"Name", "Image", "Description"},
	Required: []string{"Name"},
}

type Part struct {
	Record            `bson:",inline"`
	ProductID         int64   `json:"ProductID" bson:"ProductID"`
	Brand             string  `json:"Brand" bson:"Brand"`
	Part              string  `json:"Part" bson:"Part"`
	DateOfSelection   string  `json:"dateOfSelection,omitempty" bson:"dateOfSelection,omitempty"`
	Viewed            int     `json:"Viewed" bson:"Viewed"`
	UserCount         int     `json:"userCount" bson:"userCount"`
	Price             float64 `json:"price" bson:"price"`
	QuantityAvailable int     `json:"quantityAvailable" bson:"quantityAvailable"`
	Image             string  `json:"Image,omitempty" bson:"Image,omitempty"`
}

var PartSchema = Schema{
	Entity: "part",
	Fields: []string{"ProductID", "Brand", "Part", "dateOfSelection", "Viewed",
		"userCount", "price", "quantityAvailable", "Image"},
	Required: []string{"ProductID", "Brand", "Part", "price", "quantityAvailable"},
	Numeric:  []string{"price"},
	Integer:  []string{"ProductID", "Viewed", "userCount", "quantityAvailable"},
	Filters:  []string{"Brand", "ProductID"},
}

func NewBrandStore(coll *mongo.Collection) *Collection[Brand] {
	return NewCollection[Brand](coll)
}

func NewPartStore(coll *mongo.Collection) *Collection[Part] {
	return NewCollection[Part](coll)
}
