package models

import "go.mongodb.org/mongo-driver/mongo"

type UserLocation struct {
	Record        `bson:",inline"`
	CustomerID    int64   `json:"CustomerID" bson:"CustomerID"`
	StreetAddress string  `json:"StreetAddress" bson:"StreetAddress"`
	Suburb        string  `json:"Suburb,omitempty" bson:"Suburb,omitempty"`
	City          string  `json:"City" bson:"City"`
	Province      string  `json:"Province,omitempty" bson:"Province,omitempty"`
	PostalCode    string  `json:"PostalCode,omitempty" bson:"PostalCode,omitempty"`
	PhoneNumber   string  `json:"PhoneNumber,omitempty" bson:"PhoneNumber,omitempty"` // delivery contact
	Latitude      float64 `json:"Latitude" bson:"Latitude"`
	Longitude     float64 `json:"Longitude" bson:"Longitude"`
	IsDefault     bool    `json:"isDefault" bson:"isDefault"`
}

var UserLocationSchema = Schema{
	Entity: "user location",
	Fields: []string{"CustomerID", "StreetAddress", "Suburb", "City", "Province",
		"PostalCode", "PhoneNumber", "Latitude", "Longitude", "isDefault"},
	Required: []string{"CustomerID", "StreetAddress", "City", "Latitude", "Longitude"},
	Numeric:  []string{"Latitude", "Longitude"},
	Integer:  []string{"CustomerID"},
	Text:     []string{"PostalCode", "PhoneNumber"},
	Filters:  []string{"CustomerID"},
	Normalize: func(m map[string]any) error {
		if lat, ok := m["Latitude"].(float64); ok && (lat < -90 || lat > 90) {
			return &ValueError{Field: "Latitude", Reason: "must be between -90 and 90"}
		}
		if lng, ok := m["Longitude"].(float64); ok && (lng < -180 || lng > 180) {
			return &ValueError{Field: "Longitude", Reason: "must be between -180 and 180"}
		}
		return nil
	},
}

func NewUserLocationStore(coll *mongo.Collection) *Collection[UserLocation] {
	return NewCollection[UserLocation](coll)
}
