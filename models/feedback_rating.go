package models

import "go.mongodb.org/mongo-driver/mongo"

type FeedbackRating struct {
	Record     `bson:",inline"`
	CustomerID int64  `json:"customerId" bson:"customerId"` // who left the feedback
	ProductID  int64  `json:"productId" bson:"productId"`   // part being rated
	Message    string `json:"Message" bson:"Message"`
	Rating     int    `json:"Rating" bson:"Rating"` // 1-5 stars
}

var FeedbackRatingSchema = Schema{
	Entity:   "feedback rating",
	Fields:   []string{"customerId", "productId", "Message", "Rating"},
	Required: []string{"customerId", "productId", "Message", "Rating"},
	Integer:  []string{"customerId", "productId", "Rating"},
	Filters:  []string{"customerId", "productId"},
	Normalize: func(m map[string]any) error {
		if r, ok := m["Rating"].(int64); ok && (r < 1 || r > 5) {
			return &ValueError{Field: "Rating", Reason: "must be between 1 and 5"}
		}
		return nil
	},
}

func NewFeedbackRatingStore(coll *mongo.Collection) *Collection[FeedbackRating] {
	return NewCollection[FeedbackRating](coll)
}
