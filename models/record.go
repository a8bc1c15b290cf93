package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Record is embedded inline in every stored document.
type Record struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Stamp sets createdAt on first use and always refreshes updatedAt.
func (r *Record) Stamp(now time.Time) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
}

func (r *Record) SetRecordID(id primitive.ObjectID) {
	r.ID = id
}
