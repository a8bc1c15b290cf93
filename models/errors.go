package models

import (
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("document already exists")
	ErrInvalidID = errors.New("invalid object id")
)

// FieldsError reports required fields absent from a create payload.
type FieldsError struct {
	Entity  string
	Missing []string
}

func (e *FieldsError) Error() string {
	return fmt.Sprintf("Missing required %s fields: %s", e.Entity, strings.Join(e.Missing, ", "))
}

// ValueError reports a field whose value could not be used.
type ValueError struct {
	Field  string
	Reason string
}

func (e *ValueError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("Invalid value for field %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("Invalid value for field %s", e.Field)
}

// ParseID converts a hex string into an ObjectID.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}
