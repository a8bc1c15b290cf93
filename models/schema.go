package models

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/BritneyNunes/NunesAutoBackEnd/utils"
	"go.mongodb.org/mongo-driver/bson"
)

// Schema describes how a JSON payload maps onto one document type.
type Schema struct {
	Entity   string
	Fields   []string // every writable key
	Required []string
	Numeric  []string // stored as float64
	Integer  []string // stored as int64
	Text     []string // numbers are accepted and stored as strings
	Filters  []string // query parameters accepted by List

	// Normalize runs after coercion on both create and update payloads.
	Normalize func(payload map[string]any) error
}

// Prepare validates and coerces a create payload. Unknown keys are dropped.
func (s Schema) Prepare(payload map[string]any) (map[string]any, error) {
	clean := s.known(payload)

	var missing []string
	for _, f := range s.Required {
		if isBlank(clean[f]) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &FieldsError{Entity: s.Entity, Missing: missing}
	}

	if err := s.coerce(clean); err != nil {
		return nil, err
	}
	return clean, nil
}

// UpdateSet turns a partial update payload into a $set document.
func (s Schema) UpdateSet(payload map[string]any) (bson.M, error) {
	clean := s.known(payload)
	if len(clean) == 0 {
		return nil, &ValueError{Field: "payload", Reason: "no updatable " + s.Entity + " fields"}
	}
	for _, f := range s.Required {
		if v, ok := clean[f]; ok && isBlank(v) {
			return nil, &ValueError{Field: f, Reason: "must not be empty"}
		}
	}
	if err := s.coerce(clean); err != nil {
		return nil, err
	}
	return bson.M(clean), nil
}

// Decode copies a prepared payload into out through BSON, so bson tags
// decide the mapping.
func (s Schema) Decode(payload map[string]any, out any) error {
	raw, err := bson.Marshal(bson.M(payload))
	if err != nil {
		return &ValueError{Field: "payload", Reason: err.Error()}
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		return &ValueError{Field: "payload", Reason: err.Error()}
	}
	return nil
}

// Filter builds an equality filter from the accepted query parameters.
func (s Schema) Filter(query url.Values) (bson.M, error) {
	filter := bson.M{}
	for _, key := range s.Filters {
		raw := strings.TrimSpace(query.Get(key))
		if raw == "" {
			continue
		}
		filter[key] = raw
	}
	if err := s.coerce(filter); err != nil {
		return nil, err
	}
	return filter, nil
}

func (s Schema) known(payload map[string]any) map[string]any {
	clean := make(map[string]any, len(payload))
	for _, f := range s.Fields {
		if v, ok := payload[f]; ok {
			clean[f] = v
		}
	}
	return clean
}

func (s Schema) coerce(m map[string]any) error {
	for _, f := range s.Numeric {
		v, ok := m[f]
		if !ok {
			continue
		}
		if isBlank(v) {
			delete(m, f)
			continue
		}
		n, err := utils.ParseAmount(v)
		if err != nil {
			return &ValueError{Field: f}
		}
		m[f] = n
	}
	for _, f := range s.Integer {
		v, ok := m[f]
		if !ok {
			continue
		}
		if isBlank(v) {
			delete(m, f)
			continue
		}
		n, err := ToInt64(v)
		if err != nil {
			return &ValueError{Field: f, Reason: err.Error()}
		}
		m[f] = n
	}
	for _, f := range s.Text {
		switch v := m[f].(type) {
		case float64:
			m[f] = strconv.FormatFloat(v, 'f', -1, 64)
		case int64:
			m[f] = strconv.FormatInt(v, 10)
		case int:
			m[f] = strconv.Itoa(v)
		}
	}
	if s.Normalize != nil {
		return s.Normalize(m)
	}
	return nil
}

var (
	errNotNumeric = errors.New("must be numeric")
	errNotWhole   = errors.New("must be a whole number")
)

// ToInt64 coerces a JSON value into a whole number.
func ToInt64(v any) (int64, error) {
	n, err := utils.ParseAmount(v)
	if err != nil {
		return 0, errNotNumeric
	}
	if n < -(1<<63) || n >= 1<<63 {
		return 0, errNotNumeric
	}
	if n != math.Trunc(n) {
		return 0, errNotWhole
	}
	return int64(n), nil
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}
