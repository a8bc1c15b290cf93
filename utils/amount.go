package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// currency markers the storefront puts in front of prices, longest first
var amountPrefixes = []string{"ZAR", "R", "$", "€", "£", "฿"}

var ErrNotFinite = errors.New("amount must be a finite number")

// ParseAmount converts a JSON-decoded value into a float64. Strings may carry
// a currency marker, spaces and thousands separators ("R 1,250.00"). NaN and
// infinities are rejected.
func ParseAmount(v any) (float64, error) {
	n, err := parseAmount(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, ErrNotFinite
	}
	return n, nil
}

func parseAmount(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		return parseAmountString(n)
	default:
		return 0, fmt.Errorf("unsupported numeric value %v (%T)", v, v)
	}
}

func parseAmountString(s string) (float64, error) {
	s = strings.TrimSpace(s)
	upper := strings.ToUpper(s)
	for _, p := range amountPrefixes {
		if strings.HasPrefix(upper, p) {
			s = s[len(p):]
			break
		}
	}
	s = strings.NewReplacer(" ", "", ",", "", "\u00a0", "").Replace(s)
	if s == "" {
		return 0, fmt.Errorf("empty numeric value")
	}
	return strconv.ParseFloat(s, 64)
}
