package utils

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := map[string]struct {
		in   any
		want float64
	}{
		"float":          {in: 12.5, want: 12.5},
		"int":            {in: 3, want: 3},
		"json number":    {in: json.Number("42"), want: 42},
		"plain string":   {in: "199.99", want: 199.99},
		"rand prefix":    {in: "R120.50", want: 120.5},
		"spaced prefix":  {in: "R 1,250.00", want: 1250},
		"zar prefix":     {in: "ZAR 80", want: 80},
		"dollar":         {in: "$5", want: 5},
		"negative coord": {in: "-26.2041", want: -26.2041},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := ParseAmount(tc.in)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestParseAmountRejects(t *testing.T) {
	for _, in := range []any{"", "R", "abc", true, nil, []any{1}} {
		_, err := ParseAmount(in)
		assert.Error(t, err, "input %v", in)
	}
}

func TestParseAmountRejectsNonFinite(t *testing.T) {
	for _, in := range []any{"NaN", "nan", "Inf", "-Inf", "Infinity", "R Infinity", math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := ParseAmount(in)
		assert.ErrorIs(t, err, ErrNotFinite, "input %v", in)
	}
}
