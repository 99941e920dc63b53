package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSmallestUnit(t *testing.T) {
	cases := []struct {
		name     string
		amount   string
		decimals int32
		want     string
	}{
		{"whole amount", "100", 6, "100000000"},
		{"fractional", "1.5", 6, "1500000"},
		{"smallest representable", "0.000001", 6, "1"},
		{"zero", "0", 6, "0"},
		{"no decimals", "42", 0, "42"},
		{"leading zeros stripped", "0.5", 2, "50"},
		{"thousands separators", "1,234.5", 2, "123450"},
		{"bare fraction", ".5", 6, "500000"},
		{"high precision near", "1.25", 24, "1250000000000000000000000"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToSmallestUnit(tc.amount, tc.decimals)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestToSmallestUnit_Rejects(t *testing.T) {
	cases := []struct {
		name     string
		amount   string
		decimals int32
	}{
		{"empty", "", 6},
		{"not a number", "abc", 6},
		{"two dots", "1.2.3", 6},
		{"negative", "-5", 6},
		{"too many fraction digits", "0.1234567", 6},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ToSmallestUnit(tc.amount, tc.decimals)
			assert.Error(t, err)
		})
	}
}

func TestFromSmallestUnit(t *testing.T) {
	assert.Equal(t, "1.5", FromSmallestUnit("1500000", 6))
	assert.Equal(t, "0.000001", FromSmallestUnit("1", 6))
	assert.Equal(t, "0", FromSmallestUnit("0", 6))
	assert.Equal(t, "42", FromSmallestUnit("42", 0))
}

func TestUnits_RoundTrip(t *testing.T) {
	raw, err := ToSmallestUnit("12.3456", 8)
	require.NoError(t, err)
	assert.Equal(t, "1234560000", raw)
	assert.Equal(t, "12.3456", FromSmallestUnit(raw, 8))
}
