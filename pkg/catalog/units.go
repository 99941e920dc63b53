package catalog

import (
	"fmt"
	"strings"
)

// ToSmallestUnit scales a decimal amount string to an integer smallest-unit
// string by exact digit manipulation. No binary floating point is involved, so
// "1.5" with 6 decimals is always "1500000".
func ToSmallestUnit(amount string, decimals int32) (string, error) {
	amount = strings.ReplaceAll(strings.TrimSpace(amount), ",", "")
	if amount == "" {
		return "", fmt.Errorf("empty amount")
	}
	if decimals < 0 {
		return "", fmt.Errorf("negative decimals: %d", decimals)
	}

	intPart := amount
	fracPart := ""
	if i := strings.IndexByte(amount, '.'); i >= 0 {
		intPart, fracPart = amount[:i], amount[i+1:]
	}
	if intPart == "" {
		intPart = "0"
	}

	if !isDigits(intPart) || (fracPart != "" && !isDigits(fracPart)) {
		return "", fmt.Errorf("invalid amount: %q", amount)
	}
	if int32(len(fracPart)) > decimals {
		return "", fmt.Errorf("amount %q has more than %d decimal places", amount, decimals)
	}

	// Right-pad the fraction to the asset's precision and concatenate.
	fracPart += strings.Repeat("0", int(decimals)-len(fracPart))
	raw := strings.TrimLeft(intPart+fracPart, "0")
	if raw == "" {
		raw = "0"
	}

	return raw, nil
}

// FromSmallestUnit renders an integer smallest-unit string back into a decimal
// amount, trimming trailing fractional zeros.
func FromSmallestUnit(raw string, decimals int32) string {
	raw = strings.TrimLeft(strings.TrimSpace(raw), "0")
	if raw == "" {
		return "0"
	}
	if decimals <= 0 {
		return raw
	}

	if int32(len(raw)) <= decimals {
		raw = strings.Repeat("0", int(decimals)-len(raw)+1) + raw
	}

	cut := len(raw) - int(decimals)
	intPart, fracPart := raw[:cut], raw[cut:]
	fracPart = strings.TrimRight(fracPart, "0")
	if fracPart == "" {
		return intPart
	}

	return intPart + "." + fracPart
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
