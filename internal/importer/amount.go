package importer

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var errInvalidAmount = errors.New("invalid amount")

// parseAmount converts a spreadsheet amount into cents.
//
// Accepted: "12.50", "12,50", "1,234.56", "1.234,56", "1 234,56", optionally prefixed by a
// currency symbol. When both separators appear the last one is the decimal separator. A lone
// comma is decimal only when followed by one or two digits.
func parseAmount(s string) (int64, error) {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			return r
		}

		return -1
	}, s)

	if clean == "" {
		return 0, errInvalidAmount
	}

	lastDot := strings.LastIndex(clean, ".")
	lastComma := strings.LastIndex(clean, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0 && lastComma > lastDot:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	case lastDot >= 0 && lastComma >= 0:
		clean = strings.ReplaceAll(clean, ",", "")
	case lastComma >= 0 && len(clean)-lastComma-1 <= 2 && strings.Count(clean, ",") == 1:
		clean = strings.Replace(clean, ",", ".", 1)
	case lastComma >= 0:
		clean = strings.ReplaceAll(clean, ",", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, errInvalidAmount
	}

	if d.IsNegative() {
		return 0, errInvalidAmount
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}
