package checkout

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var priceJunk = regexp.MustCompile(`[^0-9.,]`)

// ParsePrice turns a free-form price string into a decimal amount. The
// input may carry currency symbols, whitespace and locale separators,
// e.g. "$1.234,56" or "1,234.56". Everything except digits, dots and
// commas is stripped, then the last remaining separator is taken as the
// decimal point and any earlier separators as thousands grouping.
// Unparseable input yields zero rather than an error.
func ParsePrice(raw string) decimal.Decimal {
	clean := priceJunk.ReplaceAllString(raw, "")
	clean = strings.ReplaceAll(clean, ",", ".")
	if clean == "" {
		return decimal.Zero
	}

	if idx := strings.LastIndexByte(clean, '.'); idx >= 0 {
		intPart := strings.ReplaceAll(clean[:idx], ".", "")
		clean = intPart + "." + clean[idx+1:]
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}
	return d
}
