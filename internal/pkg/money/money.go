// Package money renders Rupiah amounts for display.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

const symbol = "Rp "

// FormatRupiah renders an amount as "Rp 350.000": rounded to whole rupiah, dot thousands separator.
func FormatRupiah(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}

	if neg {
		return "-" + symbol + b.String()
	}
	return symbol + b.String()
}

// FormatOptional renders "-" for an unset or zero amount.
func FormatOptional(d decimal.NullDecimal) string {
	if !d.Valid || d.Decimal.IsZero() {
		return "-"
	}
	return FormatRupiah(d.Decimal)
}
