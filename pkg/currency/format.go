package currency

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Format renders value using the symbol, precision and digit grouping of c.
// Rounding is half away from zero. Grouping is computed from a float64 copy of
// the already rounded value, which is exact for any amount a document will
// realistically carry.
func Format(value decimal.Decimal, c Convention) string {
	precision := c.Precision
	if precision < 0 {
		precision = 0
	}
	rounded := value.Round(int32(precision))

	printer := message.NewPrinter(c.Tag)
	digits := printer.Sprint(number.Decimal(rounded.Abs().InexactFloat64(), number.Scale(precision)))

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	switch {
	case c.Symbol == "":
		b.WriteString(digits)
	case c.SymbolAfter:
		b.WriteString(digits)
		b.WriteByte(' ')
		b.WriteString(c.Symbol)
	default:
		b.WriteString(c.Symbol)
		if r, _ := utf8.DecodeLastRuneInString(c.Symbol); unicode.IsLetter(r) {
			b.WriteByte(' ')
		}
		b.WriteString(digits)
	}
	return b.String()
}

// FormatAny formats an Amount with its own convention, and any other numeric
// value (decimal, integer, float or numeric string) with fallback.
func FormatAny(value any, fallback Convention) (string, error) {
	if amount, ok := value.(Amount); ok {
		return amount.Display(), nil
	}
	if amount, ok := value.(*Amount); ok && amount != nil {
		return amount.Display(), nil
	}
	d, err := ToDecimal(value)
	if err != nil {
		return "", err
	}
	return Format(d, fallback), nil
}

// ToDecimal converts common numeric representations into a decimal.
func ToDecimal(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, nil
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, nil
		}
		return *v, nil
	case Amount:
		return v.Value, nil
	case *Amount:
		if v == nil {
			return decimal.Zero, fmt.Errorf("currency: cannot format nil value")
		}
		return v.Value, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case uint:
		return decimal.NewFromUint64(uint64(v)), nil
	case uint64:
		return decimal.NewFromUint64(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, fmt.Errorf("currency: %q is not a number", v)
		}
		return d, nil
	case fmt.Stringer:
		return ToDecimal(v.String())
	case nil:
		return decimal.Zero, fmt.Errorf("currency: cannot format nil value")
	default:
		return decimal.Zero, fmt.Errorf("currency: cannot format %T", value)
	}
}
