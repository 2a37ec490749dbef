package currency

import "github.com/shopspring/decimal"

// Amount pairs a value with the convention it should be displayed in. The
// renderer places Amounts into template data so the currency filter can
// format them without any ambient locale.
type Amount struct {
	Value      decimal.Decimal
	Convention Convention
}

// NewAmount wraps value with convention c.
func NewAmount(value decimal.Decimal, c Convention) Amount {
	return Amount{Value: value, Convention: c}
}

// Display formats the amount with its convention, symbol included.
func (a Amount) Display() string {
	return Format(a.Value, a.Convention)
}

// String returns the plain number at the convention's precision. Templates
// print this when a value is used without the currency filter.
func (a Amount) String() string {
	precision := a.Convention.Precision
	if precision < 0 {
		precision = 0
	}
	return a.Value.StringFixed(int32(precision))
}
