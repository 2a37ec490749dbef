package render

import (
	"github.com/shopspring/decimal"

	"github.com/goliatone/go-invoicegen/pkg/currency"
	"github.com/goliatone/go-invoicegen/pkg/invoice"
)

// moneyKeys are top-level keys whose overlay values are treated as amounts
// when they parse as numbers.
var moneyKeys = map[string]struct{}{
	"subtotal": {},
	"tax":      {},
	"total":    {},
}

// plainKeys hold decimals that are not money.
var plainKeys = map[string]struct{}{
	"tax_rate": {},
}

// View builds the template data for doc: the merged document values with
// every computed decimal wrapped as a currency.Amount in convention c.
// Amounts are structs and always truthy in templates, so the view also
// carries has_tax for templates that show a tax row only when one applies,
// taken from the tax value after overrides.
func View(doc *invoice.Document, c currency.Convention) map[string]any {
	values := doc.Context.Values()
	view := make(map[string]any, len(values)+1)
	for key, value := range values {
		if _, plain := plainKeys[key]; plain {
			view[key] = value
			continue
		}
		view[key] = wrapMoney(value, c)
	}

	for key, value := range doc.Overlay {
		if _, money := moneyKeys[key]; money {
			if d, err := currency.ToDecimal(value); err == nil {
				view[key] = currency.NewAmount(d, c)
				continue
			}
		}
		view[key] = value
	}
	hasTax := !doc.Context.Tax.IsZero()
	if d, err := currency.ToDecimal(view["tax"]); err == nil {
		hasTax = !d.IsZero()
	}
	view["has_tax"] = hasTax
	return view
}

func wrapMoney(value any, c currency.Convention) any {
	switch v := value.(type) {
	case decimal.Decimal:
		return currency.NewAmount(v, c)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = wrapMoney(item, c)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = wrapMoney(item, c)
		}
		return out
	default:
		return value
	}
}
