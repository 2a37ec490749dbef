package invoice

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Line item column names as they appear in the CSV header.
const (
	FieldItem     = "Item"
	FieldUnits    = "Units"
	FieldQuantity = "Quantity"
	FieldPrice    = "Price"
	FieldSection  = "Section"
)

// Record is one raw line item keyed by column name.
type Record map[string]string

// Quantity is a line item quantity. Integer records whether the source text
// was written without a decimal point, which only changes how it is printed.
type Quantity struct {
	Value   decimal.Decimal
	Integer bool
}

// ParseQuantity parses raw as an integer when it has no '.', as a decimal
// otherwise. Exponent notation is only accepted on the decimal path.
func ParseQuantity(raw string) (Quantity, error) {
	text := strings.TrimSpace(raw)
	integer := !strings.Contains(text, ".")
	if integer && strings.ContainsAny(text, "eE") {
		return Quantity{}, fmt.Errorf("%q is not an integer", text)
	}
	value, err := decimal.NewFromString(text)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: value, Integer: integer}, nil
}

func (q Quantity) String() string {
	if q.Integer {
		return q.Value.StringFixed(0)
	}
	s := q.Value.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (q Quantity) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

func (q *Quantity) UnmarshalText(text []byte) error {
	parsed, err := ParseQuantity(string(text))
	if err != nil {
		return fmt.Errorf("invoice: quantity %q: %w", string(text), err)
	}
	*q = parsed
	return nil
}

// MarshalJSON emits the quantity as a bare JSON number.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.String()), nil
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		text = string(data)
	}
	return q.UnmarshalText([]byte(text))
}

// LineItem is a parsed line with its computed total.
type LineItem struct {
	Description string          `json:"description" yaml:"description"`
	Units       string          `json:"units" yaml:"units"`
	Quantity    Quantity        `json:"quantity" yaml:"quantity"`
	Price       decimal.Decimal `json:"price" yaml:"price"`
	Total       decimal.Decimal `json:"total" yaml:"total"`
}

// Values returns the template view of the line.
func (l LineItem) Values() map[string]any {
	return map[string]any{
		"description": l.Description,
		"units":       l.Units,
		"quantity":    l.Quantity,
		"price":       l.Price,
		"total":       l.Total,
	}
}

// Section groups the lines that share a Section column value.
type Section struct {
	Description string          `json:"description" yaml:"description"`
	Lines       []LineItem      `json:"lines" yaml:"lines"`
	Total       decimal.Decimal `json:"total" yaml:"total"`
}

// Values returns the template view of the section.
func (s Section) Values() map[string]any {
	lines := make([]any, 0, len(s.Lines))
	for _, line := range s.Lines {
		lines = append(lines, line.Values())
	}
	return map[string]any{
		"description": s.Description,
		"lines":       lines,
		"total":       s.Total,
	}
}

// Context is the fully computed invoice or quote.
type Context struct {
	IsInvoice       bool            `json:"is_invoice" yaml:"is_invoice"`
	IsQuote         bool            `json:"is_quote" yaml:"is_quote"`
	IsDomestic      bool            `json:"is_domestic" yaml:"is_domestic"`
	IsInternational bool            `json:"is_international" yaml:"is_international"`
	Number          string          `json:"number" yaml:"number"`
	Date            string          `json:"date" yaml:"date"`
	Expiry          string          `json:"expiry" yaml:"expiry"`
	PurchaseOrder   *string         `json:"purchase_order" yaml:"purchase_order"`
	Payee           map[string]any  `json:"payee" yaml:"payee"`
	Payer           map[string]any  `json:"payer" yaml:"payer"`
	Sections        []Section       `json:"sections" yaml:"sections"`
	Subtotal        decimal.Decimal `json:"subtotal" yaml:"subtotal"`
	TaxRate         decimal.Decimal `json:"tax_rate" yaml:"tax_rate"`
	Tax             decimal.Decimal `json:"tax" yaml:"tax"`
	Total           decimal.Decimal `json:"total" yaml:"total"`
	Stylesheet      string          `json:"stylesheet" yaml:"stylesheet"`
}

// Values returns the template view of the context keyed by the same names
// used in dumps.
func (c Context) Values() map[string]any {
	sections := make([]any, 0, len(c.Sections))
	for _, section := range c.Sections {
		sections = append(sections, section.Values())
	}
	var purchaseOrder any
	if c.PurchaseOrder != nil {
		purchaseOrder = *c.PurchaseOrder
	}
	return map[string]any{
		"is_invoice":       c.IsInvoice,
		"is_quote":         c.IsQuote,
		"is_domestic":      c.IsDomestic,
		"is_international": c.IsInternational,
		"number":           c.Number,
		"date":             c.Date,
		"expiry":           c.Expiry,
		"purchase_order":   purchaseOrder,
		"payee":            c.Payee,
		"payer":            c.Payer,
		"sections":         sections,
		"subtotal":         c.Subtotal,
		"tax_rate":         c.TaxRate,
		"tax":              c.Tax,
		"total":            c.Total,
		"stylesheet":       c.Stylesheet,
	}
}

// Overlay holds caller supplied values that take precedence over computed
// context fields when a template looks a key up.
type Overlay map[string]any

// Document is the builder result: the computed context and the overrides
// layered on top of it.
type Document struct {
	Context Context
	Overlay Overlay
}

// Values merges the overlay over the context view. The typed Context is left
// untouched.
func (d *Document) Values() map[string]any {
	if d == nil {
		return map[string]any{}
	}
	values := d.Context.Values()
	for key, value := range d.Overlay {
		values[key] = value
	}
	return values
}

// Lookup resolves a single top-level key, consulting the overlay first.
func (d *Document) Lookup(key string) (any, bool) {
	if d == nil {
		return nil, false
	}
	if value, ok := d.Overlay[key]; ok {
		return value, true
	}
	value, ok := d.Context.Values()[key]
	return value, ok
}

// MarshalJSON serialises the merged view.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Values())
}

// MarshalYAML serialises the merged view.
func (d *Document) MarshalYAML() (any, error) {
	return d.Values(), nil
}
