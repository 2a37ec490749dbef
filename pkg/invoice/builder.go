package invoice

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-invoicegen/internal/ordered"
)

// DateLayout is the format used for the generation and expiry dates.
const DateLayout = "2006-01-02"

// DefaultExpiryMonths is how far past the generation date an unspecified
// expiry lands.
const DefaultExpiryMonths = 6

// Options are the inputs for one document.
type Options struct {
	Number        string
	Items         []Record
	Payee         map[string]any
	Payer         map[string]any
	Stylesheet    string
	TaxRate       decimal.Decimal
	International bool
	Quote         bool
	// Expiry is used verbatim when set; otherwise it defaults to the
	// generation date plus DefaultExpiryMonths, for invoices and quotes alike.
	Expiry        string
	PurchaseOrder *string
	Overrides     map[string]any
}

// Option customises a Builder.
type Option func(*Builder)

// WithClock replaces time.Now as the source of the generation date.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// Builder computes Documents. A Builder holds no per-document state.
type Builder struct {
	now func() time.Time
}

// NewBuilder constructs a Builder.
func NewBuilder(options ...Option) *Builder {
	b := &Builder{now: time.Now}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Build computes a Document using a default Builder.
func Build(opts Options) (*Document, error) {
	return NewBuilder().Build(opts)
}

// Build groups the line items into sections, computes every total and
// assembles the Document. Any malformed line or missing record aborts the
// build; no partial document is returned.
func (b *Builder) Build(opts Options) (*Document, error) {
	payee, err := ResolvePayee(opts.Payee, opts.International)
	if err != nil {
		return nil, err
	}
	if opts.Payer == nil {
		return nil, &MissingFieldError{Record: "payer"}
	}

	sections, err := groupSections(opts.Items)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for i := range sections {
		total := decimal.Zero
		for _, line := range sections[i].Lines {
			total = total.Add(line.Total)
		}
		sections[i].Total = total
		subtotal = subtotal.Add(total)
	}

	tax := subtotal.Mul(opts.TaxRate)
	total := subtotal.Add(tax)

	today := b.now()
	expiry := opts.Expiry
	if expiry == "" {
		expiry = AddMonths(today, DefaultExpiryMonths).Format(DateLayout)
	}

	var purchaseOrder *string
	if opts.PurchaseOrder != nil {
		po := *opts.PurchaseOrder
		purchaseOrder = &po
	}

	doc := &Document{
		Context: Context{
			IsInvoice:       !opts.Quote,
			IsQuote:         opts.Quote,
			IsDomestic:      !opts.International,
			IsInternational: opts.International,
			Number:          opts.Number,
			Date:            today.Format(DateLayout),
			Expiry:          expiry,
			PurchaseOrder:   purchaseOrder,
			Payee:           payee,
			Payer:           opts.Payer,
			Sections:        sections,
			Subtotal:        subtotal,
			TaxRate:         opts.TaxRate,
			Tax:             tax,
			Total:           total,
			Stylesheet:      opts.Stylesheet,
		},
	}
	if len(opts.Overrides) > 0 {
		doc.Overlay = make(Overlay, len(opts.Overrides))
		for key, value := range opts.Overrides {
			doc.Overlay[key] = value
		}
	}
	return doc, nil
}

// ResolvePayee applies the domestic/international convention: a payee record
// carrying both keys is replaced by the sub-record matching international.
func ResolvePayee(payee map[string]any, international bool) (map[string]any, error) {
	if payee == nil {
		return nil, &MissingFieldError{Record: "payee"}
	}
	_, hasDomestic := payee["domestic"]
	_, hasInternational := payee["international"]
	if !hasDomestic || !hasInternational {
		return payee, nil
	}

	key := "domestic"
	if international {
		key = "international"
	}
	selected, ok := asRecord(payee[key])
	if !ok {
		return nil, &MissingFieldError{Record: "payee", Field: key}
	}
	return selected, nil
}

func asRecord(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, v != nil
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			name, ok := key.(string)
			if !ok {
				return nil, false
			}
			out[name] = item
		}
		return out, true
	default:
		return nil, false
	}
}

func groupSections(items []Record) ([]Section, error) {
	groups := ordered.New[string, Section](4)
	for i, record := range items {
		line, err := parseLine(i+1, record)
		if err != nil {
			return nil, err
		}
		name := record[FieldSection]
		section := groups.Upsert(name, func() Section {
			return Section{Description: name}
		})
		section.Lines = append(section.Lines, line)
	}
	return groups.Values(), nil
}

func parseLine(lineNo int, record Record) (LineItem, error) {
	for _, field := range []string{FieldItem, FieldUnits, FieldQuantity, FieldPrice} {
		if _, ok := record[field]; !ok {
			return LineItem{}, &MissingFieldError{Record: "line item", Line: lineNo, Field: field}
		}
	}

	quantity, err := ParseQuantity(record[FieldQuantity])
	if err != nil {
		return LineItem{}, &DataFormatError{Line: lineNo, Field: FieldQuantity, Value: record[FieldQuantity], Err: err}
	}
	price, err := decimal.NewFromString(strings.TrimSpace(record[FieldPrice]))
	if err != nil {
		return LineItem{}, &DataFormatError{Line: lineNo, Field: FieldPrice, Value: record[FieldPrice], Err: err}
	}

	return LineItem{
		Description: record[FieldItem],
		Units:       record[FieldUnits],
		Quantity:    quantity,
		Price:       price,
		Total:       price.Mul(quantity.Value),
	}, nil
}

// AddMonths adds n calendar months to t, clamping the day to the last day of
// the target month (Aug 31 + 6 months is Feb 28/29).
func AddMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, n, 0)
	last := target.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return target.AddDate(0, 0, day-1)
}
