package invoice

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func fixedClock(date string) Option {
	return WithClock(func() time.Time {
		t, err := time.Parse(DateLayout, date)
		if err != nil {
			panic(err)
		}
		return t
	})
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleOptions() Options {
	return Options{
		Number: "INV-001",
		Items: []Record{
			{"Item": "Widget", "Units": "ea", "Quantity": "2", "Price": "10.00", "Section": "Goods"},
			{"Item": "Labour", "Units": "hr", "Quantity": "1.5", "Price": "50.00", "Section": ""},
		},
		Payee: map[string]any{"name": "Acme"},
		Payer: map[string]any{"name": "Globex"},
	}
}

func TestBuild_EndToEndScenario(t *testing.T) {
	doc, err := NewBuilder(fixedClock("2024-01-15")).Build(sampleOptions())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := []Section{
		{
			Description: "Goods",
			Lines: []LineItem{{
				Description: "Widget", Units: "ea",
				Quantity: Quantity{Value: dec("2"), Integer: true},
				Price:    dec("10.00"), Total: dec("20.00"),
			}},
			Total: dec("20.00"),
		},
		{
			Description: "",
			Lines: []LineItem{{
				Description: "Labour", Units: "hr",
				Quantity: Quantity{Value: dec("1.5")},
				Price:    dec("50.00"), Total: dec("75.00"),
			}},
			Total: dec("75.00"),
		},
	}
	if diff := cmp.Diff(want, doc.Context.Sections); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
	if !doc.Context.Total.Equal(dec("95.00")) {
		t.Fatalf("expected total 95.00, got %s", doc.Context.Total)
	}
	if !doc.Context.Tax.IsZero() {
		t.Fatalf("expected zero tax, got %s", doc.Context.Tax)
	}
	if !doc.Context.IsInvoice || doc.Context.IsQuote {
		t.Fatalf("expected an invoice")
	}
	if !doc.Context.IsDomestic || doc.Context.IsInternational {
		t.Fatalf("expected a domestic document")
	}
	if doc.Context.Date != "2024-01-15" {
		t.Fatalf("unexpected date %q", doc.Context.Date)
	}
	if doc.Context.PurchaseOrder != nil {
		t.Fatalf("expected nil purchase order")
	}
}

func TestBuild_TaxComputation(t *testing.T) {
	opts := sampleOptions()
	opts.Items = []Record{
		{"Item": "Service", "Units": "ea", "Quantity": "1", "Price": "100.00"},
	}
	opts.TaxRate = dec("0.1")

	doc, err := Build(opts)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !doc.Context.Tax.Equal(dec("10.00")) {
		t.Fatalf("expected tax 10.00, got %s", doc.Context.Tax)
	}
	if !doc.Context.Total.Equal(dec("110.00")) {
		t.Fatalf("expected total 110.00, got %s", doc.Context.Total)
	}
	if !doc.Context.Subtotal.Equal(dec("100")) {
		t.Fatalf("expected subtotal 100, got %s", doc.Context.Subtotal)
	}
}

func TestBuild_TotalsAreExact(t *testing.T) {
	opts := sampleOptions()
	opts.Items = nil
	for i := 0; i < 10; i++ {
		opts.Items = append(opts.Items, Record{"Item": "x", "Units": "ea", "Quantity": "1", "Price": "0.1", "Section": "S"})
	}
	opts.TaxRate = dec("0.15")

	doc, err := Build(opts)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	sum := decimal.Zero
	for _, section := range doc.Context.Sections {
		lineSum := decimal.Zero
		for _, line := range section.Lines {
			if !line.Total.Equal(line.Price.Mul(line.Quantity.Value)) {
				t.Fatalf("line total %s != price x quantity", line.Total)
			}
			lineSum = lineSum.Add(line.Total)
		}
		if !section.Total.Equal(lineSum) {
			t.Fatalf("section total %s != %s", section.Total, lineSum)
		}
		sum = sum.Add(section.Total)
	}
	if !doc.Context.Subtotal.Equal(dec("1")) {
		t.Fatalf("expected subtotal exactly 1, got %s", doc.Context.Subtotal)
	}
	if !sum.Add(doc.Context.Tax).Equal(doc.Context.Total) {
		t.Fatalf("sum(sections)+tax != total: %s + %s != %s", sum, doc.Context.Tax, doc.Context.Total)
	}
}

func TestBuild_SectionGroupingIsStable(t *testing.T) {
	opts := sampleOptions()
	opts.Items = []Record{
		{"Item": "a", "Units": "", "Quantity": "1", "Price": "1", "Section": "B"},
		{"Item": "b", "Units": "", "Quantity": "1", "Price": "2"},
		{"Item": "c", "Units": "", "Quantity": "1", "Price": "3", "Section": "A"},
		{"Item": "d", "Units": "", "Quantity": "1", "Price": "4", "Section": "B"},
		{"Item": "e", "Units": "", "Quantity": "1", "Price": "5", "Section": ""},
	}

	doc, err := Build(opts)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var names []string
	items := map[string][]string{}
	for _, section := range doc.Context.Sections {
		names = append(names, section.Description)
		for _, line := range section.Lines {
			items[section.Description] = append(items[section.Description], line.Description)
		}
	}
	if diff := cmp.Diff([]string{"B", "", "A"}, names); diff != "" {
		t.Fatalf("section order mismatch (-want +got):\n%s", diff)
	}
	wantItems := map[string][]string{"B": {"a", "d"}, "": {"b", "e"}, "A": {"c"}}
	if diff := cmp.Diff(wantItems, items); diff != "" {
		t.Fatalf("grouping mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_Errors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Options)
		check  func(t *testing.T, err error)
	}{
		{
			name: "non numeric quantity",
			mutate: func(o *Options) {
				o.Items[1]["Quantity"] = "abc"
			},
			check: func(t *testing.T, err error) {
				var target *DataFormatError
				if !errors.As(err, &target) {
					t.Fatalf("expected DataFormatError, got %T: %v", err, err)
				}
				if target.Line != 2 || target.Field != FieldQuantity || target.Value != "abc" {
					t.Fatalf("unexpected error detail: %+v", target)
				}
			},
		},
		{
			name: "non numeric price",
			mutate: func(o *Options) {
				o.Items[0]["Price"] = "$10"
			},
			check: func(t *testing.T, err error) {
				var target *DataFormatError
				if !errors.As(err, &target) || target.Field != FieldPrice {
					t.Fatalf("expected price DataFormatError, got %v", err)
				}
			},
		},
		{
			name: "missing item",
			mutate: func(o *Options) {
				delete(o.Items[0], "Item")
			},
			check: func(t *testing.T, err error) {
				var target *MissingFieldError
				if !errors.As(err, &target) || target.Field != FieldItem || target.Line != 1 {
					t.Fatalf("expected missing Item, got %v", err)
				}
			},
		},
		{
			name: "missing payee",
			mutate: func(o *Options) {
				o.Payee = nil
			},
			check: func(t *testing.T, err error) {
				var target *MissingFieldError
				if !errors.As(err, &target) || target.Record != "payee" {
					t.Fatalf("expected missing payee, got %v", err)
				}
			},
		},
		{
			name: "missing payer",
			mutate: func(o *Options) {
				o.Payer = nil
			},
			check: func(t *testing.T, err error) {
				var target *MissingFieldError
				if !errors.As(err, &target) || target.Record != "payer" {
					t.Fatalf("expected missing payer, got %v", err)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := sampleOptions()
			tc.mutate(&opts)
			doc, err := Build(opts)
			if err == nil {
				t.Fatalf("expected error")
			}
			if doc != nil {
				t.Fatalf("expected no partial document")
			}
			tc.check(t, err)
		})
	}
}

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		raw     string
		integer bool
		display string
	}{
		{raw: "3", integer: true, display: "3"},
		{raw: "3.5", display: "3.5"},
		{raw: "3.0", display: "3.0"},
		{raw: " 12 ", integer: true, display: "12"},
		{raw: "1.5e2", display: "150.0"},
	}
	for _, tc := range cases {
		q, err := ParseQuantity(tc.raw)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.raw, err)
		}
		if q.Integer != tc.integer {
			t.Fatalf("parse %q: integer=%v, want %v", tc.raw, q.Integer, tc.integer)
		}
		if q.String() != tc.display {
			t.Fatalf("parse %q: display %q, want %q", tc.raw, q.String(), tc.display)
		}
	}
	for _, raw := range []string{"abc", "1e2", "15E-1"} {
		if _, err := ParseQuantity(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestBuild_ExpiryDefault(t *testing.T) {
	cases := []struct {
		today string
		want  string
	}{
		{today: "2024-01-15", want: "2024-07-15"},
		{today: "2024-08-31", want: "2025-02-28"},
		{today: "2023-08-31", want: "2024-02-29"},
		{today: "2024-12-31", want: "2025-06-30"},
	}
	for _, tc := range cases {
		doc, err := NewBuilder(fixedClock(tc.today)).Build(sampleOptions())
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if doc.Context.Expiry != tc.want {
			t.Fatalf("today %s: expiry %q, want %q", tc.today, doc.Context.Expiry, tc.want)
		}
	}

	opts := sampleOptions()
	opts.Quote = true
	opts.Expiry = "2030-01-01"
	doc, err := NewBuilder(fixedClock("2024-01-15")).Build(opts)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if doc.Context.Expiry != "2030-01-01" {
		t.Fatalf("explicit expiry should be kept, got %q", doc.Context.Expiry)
	}
	if !doc.Context.IsQuote || doc.Context.IsInvoice {
		t.Fatalf("expected a quote")
	}
}

func TestResolvePayee(t *testing.T) {
	payee := map[string]any{
		"domestic":      map[string]any{"name": "A"},
		"international": map[string]any{"name": "B"},
	}

	got, err := ResolvePayee(payee, true)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"name": "B"}, got); diff != "" {
		t.Fatalf("international payee mismatch (-want +got):\n%s", diff)
	}

	got, err = ResolvePayee(payee, false)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"name": "A"}, got); diff != "" {
		t.Fatalf("domestic payee mismatch (-want +got):\n%s", diff)
	}

	single := map[string]any{"name": "C", "domestic": map[string]any{"name": "ignored"}}
	got, err = ResolvePayee(single, true)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if diff := cmp.Diff(single, got); diff != "" {
		t.Fatalf("payee without both keys should be used as-is (-want +got):\n%s", diff)
	}

	broken := map[string]any{"domestic": map[string]any{"name": "A"}, "international": "B"}
	var target *MissingFieldError
	if _, err := ResolvePayee(broken, true); !errors.As(err, &target) || target.Field != "international" {
		t.Fatalf("expected missing international record, got %v", err)
	}
}

func TestBuild_InternationalUsesSplitPayee(t *testing.T) {
	opts := sampleOptions()
	opts.International = true
	opts.Payee = map[string]any{
		"domestic":      map[string]any{"name": "A"},
		"international": map[string]any{"name": "B"},
	}
	doc, err := Build(opts)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if doc.Context.Payee["name"] != "B" {
		t.Fatalf("expected international payee, got %v", doc.Context.Payee)
	}
	if !doc.Context.IsInternational || doc.Context.IsDomestic {
		t.Fatalf("expected international flags")
	}
}

func TestBuild_OverridesUseOverlay(t *testing.T) {
	opts := sampleOptions()
	opts.Overrides = map[string]any{"total": 999, "notes": "Thanks"}

	doc, err := NewBuilder(fixedClock("2024-01-15")).Build(opts)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	values := doc.Values()
	if values["total"] != 999 {
		t.Fatalf("override should win, got %v", values["total"])
	}
	if values["notes"] != "Thanks" {
		t.Fatalf("expected extra override key, got %v", values["notes"])
	}
	if values["number"] != "INV-001" || values["date"] != "2024-01-15" {
		t.Fatalf("other fields should be unaffected: %v", values)
	}
	if !doc.Context.Total.Equal(dec("95")) {
		t.Fatalf("typed context should keep computed total, got %s", doc.Context.Total)
	}
	if got, _ := doc.Lookup("total"); got != 999 {
		t.Fatalf("lookup should consult overlay first, got %v", got)
	}

	opts.Overrides["total"] = 1
	if doc.Values()["total"] != 999 {
		t.Fatalf("document must not alias caller overrides")
	}
}

func TestBuild_ConcurrentInvocations(t *testing.T) {
	builder := NewBuilder(fixedClock("2024-01-15"))
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := builder.Build(sampleOptions())
			if err != nil {
				errs <- err
				return
			}
			if !doc.Context.Total.Equal(dec("95")) {
				errs <- errors.New("unexpected total " + doc.Context.Total.String())
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}
