package render_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-invoicegen/pkg/currency"
	"github.com/goliatone/go-invoicegen/pkg/invoice"
	"github.com/goliatone/go-invoicegen/pkg/render"
	"github.com/goliatone/go-invoicegen/pkg/testsupport"
)

func buildDocument(t *testing.T, taxRate string, overrides map[string]any) *invoice.Document {
	t.Helper()

	items, err := testsupport.ParseRecords("Item,Units,Quantity,Price,Section\n" +
		"Widget,each,2,10.00,Goods\n" +
		"Service,hour,1.5,50.00,\n")
	if err != nil {
		t.Fatalf("parse records: %v", err)
	}
	builder := invoice.NewBuilder(invoice.WithClock(testsupport.FixedClock(t, "2024-01-15")))
	doc, err := builder.Build(invoice.Options{
		Number:     "INV-001",
		Items:      items,
		Payee:      map[string]any{"name": "Acme Ltd"},
		Payer:      map[string]any{"name": "Globex"},
		Stylesheet: "td > p { margin: 0; }",
		TaxRate:    decimal.RequireFromString(taxRate),
		Overrides:  overrides,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return doc
}

func newRenderer(t *testing.T, options ...render.Option) *render.Renderer {
	t.Helper()
	r, err := render.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestRenderer_RenderInvoiceGolden(t *testing.T) {
	doc := buildDocument(t, "0.1", nil)
	tmpl := string(testsupport.MustReadGolden(t, filepath.Join("testdata", "invoice.html")))

	got, err := newRenderer(t).Render(context.Background(), doc, tmpl)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	goldenPath := filepath.Join("testdata", "invoice.golden")
	if testsupport.WriteMaybeGolden(t, goldenPath, []byte(got)) {
		return
	}
	want := testsupport.MustReadGoldenString(t, goldenPath)
	if got != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestRenderer_ZeroTaxHidesTaxRow(t *testing.T) {
	doc := buildDocument(t, "0", nil)
	got, err := newRenderer(t).Render(context.Background(), doc, "{% if has_tax %}tax{% else %}no tax{% endif %} {{ total|currency }}")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "no tax $95.00" {
		t.Fatalf("render = %q", got)
	}
}

func TestRenderer_TaxOverrideShowsTaxRow(t *testing.T) {
	tmpl := "{% if has_tax %}tax {{ tax }}{% else %}no tax row{% endif %}"
	tests := []struct {
		name      string
		taxRate   string
		overrides map[string]any
		want      string
	}{
		{name: "override on zero tax", taxRate: "0", overrides: map[string]any{"tax": "5"}, want: "tax 5.00"},
		{name: "zero override hides computed tax", taxRate: "0.1", overrides: map[string]any{"tax": "0"}, want: "no tax row"},
		{name: "text override keeps computed flag", taxRate: "0.1", overrides: map[string]any{"tax": "n/a"}, want: "tax n/a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := buildDocument(t, tt.taxRate, tt.overrides)
			got, err := newRenderer(t).Render(context.Background(), doc, tmpl)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if got != tt.want {
				t.Fatalf("render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderer_ConventionFollowsAmounts(t *testing.T) {
	de, err := currency.Parse("de-DE", "")
	if err != nil {
		t.Fatalf("parse convention: %v", err)
	}
	doc := buildDocument(t, "0", nil)

	got, err := newRenderer(t, render.WithConvention(de)).Render(context.Background(), doc, "{{ total|currency }}|{{ total }}")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "95,00 €|95.00"; got != want {
		t.Fatalf("render = %q, want %q", got, want)
	}
}

func TestRenderer_CurrencyFilterParam(t *testing.T) {
	doc := buildDocument(t, "0", map[string]any{"deposit": "1234.5"})
	got, err := newRenderer(t).Render(context.Background(), doc, `{{ deposit|currency }} {{ deposit|currency:"de-DE" }} {{ deposit|currency:"en-US:CHF" }}`)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "$1,234.50 1.234,50 € CHF 1,234.50"; got != want {
		t.Fatalf("render = %q, want %q", got, want)
	}

	// computed amounts carry the renderer convention unless a locale is named
	got, err = newRenderer(t).Render(context.Background(), doc, `{{ total|currency }} {{ total|currency:"de-DE" }} {{ total|currency:"de-DE:CHF" }}`)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "$95.00 95,00 € 95,00 CHF"; got != want {
		t.Fatalf("render = %q, want %q", got, want)
	}

	if _, err := newRenderer(t).Render(context.Background(), doc, `{{ total|currency:"de-DE:XX" }}`); err == nil {
		t.Fatalf("expected unknown currency code to fail")
	}
}

func TestRenderer_OverlayWinsOverComputedValues(t *testing.T) {
	doc := buildDocument(t, "0", map[string]any{"total": "999", "number": "OVERRIDE"})
	got, err := newRenderer(t).Render(context.Background(), doc, "{{ number }} {{ total|currency }}")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "OVERRIDE $999.00" {
		t.Fatalf("render = %q", got)
	}
	if !doc.Context.Total.Equal(decimal.RequireFromString("95")) {
		t.Fatalf("typed context mutated: total = %s", doc.Context.Total)
	}
}

func TestRenderer_StylesheetIsNotEscaped(t *testing.T) {
	doc := buildDocument(t, "0", nil)

	got, err := newRenderer(t).Render(context.Background(), doc, "{{ stylesheet }}")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "td > p { margin: 0; }" {
		t.Fatalf("raw render = %q", got)
	}

	got, err = newRenderer(t, render.WithAutoescape(true)).Render(context.Background(), doc, "{{ stylesheet }}")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "td &gt; p { margin: 0; }" {
		t.Fatalf("escaped render = %q", got)
	}
}

func TestRenderer_SanitizeFilter(t *testing.T) {
	doc := buildDocument(t, "0", map[string]any{
		"notes": `<b>Net 30</b><script>alert(1)</script>`,
	})
	got, err := newRenderer(t, render.WithAutoescape(true)).Render(context.Background(), doc, "{{ notes|sanitize }}")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "<b>Net 30</b>" {
		t.Fatalf("render = %q", got)
	}
}

func TestRenderer_Errors(t *testing.T) {
	r := newRenderer(t)
	doc := buildDocument(t, "0", nil)

	_, err := r.Render(context.Background(), doc, "{% for %}")
	var renderErr *render.RenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("expected RenderError, got %T (%v)", err, err)
	}
	if renderErr.Stage != render.StageExecute {
		t.Fatalf("stage = %s", renderErr.Stage)
	}

	_, err = r.Render(context.Background(), doc, "{{ missing|currency }}")
	if !errors.As(err, &renderErr) {
		t.Fatalf("expected RenderError for nil currency input, got %v", err)
	}

	if _, err := r.Render(context.Background(), nil, "x"); !errors.As(err, &renderErr) {
		t.Fatalf("expected RenderError for nil document, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, doc, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRenderer_ConcurrentConventions(t *testing.T) {
	de, err := currency.Parse("de-DE", "")
	if err != nil {
		t.Fatalf("parse convention: %v", err)
	}
	us := newRenderer(t)
	german := newRenderer(t, render.WithConvention(de))
	doc := buildDocument(t, "0", nil)

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			got, err := us.Render(context.Background(), doc, "{{ total|currency }}")
			if err != nil || got != "$95.00" {
				errs <- errors.New("us: " + got)
			}
		}()
		go func() {
			defer wg.Done()
			got, err := german.Render(context.Background(), doc, "{{ total|currency }}")
			if err != nil || got != "95,00 €" {
				errs <- errors.New("de: " + got)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent render: %v", err)
	}
}

func TestRenderer_BaseDirIncludes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "footer.html"), []byte("Thanks, {{ payee.name }}"), 0o644); err != nil {
		t.Fatalf("write include: %v", err)
	}
	doc := buildDocument(t, "0", nil)

	got, err := newRenderer(t, render.WithBaseDir(dir)).Render(context.Background(), doc, `{% include "footer.html" %}`)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(got, "Thanks, Acme Ltd") {
		t.Fatalf("render = %q", got)
	}
}
