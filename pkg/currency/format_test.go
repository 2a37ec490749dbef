package currency

import (
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	xcurrency "golang.org/x/text/currency"
	"golang.org/x/text/language"
)

func TestFormat(t *testing.T) {
	german := ForTag(language.MustParse("de-DE"))
	yen := Convention{Tag: language.AmericanEnglish, Unit: xcurrency.JPY, Symbol: "¥", Precision: 0}
	swiss := Convention{Tag: language.AmericanEnglish, Unit: xcurrency.CHF, Symbol: "CHF", Precision: 2}

	cases := []struct {
		name  string
		value string
		conv  Convention
		want  string
	}{
		{name: "grouping", value: "1234.5", conv: Default, want: "$1,234.50"},
		{name: "small", value: "95", conv: Default, want: "$95.00"},
		{name: "negative", value: "-5", conv: Default, want: "-$5.00"},
		{name: "half away from zero", value: "2.345", conv: Default, want: "$2.35"},
		{name: "millions", value: "1234567.891", conv: Default, want: "$1,234,567.89"},
		{name: "suffix symbol", value: "1234.5", conv: german, want: "1.234,50 €"},
		{name: "zero precision", value: "1234.5", conv: yen, want: "¥1,235"},
		{name: "alphabetic symbol", value: "10", conv: swiss, want: "CHF 10.00"},
		{name: "no symbol", value: "10", conv: Convention{Tag: language.AmericanEnglish, Precision: 2}, want: "10.00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Format(decimal.RequireFromString(tc.value), tc.conv)
			if got != tc.want {
				t.Fatalf("Format(%s) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestFormatAny(t *testing.T) {
	german := ForTag(language.MustParse("de-DE"))

	got, err := FormatAny(NewAmount(decimal.RequireFromString("20"), german), Default)
	if err != nil {
		t.Fatalf("format amount: %v", err)
	}
	if got != "20,00 €" {
		t.Fatalf("amount should keep its own convention, got %q", got)
	}

	for _, input := range []any{999, int64(999), 999.0, "999", decimal.NewFromInt(999)} {
		got, err := FormatAny(input, Default)
		if err != nil {
			t.Fatalf("format %T: %v", input, err)
		}
		if got != "$999.00" {
			t.Fatalf("format %T: got %q", input, got)
		}
	}

	if _, err := FormatAny("abc", Default); err == nil {
		t.Fatalf("expected error for non numeric input")
	}
	if _, err := FormatAny(nil, Default); err == nil {
		t.Fatalf("expected error for nil input")
	}
}

func TestAmountString(t *testing.T) {
	amount := NewAmount(decimal.RequireFromString("95"), Default)
	if amount.String() != "95.00" {
		t.Fatalf("unexpected plain string %q", amount.String())
	}
	if amount.Display() != "$95.00" {
		t.Fatalf("unexpected display %q", amount.Display())
	}
}

func TestFormat_ConcurrentConventions(t *testing.T) {
	german := ForTag(language.MustParse("de-DE"))
	value := decimal.RequireFromString("1234.5")

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 32; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if got := Format(value, Default); got != "$1,234.50" {
				errs <- fmt.Errorf("en-US got %q", got)
			}
		}()
		go func() {
			defer wg.Done()
			if got := Format(value, german); got != "1.234,50 €" {
				errs <- fmt.Errorf("de-DE got %q", got)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}
