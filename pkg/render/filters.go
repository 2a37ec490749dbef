package render

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-invoicegen/pkg/currency"
	"github.com/goliatone/go-invoicegen/pkg/render/template"
)

const (
	FilterCurrency = "currency"
	FilterSanitize = "sanitize"
)

var (
	sanitizePolicyOnce sync.Once
	sanitizePolicy     *bluemonday.Policy
)

// registerFilters installs the invoice filters on engine. Filters are
// stateless, so an engine that already knows them is left as is.
func registerFilters(engine template.TemplateRenderer) error {
	filters := []struct {
		name string
		fn   func(any, any) (any, error)
	}{
		{FilterCurrency, CurrencyFilter},
		{FilterSanitize, SanitizeFilter},
	}
	for _, filter := range filters {
		if err := engine.RegisterFilter(filter.name, filter.fn); err != nil && !errors.Is(err, template.ErrFilterExists) {
			return fmt.Errorf("render: register %s filter: %w", filter.name, err)
		}
	}
	return nil
}

// CurrencyFilter formats input as money in the locale named by param. A param
// of the form "de-DE:CHF" also picks the currency. Without a param a
// currency.Amount keeps its own convention and any other number uses en-US.
func CurrencyFilter(input any, param any) (any, error) {
	raw := strings.TrimSpace(fmt.Sprint(valueOrEmpty(param)))
	if raw == "" {
		return currency.FormatAny(input, currency.Default)
	}
	locale, code, _ := strings.Cut(raw, ":")
	convention, err := currency.Parse(locale, code)
	if err != nil {
		return nil, err
	}
	value, err := currency.ToDecimal(input)
	if err != nil {
		return nil, err
	}
	return currency.Format(value, convention), nil
}

// SanitizeFilter strips unsafe markup from free-form HTML in payee and payer
// records. The result is marked safe so autoescaping leaves it alone.
func SanitizeFilter(input any, _ any) (any, error) {
	if input == nil {
		return template.SafeHTML(""), nil
	}
	return template.SafeHTML(policy().Sanitize(fmt.Sprint(input))), nil
}

func policy() *bluemonday.Policy {
	sanitizePolicyOnce.Do(func() {
		sanitizePolicy = bluemonday.UGCPolicy()
	})
	return sanitizePolicy
}

func valueOrEmpty(v any) any {
	if v == nil {
		return ""
	}
	return v
}
