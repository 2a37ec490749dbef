package template

import (
	"errors"
	"io"
)

// TemplateRenderer mirrors the github.com/goliatone/go-template engine
// contract. Filters registered through RegisterFilter are callable from
// template text as `value|name` or `value|name:param`.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}

// SafeHTML marks filter output that is already safe markup.
type SafeHTML string

// ErrFilterExists reports a filter name that is already registered. Engines
// with a process-wide filter table return it when a second engine registers
// the same filter.
var ErrFilterExists = errors.New("template: filter already registered")
