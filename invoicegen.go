// Package invoicegen generates invoices and quotes from CSV line items and
// YAML payee/payer records.
//
// Most callers only need the helpers in this package:
//
//	doc, html, err := invoicegen.GenerateHTML(ctx, opts, invoicegen.DefaultTemplate())
//
// The full pipeline (data directories, overwrite prompts, PDF conversion)
// lives in pkg/generator.
package invoicegen

import (
	"context"

	"github.com/goliatone/go-invoicegen/pkg/datafile"
	"github.com/goliatone/go-invoicegen/pkg/generator"
	"github.com/goliatone/go-invoicegen/pkg/invoice"
	"github.com/goliatone/go-invoicegen/pkg/render"
)

// Request aliases generator.Request for callers of the top-level package.
type Request = generator.Request

// Result aliases generator.Result.
type Result = generator.Result

// Document aliases invoice.Document.
type Document = invoice.Document

// BuildOptions aliases invoice.Options.
type BuildOptions = invoice.Options

// NewGenerator exposes the generator constructor from the top-level module.
func NewGenerator(options ...generator.Option) *generator.Generator {
	return generator.New(options...)
}

// NewLoader constructs a data file loader over dirs.
func NewLoader(dirs datafile.Dirs, options ...datafile.Option) *datafile.Loader {
	return datafile.New(dirs, options...)
}

// GenerateHTML builds the document described by opts and renders it with
// templateText, without touching the filesystem.
func GenerateHTML(ctx context.Context, opts BuildOptions, templateText string, options ...render.Option) (*Document, string, error) {
	doc, err := invoice.Build(opts)
	if err != nil {
		return nil, "", err
	}
	renderer, err := render.New(options...)
	if err != nil {
		return nil, "", err
	}
	html, err := renderer.Render(ctx, doc, templateText)
	if err != nil {
		return nil, "", err
	}
	return doc, html, nil
}
