package render

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-invoicegen/pkg/currency"
	"github.com/goliatone/go-invoicegen/pkg/invoice"
	"github.com/goliatone/go-invoicegen/pkg/render/template"
	"github.com/goliatone/go-invoicegen/pkg/render/template/gotemplate"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithConvention sets the convention money values are wrapped in.
func WithConvention(c currency.Convention) Option {
	return func(r *Renderer) {
		r.convention = c
	}
}

// WithAutoescape enables HTML escaping of printed values on the default
// engine. Ignored when WithEngine supplies an engine.
func WithAutoescape(enabled bool) Option {
	return func(r *Renderer) {
		r.autoescape = enabled
	}
}

// WithEngine replaces the default pongo2 engine.
func WithEngine(engine template.TemplateRenderer) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithBaseDir lets templates {% include %} files relative to dir.
func WithBaseDir(dir string) Option {
	return func(r *Renderer) {
		r.baseDir = dir
	}
}

// WithLogger attaches a logger; the default discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer produces HTML from an invoice Document and template text. It is
// safe for concurrent use.
type Renderer struct {
	engine     template.TemplateRenderer
	convention currency.Convention
	autoescape bool
	baseDir    string
	logger     *zap.Logger
}

// New constructs a Renderer and registers the invoice filters on its engine.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		convention: currency.Default,
		logger:     zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}

	if r.engine == nil {
		engineOptions := []gotemplate.Option{gotemplate.WithAutoescape(r.autoescape)}
		if r.baseDir != "" {
			engineOptions = append(engineOptions, gotemplate.WithBaseDir(r.baseDir))
		}
		engine, err := gotemplate.New(engineOptions...)
		if err != nil {
			return nil, fmt.Errorf("render: create engine: %w", err)
		}
		r.engine = engine
	}

	if err := registerFilters(r.engine); err != nil {
		return nil, err
	}
	return r, nil
}

// Convention reports the convention money values are rendered in.
func (r *Renderer) Convention() currency.Convention {
	return r.convention
}

// Render executes templateText against doc and returns the HTML.
func (r *Renderer) Render(ctx context.Context, doc *invoice.Document, templateText string) (string, error) {
	return r.RenderWithConvention(ctx, doc, templateText, r.convention)
}

// RenderWithConvention is Render with money values wrapped in c instead of
// the renderer's convention.
func (r *Renderer) RenderWithConvention(ctx context.Context, doc *invoice.Document, templateText string, c currency.Convention) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if doc == nil {
		return "", &RenderError{Stage: StageView, Err: errors.New("document is nil")}
	}

	view := View(doc, c)
	html, err := r.engine.RenderString(templateText, view)
	if err != nil {
		return "", &RenderError{Stage: StageExecute, Err: err}
	}

	r.logger.Debug("rendered document",
		zap.String("number", doc.Context.Number),
		zap.Int("sections", len(doc.Context.Sections)),
		zap.Int("bytes", len(html)),
	)
	return html, nil
}
