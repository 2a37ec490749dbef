package generator

import (
	"time"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-invoicegen/pkg/convert"
	"github.com/goliatone/go-invoicegen/pkg/datafile"
	"github.com/goliatone/go-invoicegen/pkg/invoice"
	"github.com/goliatone/go-invoicegen/pkg/render"
)

// Option customises the generator configuration.
type Option func(*Generator)

// WithLoader sets the data file loader. Required.
func WithLoader(loader *datafile.Loader) Option {
	return func(g *Generator) {
		g.loader = loader
	}
}

// WithBuilder injects a context builder, e.g. one with a fixed clock.
func WithBuilder(builder *invoice.Builder) Option {
	return func(g *Generator) {
		g.builder = builder
	}
}

// WithRenderer injects a renderer.
func WithRenderer(renderer *render.Renderer) Option {
	return func(g *Generator) {
		g.renderer = renderer
	}
}

// WithRegistry injects the converter registry.
func WithRegistry(registry *convert.Registry) Option {
	return func(g *Generator) {
		g.registry = registry
	}
}

// WithDefaultConverter names the converter used when a request omits one.
func WithDefaultConverter(name string) Option {
	return func(g *Generator) {
		if name != "" {
			g.defaultConverter = name
		}
	}
}

// WithConvertTimeout bounds each conversion. Zero waits indefinitely.
func WithConvertTimeout(timeout time.Duration) Option {
	return func(g *Generator) {
		g.convertTimeout = timeout
	}
}

// WithConfirmer sets who is asked before existing outputs are replaced.
func WithConfirmer(confirmer Confirmer) Option {
	return func(g *Generator) {
		g.confirmer = confirmer
	}
}

// WithThemeSelector resolves request theme names into CSS custom properties
// appended to the stylesheet.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(g *Generator) {
		g.themeSelector = selector
	}
}

// WithLogger attaches a logger; the default discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}
