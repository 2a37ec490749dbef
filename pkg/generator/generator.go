package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/goliatone/go-invoicegen/internal/prompt"
	"github.com/goliatone/go-invoicegen/pkg/convert"
	"github.com/goliatone/go-invoicegen/pkg/currency"
	"github.com/goliatone/go-invoicegen/pkg/datafile"
	"github.com/goliatone/go-invoicegen/pkg/invoice"
	"github.com/goliatone/go-invoicegen/pkg/render"
)

const defaultName = "default"

// Confirmer decides whether an existing output file may be replaced.
type Confirmer interface {
	ConfirmOverwrite(ctx context.Context, path string) (bool, error)
}

// Generator coordinates loading, building, rendering, writing and converting
// one document per Request. It is safe for concurrent use.
type Generator struct {
	loader           *datafile.Loader
	builder          *invoice.Builder
	renderer         *render.Renderer
	registry         *convert.Registry
	defaultConverter string
	convertTimeout   time.Duration
	confirmer        Confirmer
	themeSelector    theme.ThemeSelector
	logger           *zap.Logger
	initialiseErr    error

	// confirmMu serialises prompts when batches run concurrently.
	confirmMu sync.Mutex
}

// New constructs a Generator. Missing collaborators get built-in defaults:
// a system clock builder, a renderer whose includes resolve in the templates
// directory, an electron-pdf converter and a confirmer that declines.
func New(options ...Option) *Generator {
	g := &Generator{
		defaultConverter: convert.ElectronPDFName,
		logger:           zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}
	g.applyDefaults()
	return g
}

func (g *Generator) applyDefaults() {
	if g.loader == nil {
		g.initialiseErr = errors.New("generator: loader is required")
		return
	}
	if g.builder == nil {
		g.builder = invoice.NewBuilder()
	}
	if g.renderer == nil {
		renderer, err := render.New(
			render.WithBaseDir(g.loader.Dirs().Templates),
			render.WithLogger(g.logger),
		)
		if err != nil {
			g.initialiseErr = fmt.Errorf("generator: create renderer: %w", err)
			return
		}
		g.renderer = renderer
	}
	if g.registry == nil {
		g.registry = convert.NewRegistry()
		g.registry.MustRegister(convert.NewElectronPDF(convert.WithConverterLogger(g.logger)))
	}
	if g.confirmer == nil {
		g.confirmer = prompt.Static(false)
	}
}

// Request describes one document to generate.
type Request struct {
	Payee  string
	Payer  string
	Items  string
	Number string

	// Template and Style name files in the data directories; empty means
	// "default".
	Template string
	Style    string

	TaxRate       decimal.Decimal
	International bool
	Quote         bool
	Expiry        string
	PurchaseOrder *string
	Overrides     map[string]any

	// Convention overrides the renderer's currency convention.
	Convention *currency.Convention

	ThemeName    string
	ThemeVariant string

	// OutputDir places outputs outside the items file's directory.
	OutputDir string
	Overwrite bool
	SkipPDF   bool
	Converter string
}

// Inputs are the resolved file locations a Request reads from.
type Inputs struct {
	Items      string
	Payee      string
	Payer      string
	Stylesheet string
	Template   string
}

// Result reports what Generate produced.
type Result struct {
	Inputs   Inputs
	HTMLPath string
	// PDFPath is set only when a PDF was written.
	PDFPath  string
	Document *invoice.Document
	// Skipped is true when the user declined to overwrite the HTML output;
	// nothing was written.
	Skipped bool
	// PDFSkipped is true when conversion did not run because it was disabled
	// or an existing PDF was kept.
	PDFSkipped bool
	// Warnings carries non-fatal conversion failures.
	Warnings []error
}

// Resolve returns the files req would read.
func (g *Generator) Resolve(req Request) (Inputs, error) {
	if err := g.initialiseErr; err != nil {
		return Inputs{}, err
	}
	items, err := g.loader.ItemsPath(req.Items)
	if err != nil {
		return Inputs{}, err
	}
	return Inputs{
		Items:      items,
		Payee:      g.loader.PayeePath(req.Payee),
		Payer:      g.loader.PayerPath(req.Payer),
		Stylesheet: g.loader.StylesheetPath(orDefault(req.Style)),
		Template:   g.loader.TemplatePath(orDefault(req.Template)),
	}, nil
}

// OutputPaths returns the HTML and PDF paths for req: the items file with
// its extension replaced, optionally moved into OutputDir.
func (g *Generator) OutputPaths(req Request) (string, string, error) {
	if err := g.initialiseErr; err != nil {
		return "", "", err
	}
	items, err := g.loader.ItemsPath(req.Items)
	if err != nil {
		return "", "", err
	}
	if req.OutputDir != "" {
		items = filepath.Join(req.OutputDir, filepath.Base(items))
	}
	base := strings.TrimSuffix(items, filepath.Ext(items))
	return base + ".html", base + ".pdf", nil
}

// Generate runs the pipeline for req.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		return nil, errors.New("generator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := g.initialiseErr; err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	inputs, err := g.Resolve(req)
	if err != nil {
		return nil, err
	}
	result := &Result{Inputs: inputs}

	items, err := g.loader.LoadItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	payee, err := g.loader.LoadPayee(ctx, req.Payee)
	if err != nil {
		return nil, err
	}
	payer, err := g.loader.LoadPayer(ctx, req.Payer)
	if err != nil {
		return nil, err
	}
	stylesheet, err := g.loader.LoadStylesheet(ctx, orDefault(req.Style))
	if err != nil {
		return nil, err
	}
	templateText, err := g.loader.LoadTemplate(ctx, orDefault(req.Template))
	if err != nil {
		return nil, err
	}

	htmlPath, pdfPath, err := g.OutputPaths(req)
	if err != nil {
		return nil, err
	}
	result.HTMLPath = htmlPath

	proceed, err := g.mayWrite(ctx, htmlPath, req.Overwrite)
	if err != nil {
		return nil, err
	}
	if !proceed {
		g.logger.Info("kept existing output", zap.String("html", htmlPath))
		result.Skipped = true
		return result, nil
	}

	stylesheet, err = g.applyTheme(stylesheet, req.ThemeName, req.ThemeVariant)
	if err != nil {
		return nil, err
	}

	doc, err := g.builder.Build(invoice.Options{
		Number:        req.Number,
		Items:         items,
		Payee:         payee,
		Payer:         payer,
		Stylesheet:    stylesheet,
		TaxRate:       req.TaxRate,
		International: req.International,
		Quote:         req.Quote,
		Expiry:        req.Expiry,
		PurchaseOrder: req.PurchaseOrder,
		Overrides:     req.Overrides,
	})
	if err != nil {
		return nil, err
	}
	result.Document = doc

	convention := g.renderer.Convention()
	if req.Convention != nil {
		convention = *req.Convention
	}
	html, err := g.renderer.RenderWithConvention(ctx, doc, templateText, convention)
	if err != nil {
		return nil, err
	}
	if err := writeFile(htmlPath, html); err != nil {
		return nil, err
	}
	g.logger.Info("wrote html",
		zap.String("html", htmlPath),
		zap.Int("sections", len(doc.Context.Sections)),
		zap.String("total", doc.Context.Total.String()),
	)

	if req.SkipPDF {
		result.PDFSkipped = true
		return result, nil
	}

	proceed, err = g.mayWrite(ctx, pdfPath, req.Overwrite)
	if err != nil {
		return nil, err
	}
	if !proceed {
		g.logger.Info("kept existing output", zap.String("pdf", pdfPath))
		result.PDFSkipped = true
		return result, nil
	}

	if err := g.convert(ctx, req.Converter, htmlPath, pdfPath); err != nil {
		g.logger.Warn("pdf conversion failed",
			zap.String("html", htmlPath),
			zap.String("pdf", pdfPath),
			zap.Error(err),
		)
		result.Warnings = append(result.Warnings, err)
		return result, nil
	}
	result.PDFPath = pdfPath
	g.logger.Info("wrote pdf", zap.String("pdf", pdfPath))
	return result, nil
}

func (g *Generator) convert(ctx context.Context, name, htmlPath, pdfPath string) error {
	if name == "" {
		name = g.defaultConverter
	}
	if g.convertTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.convertTimeout)
		defer cancel()
	}
	g.logger.Debug("converting", zap.String("converter", name), zap.String("html", htmlPath))
	return g.registry.Convert(ctx, name, htmlPath, pdfPath)
}

// mayWrite reports whether path can be written: it does not exist yet,
// overwrite is set, or the confirmer agrees.
func (g *Generator) mayWrite(ctx context.Context, path string, overwrite bool) (bool, error) {
	if overwrite {
		return true, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, fmt.Errorf("generator: stat %s: %w", path, err)
	}

	g.confirmMu.Lock()
	defer g.confirmMu.Unlock()
	ok, err := g.confirmer.ConfirmOverwrite(ctx, path)
	if err != nil {
		return false, fmt.Errorf("generator: confirm overwrite: %w", err)
	}
	return ok, nil
}

func validate(req Request) error {
	var missing []string
	if strings.TrimSpace(req.Payee) == "" {
		missing = append(missing, "payee")
	}
	if strings.TrimSpace(req.Payer) == "" {
		missing = append(missing, "payer")
	}
	if strings.TrimSpace(req.Items) == "" {
		missing = append(missing, "items")
	}
	if strings.TrimSpace(req.Number) == "" {
		missing = append(missing, "number")
	}
	if len(missing) > 0 {
		return fmt.Errorf("generator: request is missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("generator: create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("generator: write %s: %w", path, err)
	}
	return nil
}

func orDefault(name string) string {
	if strings.TrimSpace(name) == "" {
		return defaultName
	}
	return name
}
