package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-invoicegen/pkg/generator"
)

// manifest lists documents to generate in one run. Defaults apply to every
// entry that leaves a field empty.
type manifest struct {
	Concurrency int             `yaml:"concurrency"`
	Defaults    manifestEntry   `yaml:"defaults"`
	Documents   []manifestEntry `yaml:"documents"`
}

type manifestEntry struct {
	Payee         string            `yaml:"payee"`
	Payer         string            `yaml:"payer"`
	Items         string            `yaml:"items"`
	Number        string            `yaml:"number"`
	Template      string            `yaml:"template"`
	Style         string            `yaml:"style"`
	Variant       string            `yaml:"variant"`
	Tax           string            `yaml:"tax"`
	Quote         *bool             `yaml:"quote"`
	International *bool             `yaml:"international"`
	Expiry        string            `yaml:"expiry"`
	Purchase      *string           `yaml:"purchase"`
	Context       map[string]string `yaml:"context"`
}

func loadManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if len(m.Documents) == 0 {
		return nil, fmt.Errorf("manifest %s lists no documents", path)
	}
	return &m, nil
}

// merge fills empty fields of e from defaults.
func (e manifestEntry) merge(defaults manifestEntry) manifestEntry {
	pick := func(value, fallback string) string {
		if strings.TrimSpace(value) != "" {
			return value
		}
		return fallback
	}
	out := e
	out.Payee = pick(e.Payee, defaults.Payee)
	out.Payer = pick(e.Payer, defaults.Payer)
	out.Items = pick(e.Items, defaults.Items)
	out.Number = pick(e.Number, defaults.Number)
	out.Template = pick(e.Template, defaults.Template)
	out.Style = pick(e.Style, defaults.Style)
	out.Variant = pick(e.Variant, defaults.Variant)
	out.Tax = pick(e.Tax, defaults.Tax)
	out.Expiry = pick(e.Expiry, defaults.Expiry)
	if out.Quote == nil {
		out.Quote = defaults.Quote
	}
	if out.International == nil {
		out.International = defaults.International
	}
	if out.Purchase == nil {
		out.Purchase = defaults.Purchase
	}
	if len(defaults.Context) > 0 {
		merged := make(map[string]string, len(defaults.Context)+len(e.Context))
		for key, value := range defaults.Context {
			merged[key] = value
		}
		for key, value := range e.Context {
			merged[key] = value
		}
		out.Context = merged
	}
	return out
}

// requests converts the manifest into generator requests. base supplies
// values the manifest leaves empty; relative items paths resolve against dir.
func (m *manifest) requests(base generator.Request, dir string) ([]generator.Request, error) {
	requests := make([]generator.Request, 0, len(m.Documents))
	for i, doc := range m.Documents {
		entry := doc.merge(m.Defaults)

		req := base
		req.Payee = entry.Payee
		req.Payer = entry.Payer
		req.Number = entry.Number
		req.Items = entry.Items
		if req.Items != "" && !filepath.IsAbs(req.Items) {
			req.Items = filepath.Join(dir, req.Items)
		}
		if entry.Template != "" {
			req.Template = entry.Template
		}
		if entry.Style != "" {
			req.Style = entry.Style
		}
		if entry.Variant != "" {
			req.ThemeVariant = entry.Variant
		}
		if entry.Tax != "" {
			rate, err := decimal.NewFromString(strings.TrimSpace(entry.Tax))
			if err != nil {
				return nil, fmt.Errorf("document %d: tax %q is not a number", i, entry.Tax)
			}
			req.TaxRate = rate
		}
		if entry.Quote != nil {
			req.Quote = *entry.Quote
		}
		if entry.International != nil {
			req.International = *entry.International
		}
		req.Expiry = entry.Expiry
		req.PurchaseOrder = entry.Purchase
		if len(entry.Context) > 0 {
			req.Overrides = make(map[string]any, len(entry.Context))
			for key, value := range entry.Context {
				if !isIdentifier(key) {
					return nil, fmt.Errorf("document %d: invalid context key %q", i, key)
				}
				req.Overrides[key] = value
			}
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// batchCommand reads shared, which the root command registers as persistent
// flags.
func (a *App) batchCommand(shared *sharedFlags) *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "batch MANIFEST",
		Short: "Generate every document listed in a YAML manifest",
		Long: `Generate every document listed in a YAML manifest concurrently.

  concurrency: 4
  defaults:
    payee: acme
    tax: 0.1
  documents:
    - payer: globex
      items: march.csv
      number: INV-0042

Relative items paths resolve against the manifest's directory.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBatch(cmd, args[0], jobs, shared)
		},
	}
	cmd.Flags().IntVar(&jobs, "jobs", 0, "Documents generated at once (default from the manifest, else the number of CPUs)")
	return cmd
}

func (a *App) runBatch(cmd *cobra.Command, path string, jobs int, shared *sharedFlags) error {
	m, err := loadManifest(path)
	if err != nil {
		return err
	}
	s, err := a.newSession(cmd, shared)
	if err != nil {
		return err
	}
	taxRate, err := s.settings.TaxRate()
	if err != nil {
		return err
	}
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return err
	}

	base := generator.Request{
		Template:     s.settings.Template,
		Style:        s.settings.Style,
		TaxRate:      taxRate,
		ThemeName:    s.settings.Theme.Name,
		ThemeVariant: s.settings.Theme.Variant,
		Overwrite:    shared.overwrite,
		SkipPDF:      shared.noPDF,
	}
	requests, err := m.requests(base, dir)
	if err != nil {
		return err
	}

	limit := jobs
	if limit <= 0 {
		limit = m.Concurrency
	}
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results, err := s.generator.GenerateBatch(cmd.Context(), requests, limit)
	out := cmd.OutOrStdout()
	for i, result := range results {
		if result == nil {
			continue
		}
		switch {
		case result.Skipped:
			fmt.Fprintf(out, "%s: kept existing %s\n", requests[i].Number, result.HTMLPath)
		case result.PDFPath != "":
			fmt.Fprintf(out, "%s: %s, %s\n", requests[i].Number, result.HTMLPath, result.PDFPath)
		default:
			fmt.Fprintf(out, "%s: %s\n", requests[i].Number, result.HTMLPath)
		}
		reportWarnings(out, result.Warnings)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Generation complete!")
	return nil
}
