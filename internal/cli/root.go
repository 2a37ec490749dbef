package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-invoicegen/internal/config"
	"github.com/goliatone/go-invoicegen/pkg/generator"
	"github.com/goliatone/go-invoicegen/pkg/invoice"
)

type generateFlags struct {
	shared        sharedFlags
	tax           string
	quote         bool
	international bool
	expiry        string
	purchase      string
	context       []string
	dumpContext   bool
	dumpFormat    string
}

// Command builds the gen-invoice command tree.
func (a *App) Command() *cobra.Command {
	flags := &generateFlags{}

	root := &cobra.Command{
		Use:   "gen-invoice PAYEE PAYER ITEMS NUMBER",
		Short: "Generate invoices and quotes from CSV line items",
		Long: `Generate an invoice or quote from a CSV file of line items and YAML
payee and payer records. The HTML document is written next to ITEMS and
converted to PDF with electron-pdf when it is available.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || len(args) == 4 {
				return nil
			}
			return fmt.Errorf("expected PAYEE PAYER ITEMS NUMBER, got %d argument(s)", len(args))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return a.printUsage(cmd)
			}
			return a.runGenerate(cmd, args, flags)
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags.shared.register(root.PersistentFlags())
	local := root.Flags()
	local.StringVar(&flags.tax, "tax", "", "Tax to apply as a rate, e.g. 0.1 for 10% (default 0)")
	local.BoolVar(&flags.quote, "quote", false, "Generate a quote (default is an invoice)")
	local.BoolVar(&flags.international, "international", false, "Mark the document as intended for an international recipient")
	local.StringVar(&flags.expiry, "expiry", "", "Quote expiry date (default is six months from the date of generation)")
	local.StringVar(&flags.purchase, "purchase", "", "Purchase order reference to include in an invoice")
	local.StringArrayVar(&flags.context, "context", nil, "Custom KEY=VALUE data for the template rendering context (repeatable)")
	local.BoolVar(&flags.dumpContext, "dump-context", false, "Print the template rendering context")
	local.StringVar(&flags.dumpFormat, "dump-format", "json", "Format used by --dump-context: json or yaml")

	root.AddCommand(a.batchCommand(&flags.shared), a.pathsCommand())
	return root
}

func (a *App) printUsage(cmd *cobra.Command) error {
	if err := cmd.Help(); err != nil {
		return err
	}
	paths, err := config.ResolvePaths(a.lookupEnv)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	printDataPaths(out, "Data files will be loaded from the following locations:", dataLocations(paths))
	return nil
}

func (a *App) runGenerate(cmd *cobra.Command, args []string, flags *generateFlags) error {
	overrides, err := parseContextPairs(flags.context)
	if err != nil {
		return err
	}
	format, err := invoice.ParseDumpFormat(flags.dumpFormat)
	if err != nil {
		return err
	}

	s, err := a.newSession(cmd, &flags.shared)
	if err != nil {
		return err
	}
	taxRate, err := s.settings.TaxRate()
	if err != nil {
		return err
	}

	req := generator.Request{
		Payee:         args[0],
		Payer:         args[1],
		Items:         args[2],
		Number:        args[3],
		Template:      s.settings.Template,
		Style:         s.settings.Style,
		TaxRate:       taxRate,
		International: flags.international,
		Quote:         flags.quote,
		Expiry:        flags.expiry,
		Overrides:     overrides,
		ThemeName:     s.settings.Theme.Name,
		ThemeVariant:  s.settings.Theme.Variant,
		Overwrite:     flags.shared.overwrite,
		SkipPDF:       flags.shared.noPDF,
	}
	if cmd.Flags().Changed("purchase") {
		purchase := flags.purchase
		req.PurchaseOrder = &purchase
	}

	out := cmd.OutOrStdout()
	inputs, err := s.generator.Resolve(req)
	if err != nil {
		return err
	}
	printDataPaths(out, "Loading data from the following files:", inputPaths(inputs))

	result, err := s.generator.Generate(cmd.Context(), req)
	if err != nil {
		return err
	}
	if result.Skipped {
		return nil
	}
	if flags.dumpContext {
		if err := invoice.Dump(out, result.Document, format); err != nil {
			return err
		}
	}
	reportWarnings(out, result.Warnings)
	if result.PDFSkipped && !req.SkipPDF {
		// the user kept an existing PDF
		return nil
	}
	fmt.Fprintln(out, "Generation complete!")
	return nil
}
