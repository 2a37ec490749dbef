package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	invoicegen "github.com/goliatone/go-invoicegen"
	"github.com/goliatone/go-invoicegen/internal/config"
	"github.com/goliatone/go-invoicegen/internal/prompt"
	"github.com/goliatone/go-invoicegen/pkg/convert"
	"github.com/goliatone/go-invoicegen/pkg/currency"
	"github.com/goliatone/go-invoicegen/pkg/generator"
	"github.com/goliatone/go-invoicegen/pkg/render"
)

// App holds the process level dependencies of the command tree.
type App struct {
	stdout           io.Writer
	stderr           io.Writer
	lookupEnv        func(string) (string, bool)
	defaults         fs.FS
	confirmer        generator.Confirmer
	generatorOptions []generator.Option
}

// Option customises an App.
type Option func(*App)

// WithOutput redirects normal and error output.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *App) {
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// WithLookupEnv replaces os.LookupEnv for data dir and locale discovery.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(a *App) {
		if lookup != nil {
			a.lookupEnv = lookup
		}
	}
}

// WithDefaults replaces the bundled default template and stylesheet.
func WithDefaults(defaults fs.FS) Option {
	return func(a *App) {
		a.defaults = defaults
	}
}

// WithConfirmer replaces the interactive overwrite prompt.
func WithConfirmer(confirmer generator.Confirmer) Option {
	return func(a *App) {
		a.confirmer = confirmer
	}
}

// WithGeneratorOptions appends generator options applied after the ones
// derived from settings.
func WithGeneratorOptions(options ...generator.Option) Option {
	return func(a *App) {
		a.generatorOptions = append(a.generatorOptions, options...)
	}
}

// New constructs an App bound to the process environment.
func New(options ...Option) *App {
	a := &App{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		lookupEnv: os.LookupEnv,
		defaults:  invoicegen.DefaultsFS(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(a)
	}
	return a
}

// Execute runs the command line of the current process and returns its exit
// code.
func Execute() int {
	return New().Run(context.Background(), os.Args[1:])
}

// Run executes args and returns the exit code. Failures are reported as
// "Error: <message>" on stderr.
func (a *App) Run(ctx context.Context, args []string) int {
	if args == nil {
		// cobra falls back to os.Args for a nil slice
		args = []string{}
	}
	cmd := a.Command()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// sharedFlags are accepted by every command that generates documents.
type sharedFlags struct {
	template  string
	style     string
	variant   string
	locale    string
	currency  string
	timeout   string
	overwrite bool
	noPDF     bool
	verbose   bool
}

func (f *sharedFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.template, "template", "", "HTML template to use (default \"default\")")
	flags.StringVar(&f.style, "style", "", "CSS stylesheet to use (default \"default\")")
	flags.StringVar(&f.variant, "variant", "", "Theme variant whose tokens are applied to the stylesheet")
	flags.StringVar(&f.locale, "locale", "", "Locale used to format amounts, e.g. en_AU or de-DE (default from LC_ALL, LC_MONETARY or LANG)")
	flags.StringVar(&f.currency, "currency", "", "ISO 4217 currency code, overriding the locale's currency")
	flags.StringVar(&f.timeout, "timeout", "", "Maximum time allowed for PDF conversion, e.g. 90s (default no limit)")
	flags.BoolVarP(&f.overwrite, "overwrite", "y", false, "Overwrite existing output files without prompting for confirmation")
	flags.BoolVar(&f.noPDF, "no-pdf", false, "Disable PDF generation even if electron-pdf is available")
	flags.BoolVar(&f.verbose, "verbose", false, "Log each pipeline step to stderr")
}

// settingKeys maps flag names onto settings keys. Flags only win when set on
// the command line.
var settingKeys = map[string]string{
	"template": "template",
	"style":    "style",
	"variant":  "theme.variant",
	"locale":   "locale",
	"currency": "currency",
	"timeout":  "convert_timeout",
	"tax":      "tax",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range settingKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// session is everything a command needs once settings are resolved.
type session struct {
	settings  config.Settings
	generator *generator.Generator
}

func (a *App) newSession(cmd *cobra.Command, shared *sharedFlags) (*session, error) {
	logger := newLogger(a.stderr, shared.verbose)

	paths, err := config.ResolvePaths(a.lookupEnv)
	if err != nil {
		return nil, err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, err
	}
	installed, err := paths.InstallDefaults(a.defaults)
	if err != nil {
		return nil, err
	}
	for _, path := range installed {
		logger.Info("installed default", zap.String("path", path))
	}

	v := config.NewViper(paths)
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}
	settings, err := config.LoadSettings(v)
	if err != nil {
		return nil, err
	}
	convention, err := conventionFor(settings, a.lookupEnv)
	if err != nil {
		return nil, err
	}
	logger.Debug("settings resolved",
		zap.String("data_dir", paths.Root),
		zap.String("locale", convention.Tag.String()),
		zap.String("currency", convention.Unit.String()),
		zap.String("converter", settings.Converter),
		zap.Duration("timeout", settings.ConvertTimeout),
	)

	loader := invoicegen.NewLoader(paths.LoaderDirs())
	renderer, err := render.New(
		render.WithBaseDir(loader.Dirs().Templates),
		render.WithConvention(convention),
		render.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	selector, err := settings.Theme.Selector()
	if err != nil {
		return nil, err
	}

	var confirmer generator.Confirmer = prompt.Static(true)
	if !shared.overwrite {
		confirmer = a.confirmer
		if confirmer == nil {
			confirmer = prompt.NewSurvey()
		}
	}

	registry := convert.NewRegistry()
	registry.MustRegister(convert.NewElectronPDF(convert.WithConverterLogger(logger)))

	options := []generator.Option{
		generator.WithLoader(loader),
		generator.WithRenderer(renderer),
		generator.WithRegistry(registry),
		generator.WithDefaultConverter(settings.Converter),
		generator.WithConvertTimeout(settings.ConvertTimeout),
		generator.WithConfirmer(confirmer),
		generator.WithLogger(logger),
	}
	if selector != nil {
		options = append(options, generator.WithThemeSelector(selector))
	}
	options = append(options, a.generatorOptions...)

	return &session{
		settings:  settings,
		generator: invoicegen.NewGenerator(options...),
	}, nil
}

// conventionFor resolves the currency convention from settings, falling back
// to the monetary locale of the environment.
func conventionFor(settings config.Settings, lookup func(string) (string, bool)) (currency.Convention, error) {
	locale := strings.TrimSpace(settings.Locale)
	code := strings.TrimSpace(settings.Currency)
	if locale != "" {
		return currency.Parse(locale, code)
	}
	base := currency.FromEnvironment(lookup)
	if code == "" {
		return base, nil
	}
	return currency.Parse(base.Tag.String(), code)
}

// namedPath is one line of a data path listing.
type namedPath struct {
	name string
	path string
}

func printDataPaths(w io.Writer, message string, paths []namedPath) {
	title := cases.Title(language.English)
	fmt.Fprintln(w, message)
	for _, p := range paths {
		fmt.Fprintf(w, "%-11s %s\n", title.String(p.name)+":", p.path)
	}
	fmt.Fprintln(w)
}

func dataLocations(paths config.Paths) []namedPath {
	dirs := paths.DataDirs()
	out := make([]namedPath, 0, len(dirs))
	for _, dir := range dirs {
		out = append(out, namedPath{name: dir.Name, path: dir.Glob()})
	}
	return out
}

func inputPaths(inputs generator.Inputs) []namedPath {
	return []namedPath{
		{name: "items", path: inputs.Items},
		{name: "payee", path: inputs.Payee},
		{name: "payer", path: inputs.Payer},
		{name: "stylesheet", path: inputs.Stylesheet},
		{name: "template", path: inputs.Template},
	}
}

// reportWarnings prints non-fatal conversion failures.
func reportWarnings(w io.Writer, warnings []error) {
	for _, warning := range warnings {
		var conversion *convert.ConversionError
		if errors.Is(warning, convert.ErrUnavailable) &&
			errors.As(warning, &conversion) && conversion.Converter == convert.ElectronPDFName {
			fmt.Fprintf(w, "Could not find %s %s or newer, skipping PDF generation.\n",
				convert.ElectronPDFName, convert.ElectronPDFMinVersion)
			continue
		}
		fmt.Fprintf(w, "Warning: %v\n", warning)
	}
}
