package datafile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-invoicegen/pkg/invoice"
)

// File extensions for named inputs.
const (
	ExtRecord     = ".yml"
	ExtStylesheet = ".css"
	ExtTemplate   = ".html"
)

// Dirs holds the directories named inputs resolve against.
type Dirs struct {
	Payees    string
	Payers    string
	Styles    string
	Templates string
}

// Option configures a Loader.
type Option func(*Loader)

// WithFS reads every input from files instead of the local disk. Dirs and
// item paths are then slash separated paths inside files.
func WithFS(files fs.FS) Option {
	return func(l *Loader) {
		l.fs = files
	}
}

// Loader reads document inputs.
type Loader struct {
	dirs Dirs
	fs   fs.FS
}

// New constructs a Loader over dirs.
func New(dirs Dirs, options ...Option) *Loader {
	l := &Loader{dirs: dirs}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Dirs returns the configured directories.
func (l *Loader) Dirs() Dirs {
	return l.dirs
}

// PayeePath resolves a payee name to its record file.
func (l *Loader) PayeePath(name string) string {
	return l.join(l.dirs.Payees, name, ExtRecord)
}

// PayerPath resolves a payer name to its record file.
func (l *Loader) PayerPath(name string) string {
	return l.join(l.dirs.Payers, name, ExtRecord)
}

// StylesheetPath resolves a stylesheet name to its CSS file.
func (l *Loader) StylesheetPath(name string) string {
	return l.join(l.dirs.Styles, name, ExtStylesheet)
}

// TemplatePath resolves a template name to its HTML file.
func (l *Loader) TemplatePath(name string) string {
	return l.join(l.dirs.Templates, name, ExtTemplate)
}

// ItemsPath returns the absolute form of an items file path. Paths inside a
// configured fs.FS are returned cleaned.
func (l *Loader) ItemsPath(p string) (string, error) {
	if l.fs != nil {
		return path.Clean(filepath.ToSlash(p)), nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("datafile: resolve items path: %w", err)
	}
	return abs, nil
}

// LoadItems reads the line item CSV at p.
func (l *Loader) LoadItems(ctx context.Context, p string) ([]invoice.Record, error) {
	resolved, err := l.ItemsPath(p)
	if err != nil {
		return nil, err
	}
	data, err := l.read(ctx, resolved)
	if err != nil {
		return nil, fmt.Errorf("datafile: read items %s: %w", p, err)
	}
	records, err := ParseItems(data)
	if err != nil {
		return nil, fmt.Errorf("datafile: items %s: %w", p, err)
	}
	return records, nil
}

// LoadPayee reads the named payee record.
func (l *Loader) LoadPayee(ctx context.Context, name string) (map[string]any, error) {
	return l.loadRecord(ctx, "payee", name, l.PayeePath(name))
}

// LoadPayer reads the named payer record.
func (l *Loader) LoadPayer(ctx context.Context, name string) (map[string]any, error) {
	return l.loadRecord(ctx, "payer", name, l.PayerPath(name))
}

// LoadStylesheet reads the named stylesheet.
func (l *Loader) LoadStylesheet(ctx context.Context, name string) (string, error) {
	data, err := l.read(ctx, l.StylesheetPath(name))
	if err != nil {
		return "", fmt.Errorf("datafile: read stylesheet %q: %w", name, err)
	}
	return string(data), nil
}

// LoadTemplate reads the named template.
func (l *Loader) LoadTemplate(ctx context.Context, name string) (string, error) {
	data, err := l.read(ctx, l.TemplatePath(name))
	if err != nil {
		return "", fmt.Errorf("datafile: read template %q: %w", name, err)
	}
	return string(data), nil
}

func (l *Loader) loadRecord(ctx context.Context, kind, name, p string) (map[string]any, error) {
	data, err := l.read(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("datafile: read %s %q: %w", kind, name, err)
	}
	record, err := ParseRecord(data)
	if err != nil {
		return nil, fmt.Errorf("datafile: %s %q: %w", kind, name, err)
	}
	return record, nil
}

func (l *Loader) join(dir, name, ext string) string {
	name = strings.TrimSpace(name)
	if !strings.HasSuffix(name, ext) {
		name += ext
	}
	if l.fs != nil {
		return path.Join(filepath.ToSlash(dir), name)
	}
	return filepath.Join(dir, name)
}

func (l *Loader) read(ctx context.Context, p string) ([]byte, error) {
	if l.fs != nil {
		return loadFromFS(ctx, l.fs, p)
	}
	return loadFile(ctx, p)
}

func loadFile(ctx context.Context, p string) ([]byte, error) {
	if p == "" {
		return nil, errors.New("file path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

func loadFromFS(ctx context.Context, files fs.FS, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("fs path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fs.ReadFile(files, strings.TrimPrefix(name, "/"))
}
