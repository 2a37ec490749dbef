package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-invoicegen/pkg/datafile"
)

const (
	// AppName names the data directory under the user config dir.
	AppName = "gen-invoice"
	// EnvDataDir overrides the data directory location.
	EnvDataDir = "GEN_INVOICE_DATA_DIR"
	// DefaultName is the base name of the bundled template and stylesheet.
	DefaultName = "default"
)

// DataDir describes one data subdirectory and the files it holds.
type DataDir struct {
	Name    string
	Path    string
	Pattern string
}

// Glob returns the path pattern shown to users.
func (d DataDir) Glob() string {
	return filepath.Join(d.Path, d.Pattern)
}

// Paths locates the data directory tree.
type Paths struct {
	Root string
}

// ResolvePaths picks the data directory from GEN_INVOICE_DATA_DIR, falling
// back to <user config dir>/gen-invoice.
func ResolvePaths(lookup func(string) (string, bool)) (Paths, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if dir, ok := lookup(EnvDataDir); ok && strings.TrimSpace(dir) != "" {
		return Paths{Root: filepath.Clean(dir)}, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("config: locate user config dir: %w", err)
	}
	return Paths{Root: filepath.Join(base, AppName)}, nil
}

// DataDirs lists the data subdirectories in display order.
func (p Paths) DataDirs() []DataDir {
	return []DataDir{
		{Name: "payees", Path: filepath.Join(p.Root, "payees"), Pattern: "*" + datafile.ExtRecord},
		{Name: "payers", Path: filepath.Join(p.Root, "payers"), Pattern: "*" + datafile.ExtRecord},
		{Name: "styles", Path: filepath.Join(p.Root, "styles"), Pattern: "*" + datafile.ExtStylesheet},
		{Name: "templates", Path: filepath.Join(p.Root, "templates"), Pattern: "*" + datafile.ExtTemplate},
	}
}

// LoaderDirs maps the data subdirectories onto datafile.Dirs.
func (p Paths) LoaderDirs() datafile.Dirs {
	return datafile.Dirs{
		Payees:    filepath.Join(p.Root, "payees"),
		Payers:    filepath.Join(p.Root, "payers"),
		Styles:    filepath.Join(p.Root, "styles"),
		Templates: filepath.Join(p.Root, "templates"),
	}
}

// SettingsFile is the path of the optional settings file.
func (p Paths) SettingsFile() string {
	return filepath.Join(p.Root, "config.yml")
}

// EnsureDirectories creates every data subdirectory.
func (p Paths) EnsureDirectories() error {
	for _, dir := range p.DataDirs() {
		if err := os.MkdirAll(dir.Path, 0o755); err != nil {
			return fmt.Errorf("config: create %s dir: %w", dir.Name, err)
		}
	}
	return nil
}

// InstallDefaults copies default.<ext> for each data subdirectory from
// defaults into the data tree when the bundle has one and the destination
// does not exist yet. It returns the paths it wrote.
func (p Paths) InstallDefaults(defaults fs.FS) ([]string, error) {
	if defaults == nil {
		return nil, nil
	}
	var installed []string
	for _, dir := range p.DataDirs() {
		name := strings.Replace(dir.Pattern, "*", DefaultName, 1)
		data, err := fs.ReadFile(defaults, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return installed, fmt.Errorf("config: read default %s: %w", name, err)
		}

		dest := filepath.Join(dir.Path, name)
		if _, err := os.Stat(dest); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return installed, fmt.Errorf("config: stat %s: %w", dest, err)
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return installed, fmt.Errorf("config: install %s: %w", dest, err)
		}
		installed = append(installed, dest)
	}
	return installed, nil
}
