package config

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

const themeVersion = "1.0.0"

// Enabled reports whether any tokens are configured.
func (t ThemeSettings) Enabled() bool {
	if len(t.Tokens) > 0 {
		return true
	}
	for _, tokens := range t.Variants {
		if len(tokens) > 0 {
			return true
		}
	}
	return false
}

// Manifest converts the settings into a go-theme manifest.
func (t ThemeSettings) Manifest() *theme.Manifest {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		name = AppName
	}
	manifest := &theme.Manifest{
		Name:    name,
		Version: themeVersion,
		Tokens:  copyTokens(t.Tokens),
	}
	if len(t.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(t.Variants))
		for variant, tokens := range t.Variants {
			manifest.Variants[variant] = theme.Variant{Tokens: copyTokens(tokens)}
		}
	}
	return manifest
}

// Selector validates the manifest with a go-theme registry and returns a
// selector over it. It returns nil when no tokens are configured.
func (t ThemeSettings) Selector() (theme.ThemeSelector, error) {
	if !t.Enabled() {
		return nil, nil
	}
	manifest := t.Manifest()
	registry := theme.NewRegistry()
	if err := registry.Register(manifest); err != nil {
		return nil, fmt.Errorf("config: register theme %q: %w", manifest.Name, err)
	}
	return &manifestSelector{manifest: manifest}, nil
}

// manifestSelector serves the single manifest built from settings.
type manifestSelector struct {
	manifest *theme.Manifest
}

func (s *manifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name != "" && name != s.manifest.Name {
		return nil, fmt.Errorf("config: unknown theme %q", name)
	}
	if variant != "" {
		if _, ok := s.manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("config: theme %q has no variant %q", s.manifest.Name, variant)
		}
	}
	return &theme.Selection{
		Theme:    s.manifest.Name,
		Variant:  variant,
		Manifest: s.manifest,
	}, nil
}

func copyTokens(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
