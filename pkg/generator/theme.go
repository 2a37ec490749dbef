package generator

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// cssVars merges the manifest tokens with the selected variant's tokens and
// names them as CSS custom properties.
func cssVars(selection *theme.Selection) map[string]string {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	tokens := make(map[string]string, len(selection.Manifest.Tokens))
	for key, value := range selection.Manifest.Tokens {
		tokens[key] = value
	}
	if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
	}
	if len(tokens) == 0 {
		return nil
	}
	vars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		vars["--"+strings.TrimPrefix(key, "--")] = value
	}
	return vars
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

// applyTheme appends the selected theme's custom properties to css, after any
// :root defaults the stylesheet declares itself.
func (g *Generator) applyTheme(css, name, variant string) (string, error) {
	if g.themeSelector == nil {
		return css, nil
	}
	selection, err := g.themeSelector.Select(name, variant)
	if err != nil {
		return "", fmt.Errorf("generator: select theme: %w", err)
	}
	style := cssVarsStyle(cssVars(selection))
	if style == "" {
		return css, nil
	}
	return strings.TrimRight(css, "\n") + "\n" + style + "\n", nil
}
