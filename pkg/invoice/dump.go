package invoice

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// DumpFormat selects the diagnostic serialisation.
type DumpFormat string

const (
	FormatJSON DumpFormat = "json"
	FormatYAML DumpFormat = "yaml"
)

// ParseDumpFormat accepts "json", "yaml" or "yml" (case-insensitive).
func ParseDumpFormat(raw string) (DumpFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invoice: unknown dump format %q", raw)
	}
}

// Dump writes the merged document view to w.
func Dump(w io.Writer, doc *Document, format DumpFormat) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("invoice: dump json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("invoice: dump yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("invoice: dump yaml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("invoice: unknown dump format %q", format)
	}
}

// ParseContext reads a JSON or YAML dump back into a Context. Keys that are
// not Context fields (overlay-only keys) are ignored.
func ParseContext(data []byte) (Context, error) {
	var ctx Context
	if err := yaml.Unmarshal(data, &ctx); err != nil {
		return Context{}, fmt.Errorf("invoice: parse context: %w", err)
	}
	return ctx, nil
}
