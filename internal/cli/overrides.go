package cli

import (
	"fmt"
	"strings"
	"unicode"
)

// parseContextPairs turns repeated --context KEY=VALUE arguments into
// template overrides. The value may itself contain '='; later pairs replace
// earlier ones with the same key.
func parseContextPairs(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	overrides := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || !isIdentifier(key) {
			return nil, fmt.Errorf("invalid key/value pair %q", pair)
		}
		overrides[key] = value
	}
	return overrides, nil
}

// isIdentifier reports whether key can be referenced from a template.
func isIdentifier(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r == '_', unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
