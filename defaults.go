package invoicegen

import (
	"embed"
	"io/fs"
)

//go:embed defaults/*.html defaults/*.css
var embeddedDefaults embed.FS

// DefaultsFS exposes the bundled default.html template and default.css
// stylesheet. They are copied into the data directory on first run.
func DefaultsFS() fs.FS {
	sub, err := fs.Sub(embeddedDefaults, "defaults")
	if err != nil {
		return embeddedDefaults
	}
	return sub
}

// DefaultTemplate returns the bundled invoice template.
func DefaultTemplate() string {
	data, err := fs.ReadFile(DefaultsFS(), "default.html")
	if err != nil {
		return ""
	}
	return string(data)
}

// DefaultStylesheet returns the bundled stylesheet.
func DefaultStylesheet() string {
	data, err := fs.ReadFile(DefaultsFS(), "default.css")
	if err != nil {
		return ""
	}
	return string(data)
}
