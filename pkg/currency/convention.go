package currency

import (
	"fmt"
	"strings"

	xcurrency "golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Convention captures the display rules for one locale/currency pairing.
type Convention struct {
	Tag         language.Tag
	Unit        xcurrency.Unit
	Symbol      string
	Precision   int
	SymbolAfter bool
}

// Default is the convention used when nothing else is configured.
var Default = ForTag(language.AmericanEnglish)

// suffixLanguages place the currency symbol after the number.
var suffixLanguages = map[string]struct{}{
	"bg": {}, "cs": {}, "da": {}, "de": {}, "es": {}, "et": {}, "fi": {},
	"fr": {}, "hr": {}, "hu": {}, "is": {}, "it": {}, "lt": {}, "lv": {},
	"nb": {}, "no": {}, "pl": {}, "pt": {}, "ro": {}, "ru": {}, "sk": {},
	"sl": {}, "sr": {}, "sv": {}, "uk": {}, "vi": {},
}

// ForTag derives a Convention from a language tag. The currency unit comes from
// the tag's "cu" extension or its (possibly inferred) region and falls back to
// USD.
func ForTag(tag language.Tag) Convention {
	unit, conf := xcurrency.FromTag(tag)
	if conf == language.No {
		unit = xcurrency.USD
	}
	return ForTagAndUnit(tag, unit)
}

// ForTagAndUnit builds a Convention for an explicit currency unit rendered
// with the grouping rules of tag.
func ForTagAndUnit(tag language.Tag, unit xcurrency.Unit) Convention {
	scale, _ := xcurrency.Standard.Rounding(unit)
	base, _ := tag.Base()
	_, suffix := suffixLanguages[base.String()]
	return Convention{
		Tag:         tag,
		Unit:        unit,
		Symbol:      message.NewPrinter(tag).Sprint(xcurrency.NarrowSymbol(unit)),
		Precision:   scale,
		SymbolAfter: suffix,
	}
}

// Parse resolves a locale string such as "en_AU.UTF-8" or "de-DE" and an
// optional ISO 4217 code into a Convention. An empty code keeps the
// currency implied by the locale.
func Parse(locale, code string) (Convention, error) {
	tag, err := ParseLocale(locale)
	if err != nil {
		return Convention{}, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return ForTag(tag), nil
	}
	unit, err := xcurrency.ParseISO(code)
	if err != nil {
		return Convention{}, fmt.Errorf("currency: parse code %q: %w", code, err)
	}
	return ForTagAndUnit(tag, unit), nil
}

// ParseLocale converts POSIX style locale names ("en_US.UTF-8", "de_DE@euro")
// and BCP 47 tags into a language.Tag. "C", "POSIX" and the empty string map
// to American English.
func ParseLocale(raw string) (language.Tag, error) {
	name := strings.TrimSpace(raw)
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}
	switch name {
	case "", "C", "POSIX":
		return language.AmericanEnglish, nil
	}
	tag, err := language.Parse(strings.ReplaceAll(name, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("currency: parse locale %q: %w", raw, err)
	}
	return tag, nil
}

// FromEnvironment picks the monetary locale the same way the C library does:
// LC_ALL, then LC_MONETARY, then LANG. lookup is usually os.LookupEnv.
func FromEnvironment(lookup func(string) (string, bool)) Convention {
	if lookup == nil {
		return Default
	}
	for _, key := range []string{"LC_ALL", "LC_MONETARY", "LANG"} {
		value, ok := lookup(key)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		tag, err := ParseLocale(value)
		if err != nil {
			return Default
		}
		return ForTag(tag)
	}
	return Default
}
