package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/goliatone/go-invoicegen/pkg/convert"
)

// EnvPrefix prefixes environment overrides, e.g. GEN_INVOICE_LOCALE.
const EnvPrefix = "GEN_INVOICE"

// Settings are user defaults read from config.yml and the environment.
// Command line flags take precedence over both.
type Settings struct {
	Template       string        `mapstructure:"template"`
	Style          string        `mapstructure:"style"`
	Locale         string        `mapstructure:"locale"`
	Currency       string        `mapstructure:"currency"`
	Tax            string        `mapstructure:"tax"`
	Converter      string        `mapstructure:"converter"`
	ConvertTimeout time.Duration `mapstructure:"convert_timeout"`
	Theme          ThemeSettings `mapstructure:"theme"`
}

// ThemeSettings declares design tokens injected into the stylesheet as CSS
// custom properties. Variants override base tokens.
type ThemeSettings struct {
	Name     string                       `mapstructure:"name"`
	Variant  string                       `mapstructure:"variant"`
	Tokens   map[string]string            `mapstructure:"tokens"`
	Variants map[string]map[string]string `mapstructure:"variants"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Template:  DefaultName,
		Style:     DefaultName,
		Tax:       "0",
		Converter: convert.ElectronPDFName,
	}
}

// TaxRate parses Tax as a decimal rate.
func (s Settings) TaxRate() (decimal.Decimal, error) {
	raw := strings.TrimSpace(s.Tax)
	if raw == "" {
		return decimal.Zero, nil
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("config: tax %q is not a number", s.Tax)
	}
	return rate, nil
}

// NewViper returns a viper instance bound to the settings file under paths
// and GEN_INVOICE_* environment variables, seeded with DefaultSettings.
func NewViper(paths Paths) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(paths.SettingsFile())
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultSettings()
	v.SetDefault("template", defaults.Template)
	v.SetDefault("style", defaults.Style)
	v.SetDefault("locale", defaults.Locale)
	v.SetDefault("currency", defaults.Currency)
	v.SetDefault("tax", defaults.Tax)
	v.SetDefault("converter", defaults.Converter)
	v.SetDefault("convert_timeout", defaults.ConvertTimeout)
	v.SetDefault("theme.name", "")
	v.SetDefault("theme.variant", "")
	return v
}

// LoadSettings reads config.yml when present and applies environment
// overrides. A missing settings file is not an error.
func LoadSettings(v *viper.Viper) (Settings, error) {
	if file := v.ConfigFileUsed(); file != "" {
		if _, err := os.Stat(file); err == nil {
			if err := v.ReadInConfig(); err != nil {
				return Settings{}, fmt.Errorf("config: read %s: %w", file, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("config: stat %s: %w", file, err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("config: decode settings: %w", err)
	}
	if _, err := settings.TaxRate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}
