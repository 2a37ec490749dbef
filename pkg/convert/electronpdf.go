package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/mod/semver"
)

const (
	ElectronPDFName = "electron-pdf"
	// ElectronPDFMinVersion is the oldest electron-pdf release that supports
	// the flags passed by ElectronPDF.
	ElectronPDFMinVersion = "4.0.6"

	electronPDFPackage = "electron-pdf"
)

// ElectronPDFOption configures an ElectronPDF converter.
type ElectronPDFOption func(*ElectronPDF)

// WithRunner replaces the os/exec runner.
func WithRunner(runner Runner) ElectronPDFOption {
	return func(c *ElectronPDF) {
		if runner != nil {
			c.runner = runner
		}
	}
}

// WithNPX overrides the npx executable.
func WithNPX(path string) ElectronPDFOption {
	return func(c *ElectronPDF) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			c.npx = trimmed
		}
	}
}

// WithMinimumVersion overrides ElectronPDFMinVersion.
func WithMinimumVersion(version string) ElectronPDFOption {
	return func(c *ElectronPDF) {
		if trimmed := strings.TrimPrefix(strings.TrimSpace(version), "v"); trimmed != "" {
			c.minVersion = trimmed
		}
	}
}

// WithConverterLogger attaches a logger.
func WithConverterLogger(logger *zap.Logger) ElectronPDFOption {
	return func(c *ElectronPDF) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// ElectronPDF prints HTML to A4 PDF with electron-pdf run through npx.
type ElectronPDF struct {
	runner     Runner
	npx        string
	minVersion string
	logger     *zap.Logger
}

var _ Converter = (*ElectronPDF)(nil)

// NewElectronPDF constructs the converter.
func NewElectronPDF(options ...ElectronPDFOption) *ElectronPDF {
	c := &ElectronPDF{
		runner:     ExecRunner{},
		npx:        "npx",
		minVersion: ElectronPDFMinVersion,
		logger:     zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *ElectronPDF) Name() string {
	return ElectronPDFName
}

// Package returns the npx package spec to run: the installed electron-pdf
// when it reports a version at or above the minimum, otherwise the minimum
// version pinned explicitly.
func (c *ElectronPDF) Package(ctx context.Context) string {
	pinned := electronPDFPackage + "@" + c.minVersion

	out, err := c.runner.Run(ctx, c.npx, electronPDFPackage, "--version")
	if err != nil {
		c.logger.Debug("electron-pdf version probe failed", zap.Error(err))
		return pinned
	}

	version := canonicalVersion(lastLine(string(out)))
	if version == "" {
		c.logger.Debug("electron-pdf reported an unparseable version", zap.String("output", strings.TrimSpace(string(out))))
		return pinned
	}
	if semver.Compare(version, "v"+c.minVersion) < 0 {
		c.logger.Debug("electron-pdf is older than required",
			zap.String("version", version),
			zap.String("minimum", c.minVersion),
		)
		return pinned
	}
	return electronPDFPackage
}

// Args returns the npx arguments that convert htmlPath into pdfPath.
func (c *ElectronPDF) Args(pkg, htmlPath, pdfPath string) []string {
	return []string{
		pkg,
		fileURL(htmlPath),
		filepath.ToSlash(pdfPath),
		"--printBackground",
		"--pageSize=A4",
		"--marginsType=0",
		"--waitForJSEvent", "did-finish-load",
	}
}

// Convert removes any stale PDF at pdfPath, runs electron-pdf and checks the
// PDF was written.
func (c *ElectronPDF) Convert(ctx context.Context, htmlPath, pdfPath string) error {
	fail := func(err error, output []byte) error {
		return &ConversionError{
			Converter: ElectronPDFName,
			Output:    strings.TrimSpace(string(output)),
			Err:       err,
		}
	}

	htmlAbs, err := filepath.Abs(htmlPath)
	if err != nil {
		return fail(err, nil)
	}
	pdfAbs, err := filepath.Abs(pdfPath)
	if err != nil {
		return fail(err, nil)
	}

	if err := os.Remove(pdfAbs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fail(fmt.Errorf("remove stale pdf: %w", err), nil)
	}

	pkg := c.Package(ctx)
	args := c.Args(pkg, htmlAbs, pdfAbs)
	c.logger.Debug("running converter", zap.String("command", c.npx), zap.Strings("args", args))

	out, err := c.runner.Run(ctx, c.npx, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fail(ctxErr, out)
		}
		if errors.Is(err, exec.ErrNotFound) {
			return fail(fmt.Errorf("%w: %v", ErrUnavailable, err), out)
		}
		return fail(err, out)
	}

	if _, err := os.Stat(pdfAbs); err != nil {
		return fail(fmt.Errorf("no pdf written to %s", pdfAbs), out)
	}
	return nil
}

func fileURL(path string) string {
	slashed := filepath.ToSlash(path)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	return "file://" + slashed
}

func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

func canonicalVersion(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "v") {
		raw = "v" + raw
	}
	if !semver.IsValid(raw) {
		return ""
	}
	return semver.Canonical(raw)
}
