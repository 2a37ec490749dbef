package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-invoicegen/pkg/datafile"
	"github.com/goliatone/go-invoicegen/pkg/invoice"
)

// FixedClock returns a clock pinned to the given YYYY-MM-DD date, for builders
// and generators that stamp documents with the current day.
func FixedClock(t *testing.T, day string) func() time.Time {
	t.Helper()

	parsed, err := time.Parse(invoice.DateLayout, day)
	if err != nil {
		t.Fatalf("parse clock date: %v", err)
	}
	return func() time.Time { return parsed }
}

// MustLoadRecords reads a CSV fixture with a header row into invoice records.
func MustLoadRecords(t *testing.T, path string) []invoice.Record {
	t.Helper()

	records, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("load records: %v", err)
	}
	return records
}

// LoadRecords returns CSV records without requiring testing.T, allowing
// callers to wire fixtures in setup functions.
func LoadRecords(path string) ([]invoice.Record, error) {
	if path == "" {
		return nil, errors.New("testsupport: records path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read records: %w", err)
	}
	return ParseRecords(string(data))
}

// ParseRecords parses inline CSV text with a header row.
func ParseRecords(text string) ([]invoice.Record, error) {
	records, err := datafile.ParseItems([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("testsupport: parse records: %w", err)
	}
	return records, nil
}

// MustLoadRecord reads a YAML payee or payer fixture.
func MustLoadRecord(t *testing.T, path string) map[string]any {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load record: %v", err)
	}
	out, err := datafile.ParseRecord(data)
	if err != nil {
		t.Fatalf("parse record: %v", err)
	}
	return out
}

// WriteGolden writes arbitrary data to a golden file as indented JSON when
// UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
