package convert

import (
	"context"
	"errors"
	"fmt"
)

// Converter produces an output document from an HTML file on disk.
type Converter interface {
	Name() string
	Convert(ctx context.Context, htmlPath, outPath string) error
}

// ErrUnavailable reports that the conversion tool cannot be run at all.
var ErrUnavailable = errors.New("convert: converter unavailable")

// ConversionError wraps every failure raised by a Converter.
type ConversionError struct {
	Converter string
	Output    string
	Err       error
}

func (e *ConversionError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("convert: %s: %v: %s", e.Converter, e.Err, e.Output)
	}
	return fmt.Sprintf("convert: %s: %v", e.Converter, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
