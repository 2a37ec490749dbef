package invoice

import "fmt"

// DataFormatError reports a line item field that should be numeric but is not.
type DataFormatError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("invoice: line %d: %s value %q is not numeric", e.Line, e.Field, e.Value)
}

func (e *DataFormatError) Unwrap() error {
	return e.Err
}

// MissingFieldError reports a required field absent from a line item or a
// payee/payer record. Line is zero for party records.
type MissingFieldError struct {
	Record string
	Line   int
	Field  string
}

func (e *MissingFieldError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("invoice: line %d: missing %s field", e.Line, e.Field)
	case e.Field != "":
		return fmt.Sprintf("invoice: %s record: missing %s field", e.Record, e.Field)
	default:
		return fmt.Sprintf("invoice: %s record is required", e.Record)
	}
}
