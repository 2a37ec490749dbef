package datafile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-invoicegen/pkg/invoice"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseItems reads CSV with a header row. Each data row becomes a Record keyed
// by header; cells missing from short rows are omitted so the builder reports
// them as missing fields.
func ParseItems(data []byte) ([]invoice.Record, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("missing header row")
	}

	header := rows[0]
	records := make([]invoice.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(invoice.Record, len(header))
		for i, key := range header {
			if i < len(row) {
				record[key] = row[i]
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// ParseRecord decodes a YAML mapping. An empty document is an error. Nested
// mappings always come back as map[string]any, with non-string keys such as
// numbers or booleans rendered as text.
func ParseRecord(data []byte) (map[string]any, error) {
	var record map[string]any
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if record == nil {
		return nil, errors.New("record is empty")
	}
	for key, value := range record {
		record[key] = normalize(value)
	}
	return record, nil
}

func normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, item := range v {
			v[key] = normalize(item)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalize(item)
		}
		return out
	case []any:
		for i, item := range v {
			v[i] = normalize(item)
		}
		return v
	default:
		return value
	}
}
