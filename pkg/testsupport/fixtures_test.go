package testsupport

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-invoicegen/pkg/invoice"
)

func TestParseRecords(t *testing.T) {
	got, err := ParseRecords("Item,Units,Quantity,Price\nWidget,each,2,10.00\nShort,hour\n")
	if err != nil {
		t.Fatalf("parse records: %v", err)
	}
	want := []invoice.Record{
		{"Item": "Widget", "Units": "each", "Quantity": "2", "Price": "10.00"},
		{"Item": "Short", "Units": "hour"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestFixedClock(t *testing.T) {
	now := FixedClock(t, "2024-03-01")
	if got := now().Format(invoice.DateLayout); got != "2024-03-01" {
		t.Fatalf("clock = %s", got)
	}
}
