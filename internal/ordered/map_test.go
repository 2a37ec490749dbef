package ordered

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMap_PreservesFirstInsertionOrder(t *testing.T) {
	m := New[string, int](4)
	m.Set("goods", 1)
	m.Set("", 2)
	m.Set("services", 3)
	m.Set("goods", 10)

	if diff := cmp.Diff([]string{"goods", "", "services"}, m.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{10, 2, 3}, m.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if got, ok := m.Get("goods"); !ok || got != 10 {
		t.Fatalf("expected goods=10, got %d (ok=%v)", got, ok)
	}
	if _, ok := m.Get("missing"); ok {
		t.Fatalf("expected missing key to be absent")
	}
}

func TestMap_UpsertAppendsOnce(t *testing.T) {
	var m Map[string, []string]

	for _, pair := range [][2]string{{"a", "1"}, {"b", "2"}, {"a", "3"}} {
		slot := m.Upsert(pair[0], func() []string { return nil })
		*slot = append(*slot, pair[1])
	}

	want := [][]string{{"1", "3"}, {"2"}}
	if diff := cmp.Diff(want, m.Values()); diff != "" {
		t.Fatalf("upsert mismatch (-want +got):\n%s", diff)
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", m.Len())
	}
}

func TestMap_EachStopsEarly(t *testing.T) {
	m := New[int, string](3)
	m.Set(3, "c")
	m.Set(1, "a")
	m.Set(2, "b")

	var seen []int
	m.Each(func(key int, _ string) bool {
		seen = append(seen, key)
		return len(seen) < 2
	})
	if diff := cmp.Diff([]int{3, 1}, seen); diff != "" {
		t.Fatalf("each mismatch (-want +got):\n%s", diff)
	}
}

func TestMap_NilReceiverReads(t *testing.T) {
	var m *Map[string, int]
	if m.Len() != 0 || m.Keys() != nil || m.Values() != nil {
		t.Fatalf("nil map should read as empty")
	}
	if _, ok := m.Get("x"); ok {
		t.Fatalf("nil map should not contain keys")
	}
}
