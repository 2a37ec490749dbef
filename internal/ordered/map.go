// Package ordered provides a map that remembers the order in which keys were
// first inserted.
package ordered

// Map is an insertion-order-preserving key/value container. The zero value is
// ready to use. Map is not safe for concurrent mutation.
type Map[K comparable, V any] struct {
	index  map[K]int
	keys   []K
	values []V
}

// New returns an empty Map with room for size entries.
func New[K comparable, V any](size int) *Map[K, V] {
	return &Map[K, V]{
		index:  make(map[K]int, size),
		keys:   make([]K, 0, size),
		values: make([]V, 0, size),
	}
}

// Len reports the number of entries.
func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	var zero V
	if m == nil || m.index == nil {
		return zero, false
	}
	pos, ok := m.index[key]
	if !ok {
		return zero, false
	}
	return m.values[pos], true
}

// Set stores value under key. A new key is appended to the iteration order; an
// existing key keeps its original position.
func (m *Map[K, V]) Set(key K, value V) {
	if m.index == nil {
		m.index = make(map[K]int)
	}
	if pos, ok := m.index[key]; ok {
		m.values[pos] = value
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
}

// Upsert returns a pointer to the value stored under key, inserting the
// result of create first when the key is new. The pointer is valid until the
// next insertion.
func (m *Map[K, V]) Upsert(key K, create func() V) *V {
	if m.index == nil {
		m.index = make(map[K]int)
	}
	pos, ok := m.index[key]
	if !ok {
		pos = len(m.keys)
		m.index[key] = pos
		m.keys = append(m.keys, key)
		m.values = append(m.values, create())
	}
	return &m.values[pos]
}

// Keys returns the keys in first-insertion order.
func (m *Map[K, V]) Keys() []K {
	if m == nil {
		return nil
	}
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns the values in first-insertion order.
func (m *Map[K, V]) Values() []V {
	if m == nil {
		return nil
	}
	out := make([]V, len(m.values))
	copy(out, m.values)
	return out
}

// Each calls fn for every entry in order, stopping early when fn returns false.
func (m *Map[K, V]) Each(fn func(key K, value V) bool) {
	if m == nil || fn == nil {
		return
	}
	for i, key := range m.keys {
		if !fn(key, m.values[i]) {
			return
		}
	}
}
