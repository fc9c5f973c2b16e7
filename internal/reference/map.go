package reference

// Map associates original references (Content-Location values and stale
// Content-IDs) with newly assigned identifiers. Keys keep insertion order,
// which decides the winner of file-name fallback lookups.
type Map struct {
	keys []string
	ids  map[string]string
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{ids: make(map[string]string)}
}

// Set maps ref to id. Re-setting an existing ref updates it in place.
func (m *Map) Set(ref, id string) {
	if _, ok := m.ids[ref]; !ok {
		m.keys = append(m.keys, ref)
	}
	m.ids[ref] = id
}

// Lookup returns the identifier mapped to exactly ref.
func (m *Map) Lookup(ref string) (string, bool) {
	id, ok := m.ids[ref]
	return id, ok
}

// Resolve looks ref up directly and otherwise falls back to the first key,
// in insertion order, whose file name equals ref's file name. Two locations
// sharing a file name therefore resolve to whichever was mapped first.
func (m *Map) Resolve(ref string) (string, bool) {
	if id, ok := m.Lookup(ref); ok {
		return id, true
	}

	name := FileName(ref)
	if name == "" {
		return "", false
	}
	for _, key := range m.keys {
		if FileName(key) == name {
			return m.ids[key], true
		}
	}
	return "", false
}

// Keys returns the original references in insertion order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}
