// Package spacemap tracks which pages of a paged file are allocated.
//
// The map keeps one byte per page, matching the on-disk ".map" file byte for
// byte: 0 means free, any other value means allocated.
package spacemap

const (
	free      byte = 0
	allocated byte = 1
)

// Map is the in-memory allocation bitmap of one paged file.
type Map struct {
	bits []byte
}

// New creates a map of n free pages.
func New(n int) *Map {
	return &Map{bits: make([]byte, n)}
}

// FromBytes wraps the contents of a map file. The slice is owned by the Map
// afterwards.
func FromBytes(b []byte) *Map {
	return &Map{bits: b}
}

// Len returns the number of pages tracked.
func (m *Map) Len() int {
	return len(m.bits)
}

// Bytes returns the encoded map. The result aliases the map's storage.
func (m *Map) Bytes() []byte {
	return m.bits
}

// IsAllocated reports whether page i is allocated. Out of range pages are
// reported as not allocated.
func (m *Map) IsAllocated(i int) bool {
	if i < 0 || i >= len(m.bits) {
		return false
	}
	return m.bits[i] != free
}

// FindRun returns the start of the lowest-addressed run of n free pages.
// Runs are searched in increasing start order so placement is deterministic.
func (m *Map) FindRun(n int) (int, bool) {
	if n <= 0 || n > len(m.bits) {
		return 0, false
	}

	run := 0
	for i, b := range m.bits {
		if b != free {
			run = 0
			continue
		}
		run++
		if run == n {
			return i - n + 1, true
		}
	}
	return 0, false
}

// SetRun marks pages [start, start+n) allocated.
func (m *Map) SetRun(start, n int) {
	m.fill(start, n, allocated)
}

// ClearRun marks pages [start, start+n) free. Pages that were already free
// stay free.
func (m *Map) ClearRun(start, n int) {
	m.fill(start, n, free)
}

// Run returns the encoded bytes of pages [start, start+n), aliasing the map.
func (m *Map) Run(start, n int) []byte {
	return m.bits[start : start+n]
}

// CountFree returns the number of free pages.
func (m *Map) CountFree() int {
	n := 0
	for _, b := range m.bits {
		if b == free {
			n++
		}
	}
	return n
}

func (m *Map) fill(start, n int, v byte) {
	run := m.bits[start : start+n]
	for i := range run {
		run[i] = v
	}
}
