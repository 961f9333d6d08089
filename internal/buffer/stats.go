package buffer

// Stats is a snapshot of pool activity.
type Stats struct {
	Hits      uint64 // pins served from a resident frame
	Misses    uint64 // pins that needed a frame
	Evictions uint64

	// Disk I/O of every file the pool has opened.
	Reads        uint64 // page reads
	Writes       uint64 // page writes
	BytesRead    uint64
	BytesWritten uint64

	PoolSize int
	Resident int
	Pinned   int
	Dirty    int
}

// Stats returns current statistics.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	io := m.files.stats()
	s := Stats{
		Hits:         m.hits.Load(),
		Misses:       m.misses.Load(),
		Evictions:    m.evictions.Load(),
		Reads:        io.Reads,
		Writes:       io.Writes,
		BytesRead:    io.Read,
		BytesWritten: io.Written,
		PoolSize:     len(m.frames),
	}
	for i := range m.frames {
		f := &m.frames[i]
		if !f.used {
			continue
		}
		s.Resident++
		if f.pinCount > 0 {
			s.Pinned++
		}
		if f.dirty {
			s.Dirty++
		}
	}
	return s
}
