// Package buffer implements a fixed-size buffer pool over paged files with
// clock (second chance) replacement.
package buffer

import (
	"fmt"
	"sync"
	"sync/atomic"

	"pagedb/internal/base"
	"pagedb/internal/storage"
)

const (
	DefaultPoolSize     = 64
	DefaultMaxOpenFiles = 16
)

// SyncMode controls when flushed pages are forced to stable storage.
type SyncMode int

const (
	// SyncOnFlushAll fsyncs every flushed file at the end of FlushAllPages.
	SyncOnFlushAll SyncMode = iota
	// SyncOff leaves durability to the operating system.
	SyncOff
)

// Config configures a Manager.
type Config struct {
	PoolSize     int
	MaxOpenFiles int
	Logger       base.Logger
	Sync         SyncMode
}

// Manager caches pages of paged files in a fixed array of frames. Callers
// pin a page to use it and unpin it when done; only unpinned frames are
// replaced.
//
// Pages are addressed by file name and page id. Files are opened on demand
// and kept in a small LRU of open handles.
type Manager struct {
	mu       sync.Mutex
	frames   []frame
	table    map[pageKey]int // resident page -> frame index
	clock    int
	files    *fileCache
	log      base.Logger
	syncMode SyncMode

	// Stats
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New creates a buffer pool manager.
func New(cfg Config) *Manager {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = DefaultPoolSize
	}
	if cfg.MaxOpenFiles <= 0 {
		cfg.MaxOpenFiles = DefaultMaxOpenFiles
	}
	if cfg.Logger == nil {
		cfg.Logger = base.DiscardLogger{}
	}

	return &Manager{
		frames:   make([]frame, cfg.PoolSize),
		table:    make(map[pageKey]int, cfg.PoolSize),
		files:    newFileCache(cfg.MaxOpenFiles, cfg.Logger),
		log:      cfg.Logger,
		syncMode: cfg.Sync,
	}
}

// PoolSize returns the number of frames.
func (m *Manager) PoolSize() int {
	return len(m.frames)
}

// PinPage pins page id of file and returns its in-memory copy. If the page
// is not resident a frame is chosen by the clock sweep and, unless emptyPage
// is set, the page is read from disk.
//
// A nil page with a nil error means every frame is pinned.
func (m *Manager) PinPage(id base.PageID, file string, emptyPage bool) (*base.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.pin(pageKey{file: file, id: id}, emptyPage)
}

// UnpinPage releases one pin on the page and sets its dirty flag to dirty.
func (m *Manager) UnpinPage(id base.PageID, file string, dirty bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.table[pageKey{file: file, id: id}]
	if !ok || m.frames[idx].pinCount == 0 {
		return fmt.Errorf("%w: page %d of %s", base.ErrPageNotPinned, id, file)
	}

	f := &m.frames[idx]
	f.pinCount--
	f.dirty = dirty
	return nil
}

// NewPage allocates a run of n pages in file and pins the first one without
// reading it. If no frame is free the run is released again and
// InvalidPageID is returned with a nil page and nil error.
func (m *Manager) NewPage(n int, file string) (base.PageID, *base.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := m.files.get(file)
	if err != nil {
		return base.InvalidPageID, nil, err
	}
	id, err := f.AllocatePages(n)
	if err != nil {
		return base.InvalidPageID, nil, err
	}

	page, err := m.pin(pageKey{file: file, id: id}, true)
	if err == nil && page != nil {
		return id, page, nil
	}

	// Pinning may have cycled the file handle, so look it up again.
	if f, ferr := m.files.get(file); ferr != nil {
		m.log.Error("release unused run", "file", file, "page", id, "error", ferr)
	} else if derr := f.DeallocatePages(id, n); derr != nil {
		m.log.Error("release unused run", "file", file, "page", id, "error", derr)
	}
	return base.InvalidPageID, nil, err
}

// FreePage deallocates a resident, unpinned page and releases its frame.
// Pages that are not resident are left alone.
func (m *Manager) FreePage(id base.PageID, file string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := pageKey{file: file, id: id}
	idx, ok := m.table[key]
	if !ok {
		return nil
	}
	if m.frames[idx].pinCount > 0 {
		return fmt.Errorf("%w: page %d of %s", base.ErrPagePinned, id, file)
	}

	f, err := m.files.get(file)
	if err != nil {
		return err
	}
	if err := f.DeallocatePages(id, 1); err != nil {
		return err
	}
	m.release(idx)
	return nil
}

// FlushPage writes a resident page to disk whether or not it is dirty.
func (m *Manager) FlushPage(id base.PageID, file string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.table[pageKey{file: file, id: id}]
	if !ok {
		return nil
	}
	return m.write(&m.frames[idx])
}

// FlushAllPages writes every resident page. All frames are attempted; the
// first error is returned.
func (m *Manager) FlushAllPages() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.flushAll()
}

// FindFrame returns the frame holding the page, or -1.
func (m *Manager) FindFrame(id base.PageID, file string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idx, ok := m.table[pageKey{file: file, id: id}]; ok {
		return idx
	}
	return -1
}

// CreateFile creates (or recreates) a paged file of numPages pages. Cached
// frames of an older file with the same name are discarded.
func (m *Manager) CreateFile(name string, numPages int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.dropFile(name); err != nil {
		return err
	}
	f, err := storage.Create(name, numPages)
	if err != nil {
		return err
	}
	m.files.put(f)
	m.log.Info("created file", "file", name, "pages", f.NumPages())
	return nil
}

// EraseFile discards the file's frames without writing them and removes the
// file from disk. It fails if any of its pages is pinned.
func (m *Manager) EraseFile(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.dropFile(name); err != nil {
		return err
	}
	if err := storage.Erase(name); err != nil {
		return err
	}
	m.log.Info("erased file", "file", name)
	return nil
}

// Close flushes all pages and closes every open file.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.flushAll()
	m.files.closeAll()
	return err
}

func (m *Manager) pin(key pageKey, emptyPage bool) (*base.Page, error) {
	if idx, ok := m.table[key]; ok {
		m.hits.Add(1)
		f := &m.frames[idx]
		f.pinCount++
		f.ref = true
		return &f.page, nil
	}
	m.misses.Add(1)

	idx, err := m.victim()
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		m.log.Warn("buffer pool full", "file", key.file, "page", key.id)
		return nil, nil
	}

	f := &m.frames[idx]
	if emptyPage {
		f.page.Reset()
	} else if err := m.read(key, &f.page); err != nil {
		f.reset()
		return nil, err
	}

	f.key = key
	f.used = true
	f.pinCount = 1
	f.ref = true
	f.dirty = false
	m.table[key] = idx
	return &f.page, nil
}

// victim runs the clock sweep for at most two laps. It returns the index of
// a free frame (its previous page already flushed and unmapped), or -1 when
// every frame is pinned.
func (m *Manager) victim() (int, error) {
	n := len(m.frames)
	start := m.clock
	for i := 0; i < 2*n; i++ {
		idx := (start + i) % n
		f := &m.frames[idx]

		switch {
		case !f.used:
			m.clock = (idx + 1) % n
			return idx, nil
		case f.pinCount > 0:
			continue
		case f.ref:
			f.ref = false
			m.clock = (idx + 1) % n
		default:
			if f.dirty {
				if err := m.write(f); err != nil {
					m.log.Error("flush victim", "file", f.key.file, "page", f.key.id, "error", err)
					return -1, err
				}
			}
			delete(m.table, f.key)
			f.reset()
			m.evictions.Add(1)
			m.clock = (idx + 1) % n
			return idx, nil
		}
	}
	return -1, nil
}

func (m *Manager) read(key pageKey, page *base.Page) error {
	file, err := m.files.get(key.file)
	if err != nil {
		return err
	}
	return file.ReadPage(key.id, page)
}

func (m *Manager) write(f *frame) error {
	file, err := m.files.get(f.key.file)
	if err != nil {
		return err
	}
	if err := file.WritePage(f.key.id, &f.page); err != nil {
		return err
	}
	f.dirty = false
	return nil
}

func (m *Manager) flushAll() error {
	var first error
	written := make(map[string]struct{})
	for i := range m.frames {
		f := &m.frames[i]
		if !f.used {
			continue
		}
		if err := m.write(f); err != nil {
			m.log.Error("flush page", "file", f.key.file, "page", f.key.id, "error", err)
			if first == nil {
				first = err
			}
			continue
		}
		written[f.key.file] = struct{}{}
	}

	if m.syncMode == SyncOnFlushAll {
		for name := range written {
			file, err := m.files.get(name)
			if err == nil {
				err = file.Sync()
			}
			if err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

// release unmaps a frame without writing it.
func (m *Manager) release(idx int) {
	delete(m.table, m.frames[idx].key)
	m.frames[idx].reset()
}

// dropFile releases every frame of the named file and closes its handle.
func (m *Manager) dropFile(name string) error {
	for i := range m.frames {
		f := &m.frames[i]
		if f.used && f.key.file == name && f.pinCount > 0 {
			return fmt.Errorf("%w: page %d of %s", base.ErrPagePinned, f.key.id, name)
		}
	}
	for i := range m.frames {
		if f := &m.frames[i]; f.used && f.key.file == name {
			m.release(i)
		}
	}
	m.files.drop(name)
	return nil
}
