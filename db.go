// Package pagedb is a page-oriented storage core: paged files with a
// run allocator, a clock-replacement buffer pool, and slotted pages for
// variable-length records.
package pagedb

import (
	"sync"

	"pagedb/internal/base"
	"pagedb/internal/buffer"
	"pagedb/internal/slotted"
)

// PageSize is the size of every page in bytes.
const PageSize = base.PageSize

// InvalidPageID is returned by NewPage when no frame is available.
const InvalidPageID = base.InvalidPageID

type (
	Page        = base.Page
	PageID      = base.PageID
	RID         = base.RID
	SlottedPage = slotted.Page
	Stats       = buffer.Stats
)

// NewSlottedPage views p as a slotted page with the given id. Call Init on a
// freshly allocated page before using it.
func NewSlottedPage(p *Page, id PageID) *SlottedPage {
	return slotted.New(p, id)
}

// DB owns a buffer pool shared by any number of paged files.
type DB struct {
	mu     sync.RWMutex
	pool   *buffer.Manager
	log    Logger
	closed bool // Database closed flag
}

// Open creates a buffer pool. Files are created with CreateFile or opened
// implicitly on first access by name.
func Open(options ...Option) *DB {
	opts := DefaultOptions()
	for _, opt := range options {
		opt(&opts)
	}

	return &DB{
		pool: buffer.New(buffer.Config{
			PoolSize:     opts.poolSize,
			MaxOpenFiles: opts.maxOpenFiles,
			Logger:       opts.logger,
			Sync:         opts.syncMode,
		}),
		log: opts.logger,
	}
}

// CreateFile creates or truncates a paged file of numPages pages (at least
// two).
func (d *DB) CreateFile(name string, numPages int) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDatabaseClosed
	}
	return d.pool.CreateFile(name, numPages)
}

// EraseFile drops the file's cached pages and deletes it from disk.
func (d *DB) EraseFile(name string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDatabaseClosed
	}
	return d.pool.EraseFile(name)
}

// PinPage pins a page and returns it. A nil page and nil error means the
// pool is fully pinned. When emptyPage is set the page is not read from
// disk.
func (d *DB) PinPage(id PageID, file string, emptyPage bool) (*Page, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return nil, ErrDatabaseClosed
	}
	return d.pool.PinPage(id, file, emptyPage)
}

// UnpinPage releases a pin and records whether the caller modified the page.
func (d *DB) UnpinPage(id PageID, file string, dirty bool) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDatabaseClosed
	}
	return d.pool.UnpinPage(id, file, dirty)
}

// NewPage allocates numPages contiguous pages and pins the first.
func (d *DB) NewPage(numPages int, file string) (PageID, *Page, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return InvalidPageID, nil, ErrDatabaseClosed
	}
	return d.pool.NewPage(numPages, file)
}

// FreePage deallocates a resident, unpinned page.
func (d *DB) FreePage(id PageID, file string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDatabaseClosed
	}
	return d.pool.FreePage(id, file)
}

// FlushPage writes a resident page to disk.
func (d *DB) FlushPage(id PageID, file string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDatabaseClosed
	}
	return d.pool.FlushPage(id, file)
}

// FlushAllPages writes every resident page to disk.
func (d *DB) FlushAllPages() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDatabaseClosed
	}
	return d.pool.FlushAllPages()
}

// FindFrame returns the frame index holding the page, or -1.
func (d *DB) FindFrame(id PageID, file string) int {
	return d.pool.FindFrame(id, file)
}

// PoolSize returns the number of frames in the pool.
func (d *DB) PoolSize() int {
	return d.pool.PoolSize()
}

// Stats returns buffer pool statistics.
func (d *DB) Stats() Stats {
	return d.pool.Stats()
}

// View pins a page, passes it to fn, and unpins it clean.
func (d *DB) View(file string, id PageID, fn func(*Page) error) error {
	return d.with(file, id, false, fn)
}

// Update pins a page, passes it to fn, and unpins it dirty if fn succeeds.
func (d *DB) Update(file string, id PageID, fn func(*Page) error) error {
	return d.with(file, id, true, fn)
}

func (d *DB) with(file string, id PageID, write bool, fn func(*Page) error) error {
	p, err := d.PinPage(id, file, false)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPoolFull
	}

	fnErr := fn(p)
	if err := d.UnpinPage(id, file, write && fnErr == nil); err != nil {
		return err
	}
	return fnErr
}

// Close flushes every page and closes all files. Further calls return
// ErrDatabaseClosed.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrDatabaseClosed
	}
	d.closed = true

	if err := d.pool.Close(); err != nil {
		d.log.Error("close", "error", err)
		return err
	}
	return nil
}
