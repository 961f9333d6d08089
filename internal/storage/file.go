package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"pagedb/internal/base"
	"pagedb/internal/spacemap"
)

// MinPages is the smallest number of pages a file is created with.
const MinPages = 2

// MapSuffix is appended to a file name to get its allocation map file.
const MapSuffix = ".map"

// File is a paged file: a data file of fixed-size pages plus an allocation
// map file holding one byte per page.
type File struct {
	name string

	mu      sync.Mutex
	data    *os.File
	mapFile *os.File
	space   *spacemap.Map
	closed  bool

	// Stats counters
	reads   atomic.Uint64
	writes  atomic.Uint64
	read    atomic.Uint64
	written atomic.Uint64
}

// Create creates (or truncates) the named file with numPages zeroed pages,
// all free. Fewer than MinPages pages are raised to MinPages.
func Create(name string, numPages int) (*File, error) {
	if numPages < MinPages {
		numPages = MinPages
	}

	data, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return nil, err
	}
	if err := data.Truncate(int64(numPages) * base.PageSize); err != nil {
		data.Close()
		return nil, err
	}

	mapFile, err := os.OpenFile(name+MapSuffix, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		data.Close()
		return nil, err
	}
	space := spacemap.New(numPages)
	if _, err := mapFile.WriteAt(space.Bytes(), 0); err != nil {
		data.Close()
		mapFile.Close()
		return nil, err
	}

	return newFile(name, data, mapFile, space), nil
}

// Open opens an existing file. The number of pages is the length of its map
// file; a missing or empty map yields a file with no pages.
func Open(name string) (*File, error) {
	data, err := os.OpenFile(name, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	mapFile, err := os.OpenFile(name+MapSuffix, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		data.Close()
		return nil, err
	}
	bits, err := io.ReadAll(mapFile)
	if err != nil {
		data.Close()
		mapFile.Close()
		return nil, err
	}

	return newFile(name, data, mapFile, spacemap.FromBytes(bits)), nil
}

// Erase removes the data file and its map file.
func Erase(name string) error {
	return errors.Join(os.Remove(name), os.Remove(name+MapSuffix))
}

func newFile(name string, data, mapFile *os.File, space *spacemap.Map) *File {
	adviseRandom(data)
	return &File{
		name:    name,
		data:    data,
		mapFile: mapFile,
		space:   space,
	}
}

// Name returns the path the file was opened with.
func (f *File) Name() string {
	return f.name
}

// NumPages returns the fixed number of pages in the file.
func (f *File) NumPages() int {
	return f.space.Len()
}

// IsAllocated reports whether the page is currently allocated.
func (f *File) IsAllocated(id base.PageID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.space.IsAllocated(int(id))
}

// FreePages returns the number of unallocated pages.
func (f *File) FreePages() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.space.CountFree()
}

// AllocatePages marks the lowest-addressed run of runSize free pages as
// allocated and returns its first page.
func (f *File) AllocatePages(runSize int) (base.PageID, error) {
	if runSize <= 0 {
		return base.InvalidPageID, base.ErrNonPositiveRunSize
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	start, ok := f.space.FindRun(runSize)
	if !ok {
		return base.InvalidPageID, fmt.Errorf("%w: no run of %d pages in %s", base.ErrFileFull, runSize, f.name)
	}

	f.space.SetRun(start, runSize)
	if err := f.writeMap(start, runSize); err != nil {
		f.space.ClearRun(start, runSize)
		return base.InvalidPageID, err
	}
	return base.PageID(start), nil
}

// DeallocatePages marks runSize pages starting at start as free. Pages in the
// run that were already free stay free.
func (f *File) DeallocatePages(start base.PageID, runSize int) error {
	if runSize <= 0 {
		return base.ErrNonPositiveRunSize
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if start < 0 || int(start) >= f.space.Len() || runSize > f.space.Len()-int(start) {
		return fmt.Errorf("%w: run %d+%d in %s", base.ErrBadPageNumber, start, runSize, f.name)
	}

	f.space.ClearRun(int(start), runSize)
	return f.writeMap(int(start), runSize)
}

// ReadPage copies the page's bytes from disk into page.
func (f *File) ReadPage(id base.PageID, page *base.Page) error {
	if err := f.checkPage(id); err != nil {
		return err
	}

	f.reads.Add(1)
	n, err := f.data.ReadAt(page.Data[:], int64(id)*base.PageSize)
	f.read.Add(uint64(n))
	if err != nil {
		return fmt.Errorf("read page %d of %s: %w", id, f.name, err)
	}
	return nil
}

// WritePage writes page's bytes to the page's position on disk.
func (f *File) WritePage(id base.PageID, page *base.Page) error {
	if f.NumPages() == 0 {
		return base.ErrEmptyFile
	}
	if err := f.checkPage(id); err != nil {
		return err
	}

	f.writes.Add(1)
	n, err := f.data.WriteAt(page.Data[:], int64(id)*base.PageSize)
	f.written.Add(uint64(n))
	if err != nil {
		return fmt.Errorf("write page %d of %s: %w", id, f.name, err)
	}
	return nil
}

// Sync flushes the data and map files to stable storage.
func (f *File) Sync() error {
	if err := f.data.Sync(); err != nil {
		return err
	}
	return f.mapFile.Sync()
}

// Closed reports whether Close has been called.
func (f *File) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Close releases both file handles. Closing twice is a no-op.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true
	return errors.Join(f.data.Close(), f.mapFile.Close())
}

func (f *File) checkPage(id base.PageID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if id < 0 || int(id) >= f.space.Len() {
		return fmt.Errorf("%w: page %d of %s", base.ErrBadPageNumber, id, f.name)
	}
	if !f.space.IsAllocated(int(id)) {
		return fmt.Errorf("%w: page %d of %s", base.ErrPageNotAllocated, id, f.name)
	}
	return nil
}

// writeMap persists map entries [start, start+n). Caller holds f.mu.
func (f *File) writeMap(start, n int) error {
	if _, err := f.mapFile.WriteAt(f.space.Run(start, n), int64(start)); err != nil {
		return fmt.Errorf("write allocation map of %s: %w", f.name, err)
	}
	return nil
}

// Stats holds I/O statistics
type Stats struct {
	Reads   uint64
	Writes  uint64
	Read    uint64
	Written uint64
}

// Stats returns I/O statistics
func (f *File) Stats() Stats {
	return Stats{
		Reads:   f.reads.Load(),
		Writes:  f.writes.Load(),
		Read:    f.read.Load(),
		Written: f.written.Load(),
	}
}
