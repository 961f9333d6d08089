package buffer

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/elastic/go-freelru"

	"pagedb/internal/base"
	"pagedb/internal/storage"
)

// MinOpenFiles is the smallest number of file handles kept open.
const MinOpenFiles = 1

// fileCache keeps recently used paged files open, keyed by name. Files that
// fall out of the cache are closed and reopened on next use.
type fileCache struct {
	lru *freelru.LRU[string, *storage.File]
	log base.Logger

	// I/O counters of files already closed.
	retired storage.Stats
}

func hashName(name string) uint32 {
	return uint32(xxhash.Sum64String(name))
}

func newFileCache(size int, log base.Logger) *fileCache {
	size = max(size, MinOpenFiles)

	lru, err := freelru.New[string, *storage.File](uint32(size), hashName)
	if err != nil {
		// Only possible with a zero capacity or nil hash.
		panic(err)
	}

	c := &fileCache{lru: lru, log: log}
	lru.SetOnEvict(func(name string, f *storage.File) {
		c.log.Info("closed idle file", "file", name)
		c.close(name, f)
	})
	return c
}

// get returns the open file, opening it if needed.
func (c *fileCache) get(name string) (*storage.File, error) {
	if f, ok := c.lru.Get(name); ok {
		return f, nil
	}

	f, err := storage.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	c.log.Info("opened file", "file", name, "pages", f.NumPages())
	c.lru.Add(name, f)
	return f, nil
}

// put installs a freshly created file, replacing any cached handle.
func (c *fileCache) put(f *storage.File) {
	c.drop(f.Name())
	c.lru.Add(f.Name(), f)
}

// drop closes and forgets the named file if it is open.
func (c *fileCache) drop(name string) {
	f, ok := c.lru.Peek(name)
	if !ok {
		return
	}
	c.lru.Remove(name)
	c.close(name, f)
}

// closeAll closes every open file.
func (c *fileCache) closeAll() {
	for _, name := range c.lru.Keys() {
		c.drop(name)
	}
}

// close folds the file's counters into retired and closes it. A file that
// is already closed was counted when it was closed.
func (c *fileCache) close(name string, f *storage.File) {
	if f.Closed() {
		return
	}
	c.retired = addStats(c.retired, f.Stats())
	if err := f.Close(); err != nil {
		c.log.Warn("close file", "file", name, "error", err)
	}
}

// stats sums the counters of closed and open files.
func (c *fileCache) stats() storage.Stats {
	total := c.retired
	for _, name := range c.lru.Keys() {
		if f, ok := c.lru.Peek(name); ok {
			total = addStats(total, f.Stats())
		}
	}
	return total
}

func addStats(a, b storage.Stats) storage.Stats {
	return storage.Stats{
		Reads:   a.Reads + b.Reads,
		Writes:  a.Writes + b.Writes,
		Read:    a.Read + b.Read,
		Written: a.Written + b.Written,
	}
}
