package buffer

import "pagedb/internal/base"

// pageKey names a page across files.
type pageKey struct {
	file string
	id   base.PageID
}

// frame is one slot of the pool.
type frame struct {
	page     base.Page
	key      pageKey
	used     bool
	pinCount int
	dirty    bool
	ref      bool
}

func (f *frame) reset() {
	f.key = pageKey{}
	f.used = false
	f.pinCount = 0
	f.dirty = false
	f.ref = false
}
