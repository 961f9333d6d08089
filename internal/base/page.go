package base

import (
	"github.com/cespare/xxhash/v2"
)

const (
	// PageSize is the unit of disk I/O and of buffer pool storage.
	PageSize = 1024
)

// PageID addresses a page inside one paged file. Pages are numbered from 0.
type PageID int32

// InvalidPageID marks a frame or reference that holds no page.
const InvalidPageID PageID = -1

// Page is a raw 1024 byte page. It carries no identity of its own; the frame
// holding it in the buffer pool records which page it is.
//
// A page wrapped as a slotted page has this layout (little-endian int32 words):
// ┌─────────────────────────────────────────────────────────────────────┐
// │ Header (8 bytes): NumEntries, FreeSpaceEnd                          │
// ├─────────────────────────────────────────────────────────────────────┤
// │ Slot[0] (8 bytes): Offset, Length                                   │
// │ Slot[1] ...                                                         │
// │   Directory grows forward →                                         │
// ├─────────────────────────────────────────────────────────────────────┤
// │ Free space                                                          │
// ├─────────────────────────────────────────────────────────────────────┤
// │ Record area (packed from FreeSpaceEnd up to the end of the page):   │
// │   ← Record[k] | ... | Record[1] | Record[0]                         │
// │   Records grow backward ←                                           │
// └─────────────────────────────────────────────────────────────────────┘
type Page struct {
	Data [PageSize]byte
}

// Reset zeroes the page contents.
func (p *Page) Reset() {
	p.Data = [PageSize]byte{}
}

// Checksum fingerprints the page contents. It is not stored on disk.
func (p *Page) Checksum() uint64 {
	return xxhash.Sum64(p.Data[:])
}
