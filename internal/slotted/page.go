// Package slotted stores variable-length records in a single page.
//
// The page begins with a header of two little-endian int32 words, the number
// of occupied slots and the free space end offset, followed by the slot
// directory of (offset, length) pairs. Records are packed downward from the
// end of the page. A record is addressed by a RID of page id and slot index,
// and a slot keeps its index for the life of its record.
package slotted

import (
	"fmt"

	"pagedb/internal/base"
)

// Page is a slotted view over a buffer page. It does not own the bytes; the
// caller pins and unpins the underlying page.
type Page struct {
	page *base.Page
	id   base.PageID
}

// New wraps p as a slotted page with the given id. The id is stamped into
// every RID the page hands out.
func New(p *base.Page, id base.PageID) *Page {
	return &Page{page: p, id: id}
}

// Init formats an empty slotted page. It must be called once on a freshly
// allocated page before any other operation.
func (p *Page) Init() {
	p.setNumEntries(0)
	p.setFreeSpaceEnd(initialFreeSpaceEnd)
}

// PageID returns the id used in RIDs.
func (p *Page) PageID() base.PageID {
	return p.id
}

// NumEntries returns the number of live records.
func (p *Page) NumEntries() int {
	return p.numEntries()
}

// NumSlots returns the directory length, tombstones included.
func (p *Page) NumSlots() int {
	return p.numSlots()
}

// Empty reports whether the page holds no records.
func (p *Page) Empty() bool {
	return p.numEntries() == 0
}

// AvailableSpace returns the bytes between the end of the slot directory and
// the start of the record area. It does not reserve room for a new slot.
func (p *Page) AvailableSpace() int {
	avail := p.freeSpaceEnd() - slotPos(p.numSlots())
	if avail < 0 {
		return 0
	}
	return avail
}

// InsertRecord copies rec into the page and returns its RID. The first empty
// slot is reused; otherwise a slot is appended, which costs one directory
// entry on top of the record bytes.
func (p *Page) InsertRecord(rec []byte) (base.RID, error) {
	avail := p.AvailableSpace()
	if avail < len(rec) {
		return base.RID{}, fmt.Errorf("%w: need %d bytes, have %d", base.ErrPageFull, len(rec), avail)
	}

	slots := p.numSlots()
	idx := slots
	for i := 0; i < slots; i++ {
		if off, _ := p.slot(i); off == 0 {
			idx = i
			break
		}
	}
	if idx == slots {
		if idx >= maxSlots || avail < len(rec)+slotSize {
			return base.RID{}, fmt.Errorf("%w: need %d bytes and a slot, have %d", base.ErrPageFull, len(rec), avail)
		}
	}

	end := p.freeSpaceEnd() - len(rec)
	copy(p.page.Data[end:], rec)
	p.setSlot(idx, end, len(rec))
	p.setFreeSpaceEnd(end)
	p.setNumEntries(p.numEntries() + 1)

	return base.RID{PageID: p.id, SlotNum: int32(idx)}, nil
}

// DeleteRecord removes the record at rid and compacts the record area so the
// freed bytes join the free space. The slot stays behind as a tombstone
// unless it was the last one in the directory. It returns false if rid does
// not name a live record on this page.
func (p *Page) DeleteRecord(rid base.RID) bool {
	if rid.PageID != p.id {
		return false
	}
	slot := int(rid.SlotNum)
	if slot < 0 || slot >= p.numSlots() {
		return false
	}
	loc, length := p.slot(slot)
	if loc == 0 {
		return false
	}

	slots := p.numSlots()
	clear(p.page.Data[loc : loc+length])
	p.setSlot(slot, 0, 0)
	p.setNumEntries(p.numEntries() - 1)

	// Records below the deleted one move up by its length.
	fse := p.freeSpaceEnd()
	copy(p.page.Data[fse+length:loc+length], p.page.Data[fse:loc])
	clear(p.page.Data[fse : fse+length])
	for i := 0; i < slots; i++ {
		off, n := p.slot(i)
		if off != 0 && off <= loc {
			p.setSlot(i, off+length, n)
		}
	}
	p.setFreeSpaceEnd(fse + length)

	return true
}

// FirstRecord returns the RID of the lowest-slotted live record.
func (p *Page) FirstRecord() (base.RID, bool) {
	return p.scanFrom(0)
}

// NextRecord returns the live record after rid in slot order, or false when
// rid is the last one.
func (p *Page) NextRecord(rid base.RID) (base.RID, bool, error) {
	if err := p.checkRID(rid); err != nil {
		return base.RID{}, false, err
	}
	next, ok := p.scanFrom(int(rid.SlotNum) + 1)
	return next, ok, nil
}

// Record returns a copy of the record at rid.
func (p *Page) Record(rid base.RID) ([]byte, error) {
	if err := p.checkRID(rid); err != nil {
		return nil, err
	}
	off, n := p.slot(int(rid.SlotNum))
	rec := make([]byte, n)
	copy(rec, p.page.Data[off:off+n])
	return rec, nil
}

func (p *Page) scanFrom(start int) (base.RID, bool) {
	slots := p.numSlots()
	for i := start; i < slots; i++ {
		if off, _ := p.slot(i); off != 0 {
			return base.RID{PageID: p.id, SlotNum: int32(i)}, true
		}
	}
	return base.RID{}, false
}

func (p *Page) checkRID(rid base.RID) error {
	if rid.PageID != p.id {
		return fmt.Errorf("%w: %v on page %d", base.ErrBadPageID, rid, p.id)
	}
	slot := int(rid.SlotNum)
	if slot < 0 || slot >= p.numSlots() {
		return fmt.Errorf("%w: %v", base.ErrBadSlotID, rid)
	}
	if off, _ := p.slot(slot); off == 0 {
		return fmt.Errorf("%w: %v is empty", base.ErrBadSlotID, rid)
	}
	return nil
}
