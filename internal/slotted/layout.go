package slotted

import (
	"encoding/binary"

	"pagedb/internal/base"
)

const (
	wordSize   = 4
	headerSize = 2 * wordSize
	slotSize   = 2 * wordSize

	numEntriesOff   = 0
	freeSpaceEndOff = wordSize

	// maxSlots is the largest directory that fits behind the header.
	maxSlots = (base.PageSize - headerSize) / slotSize

	// initialFreeSpaceEnd is the last valid byte offset of the page.
	initialFreeSpaceEnd = base.PageSize - 1
)

func (p *Page) word(off int) int {
	return int(int32(binary.LittleEndian.Uint32(p.page.Data[off : off+wordSize])))
}

func (p *Page) putWord(off, v int) {
	binary.LittleEndian.PutUint32(p.page.Data[off:off+wordSize], uint32(int32(v)))
}

func (p *Page) numEntries() int { return p.word(numEntriesOff) }
func (p *Page) setNumEntries(n int) { p.putWord(numEntriesOff, n) }
func (p *Page) freeSpaceEnd() int { return p.word(freeSpaceEndOff) }
func (p *Page) setFreeSpaceEnd(n int) { p.putWord(freeSpaceEndOff, n) }

func slotPos(i int) int {
	return headerSize + i*slotSize
}

// slot returns the record offset and length stored in directory entry i.
// An offset of zero marks an empty slot.
func (p *Page) slot(i int) (offset, length int) {
	pos := slotPos(i)
	return p.word(pos), p.word(pos + wordSize)
}

func (p *Page) setSlot(i, offset, length int) {
	pos := slotPos(i)
	p.putWord(pos, offset)
	p.putWord(pos+wordSize, length)
}

// numSlots derives the directory length: it ends at the highest-indexed
// occupied slot, so it covers numEntries occupied slots and the tombstones
// between them.
func (p *Page) numSlots() int {
	want := p.numEntries()
	seen := 0
	for i := 0; i < maxSlots && seen < want; i++ {
		if off, _ := p.slot(i); off != 0 {
			seen++
			if seen == want {
				return i + 1
			}
		}
	}
	if want <= 0 {
		return 0
	}
	// Corrupt header: more entries claimed than the directory can hold.
	return maxSlots
}
