package slotted

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a human-readable listing of the header and slot directory.
func (p *Page) Dump(w io.Writer) error {
	var b strings.Builder

	slots := p.numSlots()
	fmt.Fprintf(&b, "page %d: %d entries, %d slots, free space end %d, available %d\n",
		p.id, p.numEntries(), slots, p.freeSpaceEnd(), p.AvailableSpace())
	if slots == 0 {
		b.WriteString("  slot directory is empty\n")
	}
	for i := 0; i < slots; i++ {
		off, n := p.slot(i)
		if off == 0 {
			fmt.Fprintf(&b, "  slot %d: empty\n", i)
			continue
		}
		fmt.Fprintf(&b, "  slot %d: offset %d length %d data % x\n", i, off, n, p.page.Data[off:off+n])
	}

	_, err := io.WriteString(w, b.String())
	return err
}
