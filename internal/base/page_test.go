package base

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestPageSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uintptr(PageSize), unsafe.Sizeof(Page{}), "Page Size")
	assert.Equal(t, uintptr(4), unsafe.Sizeof(PageID(0)), "PageID Size")
}

func TestPageReset(t *testing.T) {
	t.Parallel()

	var page Page
	for i := range page.Data {
		page.Data[i] = byte(i)
	}
	page.Reset()

	assert.Equal(t, [PageSize]byte{}, page.Data)
}

func TestPageChecksum(t *testing.T) {
	t.Parallel()

	var a, b Page
	assert.Equal(t, a.Checksum(), b.Checksum(), "equal contents hash equal")

	b.Data[PageSize-1] = 1
	assert.NotEqual(t, a.Checksum(), b.Checksum(), "last byte changes the checksum")

	b.Data[PageSize-1] = 0
	assert.Equal(t, a.Checksum(), b.Checksum())
}

func TestRIDString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "(7, 3)", RID{PageID: 7, SlotNum: 3}.String())
}
