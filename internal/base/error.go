package base

import "errors"

var (
	ErrNonPositiveRunSize = errors.New("run size must be positive")
	ErrFileFull           = errors.New("file full: no free run of the requested size")
	ErrBadPageNumber      = errors.New("page number out of range")
	ErrPageNotAllocated   = errors.New("page not allocated")
	ErrEmptyFile          = errors.New("file has no pages")

	ErrPageNotPinned = errors.New("page not pinned")
	ErrPagePinned    = errors.New("page is pinned")

	ErrPageFull  = errors.New("page full: not enough space for record")
	ErrBadPageID = errors.New("record id refers to a different page")
	ErrBadSlotID = errors.New("record id refers to an empty slot")
)
