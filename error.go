package pagedb

import (
	"errors"

	"pagedb/internal/base"
)

//goland:noinspection GoUnusedGlobalVariable
var (
	ErrDatabaseClosed = errors.New("database is closed")
	ErrPoolFull       = errors.New("buffer pool full: every frame is pinned")

	ErrNonPositiveRunSize = base.ErrNonPositiveRunSize
	ErrFileFull           = base.ErrFileFull
	ErrBadPageNumber      = base.ErrBadPageNumber
	ErrPageNotAllocated   = base.ErrPageNotAllocated
	ErrEmptyFile          = base.ErrEmptyFile

	ErrPageNotPinned = base.ErrPageNotPinned
	ErrPagePinned    = base.ErrPagePinned

	ErrPageFull  = base.ErrPageFull
	ErrBadPageID = base.ErrBadPageID
	ErrBadSlotID = base.ErrBadSlotID
)
