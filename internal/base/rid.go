package base

import "fmt"

// RID identifies a record: the page holding it and its slot in that page's
// directory. A RID stays valid until its record is deleted.
type RID struct {
	PageID  PageID
	SlotNum int32
}

func (r RID) String() string {
	return fmt.Sprintf("(%d, %d)", r.PageID, r.SlotNum)
}
