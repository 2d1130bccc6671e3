package sorter

import (
	"fmt"
	"strings"
)

// Report summarises a sort pass.
type Report struct {
	// Sorted is the number of items placed successfully.
	Sorted int
	// Skipped is the number of items left alone because of their flags.
	Skipped int

	ScrapFailed int
	ToolsFailed int
}

// Failed returns the number of items that could not be placed.
func (r Report) Failed() int {
	return r.ScrapFailed + r.ToolsFailed
}

// Summary describes the failures of the pass, or returns an empty string when there were none.
func (r Report) Summary() string {
	var parts []string
	if r.ScrapFailed > 0 {
		parts = append(parts, fmt.Sprintf("%d scrap items", r.ScrapFailed))
	}
	if r.ToolsFailed > 0 {
		parts = append(parts, fmt.Sprintf("%d tool items", r.ToolsFailed))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " and ") + " couldn't be sorted"
}
