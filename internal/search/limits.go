package search

import "time"

// SearchLimits bounds how long an Engine is allowed to keep searching. Both
// fields are optional; a nil field imposes no limit on that dimension.
type SearchLimits struct {
	MaxTime      *time.Duration
	MaxPositions *uint64
}

// ShouldTerminate reports whether a search that started at start and has
// visited positions states should stop now.
func (l SearchLimits) ShouldTerminate(start time.Time, positions uint64) bool {
	if l.MaxTime != nil && time.Since(start) >= *l.MaxTime {
		return true
	}
	if l.MaxPositions != nil && positions >= *l.MaxPositions {
		return true
	}
	return false
}
