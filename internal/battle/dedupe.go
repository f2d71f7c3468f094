package battle

import (
	"github.com/bits-and-blooms/bloom/v3"
)

const (
	defaultDedupeCapacity = 500000
	defaultDedupeFPRate   = 0.000001
)

// Deduper drops battles whose id was already read, across files.
// Empty ids are never treated as duplicates.
type Deduper struct {
	filter *bloom.BloomFilter
}

// NewDeduper sizes the filter for the expected number of battles
func NewDeduper(capacity uint) *Deduper {
	if capacity == 0 {
		capacity = defaultDedupeCapacity
	}
	return &Deduper{filter: bloom.NewWithEstimates(capacity, defaultDedupeFPRate)}
}

// Seen marks id as read and reports whether it had been read before
func (d *Deduper) Seen(id string) bool {
	if id == "" {
		return false
	}
	return d.filter.TestAndAddString(id)
}
