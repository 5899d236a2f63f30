package domain

// DefaultLimit is the default page size when none is specified.
const DefaultLimit = 10

// MaxLimit is the maximum allowed page size.
const MaxLimit = 1000

// PageRequest holds limit/offset pagination parameters for list operations.
type PageRequest struct {
	Limit  int
	Offset int
}

// EffectiveLimit returns the page size, clamped to [1, MaxLimit].
func (p PageRequest) EffectiveLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}
	if p.Limit > MaxLimit {
		return MaxLimit
	}
	return p.Limit
}

// EffectiveOffset returns the offset, never negative.
func (p PageRequest) EffectiveOffset() int {
	if p.Offset < 0 {
		return 0
	}
	return p.Offset
}

// HasNext reports whether another page follows this one.
func (p PageRequest) HasNext(total int64) bool {
	return int64(p.EffectiveOffset()+p.EffectiveLimit()) < total
}

// HasPrevious reports whether a page precedes this one.
func (p PageRequest) HasPrevious() bool {
	return p.EffectiveOffset() > 0
}

// Paginate returns the window of items selected by page. The input slice is
// not modified.
func Paginate[T any](items []T, page PageRequest) []T {
	offset := page.EffectiveOffset()
	if offset >= len(items) {
		return []T{}
	}
	end := offset + page.EffectiveLimit()
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-offset)
	copy(out, items[offset:end])
	return out
}
