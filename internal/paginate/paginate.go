// Package paginate reveals a growing prefix of an in-memory result list.
package paginate

// DefaultPageSize is the number of items revealed per page.
const DefaultPageSize = 10

// Pager tracks how much of a result list of known length is revealed.
// The visible window is always [0, End()); pages are never shown in isolation.
type Pager struct {
	size  int
	page  int
	total int
}

// New returns a Pager on page 1 of an empty list. A non-positive size
// falls back to DefaultPageSize.
func New(size int) Pager {
	if size <= 0 {
		size = DefaultPageSize
	}
	return Pager{size: size, page: 1}
}

// Reset starts over at page 1 for a list of total items.
func (p Pager) Reset(total int) Pager {
	if total < 0 {
		total = 0
	}
	p.page = 1
	p.total = total
	return p
}

// End returns the exclusive end of the revealed prefix.
func (p Pager) End() int {
	return min(p.total, p.size*p.page)
}

// HasMore reports whether a "load more" affordance should be offered.
func (p Pager) HasMore() bool {
	return p.End() < p.total
}

// Remaining returns how many items are still hidden.
func (p Pager) Remaining() int {
	return p.total - p.End()
}

// LoadMore reveals the next page. It is a no-op once everything is revealed.
func (p Pager) LoadMore() Pager {
	if p.HasMore() {
		p.page++
	}
	return p
}

// Page returns the current page number, starting at 1.
func (p Pager) Page() int { return p.page }

// Size returns the page size.
func (p Pager) Size() int { return p.size }

// Total returns the length of the list being paged.
func (p Pager) Total() int { return p.total }

// Slice returns the revealed prefix of items. The pager total is expected to
// match len(items); a shorter slice is clamped.
func Slice[T any](items []T, p Pager) []T {
	end := min(p.End(), len(items))
	return items[:end:end]
}
