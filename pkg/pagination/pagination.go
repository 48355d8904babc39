// Package pagination implements the fixed-size, 1-based page model used by
// the prescription list screen.
package pagination

// PageSize is the fixed number of rows per page in the list view.
const PageSize = 10

// Pager tracks the current page over a filtered record set. Pages are
// 1-based. The pager does not clamp out-of-range pages; the view layer is
// expected to disable navigation at the bounds.
type Pager struct {
	Page int
	Size int
}

// New returns a pager positioned on the first page.
func New() Pager {
	return Pager{Page: 1, Size: PageSize}
}

// TotalPages returns ceil(total/size). Zero records yield zero pages.
func (p Pager) TotalPages(total int) int {
	if p.Size <= 0 {
		return 0
	}
	return (total + p.Size - 1) / p.Size
}

// Bounds returns the half-open [lo, hi) slice bounds for the current page
// over a set of total records. Past the last page both bounds equal total.
func (p Pager) Bounds(total int) (lo, hi int) {
	lo = (p.Page - 1) * p.Size
	if lo < 0 {
		lo = 0
	}
	if lo > total {
		lo = total
	}
	hi = lo + p.Size
	if hi > total {
		hi = total
	}
	return lo, hi
}

// HasNext reports whether a page exists after the current one.
func (p Pager) HasNext(total int) bool {
	return p.Page < p.TotalPages(total)
}

// HasPrevious reports whether a page exists before the current one.
func (p Pager) HasPrevious() bool {
	return p.Page > 1
}

// Next advances one page.
func (p *Pager) Next() { p.Page++ }

// Previous goes back one page, never below the first.
func (p *Pager) Previous() {
	if p.Page > 1 {
		p.Page--
	}
}

// Reset returns to the first page. Called whenever a filter changes.
func (p *Pager) Reset() { p.Page = 1 }
