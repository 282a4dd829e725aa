// Package pagination holds the limit/skip window arithmetic shared by the
// product and category listings.
package pagination

// DefaultLimit is used when a caller does not ask for a page size.
const DefaultLimit = 10

// Page is a limit/skip window over an ordered collection.
type Page struct {
	Limit int `json:"limit"`
	Skip  int `json:"skip"`
}

// Normalize fills in the default limit and clamps a negative skip.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
	return p
}

// FromNumber converts a 1-based page number and page size into a window.
// Page numbers below 1 are treated as the first page.
func FromNumber(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size <= 0 {
		size = DefaultLimit
	}
	return Page{Limit: size, Skip: (number - 1) * size}
}

// Slice returns items[skip : skip+limit] clamped to the bounds of items.
func Slice[T any](items []T, p Page) []T {
	p = p.Normalize()
	if p.Skip >= len(items) {
		return []T{}
	}
	end := p.Skip + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[p.Skip:end]
}
