package content

import (
	"cmp"
	"slices"
)

// Ordered is implemented by every record that carries a display order.
type Ordered interface {
	Order() int
}

func (s Slide) Order() int       { return s.DisplayOrder }
func (m TeamMember) Order() int  { return m.DisplayOrder }
func (t Testimonial) Order() int { return t.DisplayOrder }
func (s Service) Order() int     { return s.DisplayOrder }

// SortByDisplayOrder sorts items ascending by display order in place. Items
// sharing an order keep their API order.
func SortByDisplayOrder[T Ordered](items []T) []T {
	slices.SortStableFunc(items, func(a, b T) int {
		return cmp.Compare(a.Order(), b.Order())
	})
	return items
}
