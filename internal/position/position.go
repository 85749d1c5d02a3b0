// Package position computes floating-point sort keys for drag-and-drop
// ordering of lists, cards and checklist items. Items are appended with
// a fixed gap so neighbours stay insertable without rewriting sibling
// rows. Explicitly requested positions are stored as supplied; there is
// no midpoint bisection and no rebalancing pass, so pathological
// repeated insertion at one boundary can exhaust float precision. That
// is a known limitation carried over deliberately: rebalancing would
// change position values clients may have cached.
package position

// Gap is the spacing between appended siblings. The first item on an
// empty parent gets Gap, not 0, leaving room to insert before it.
const Gap = 65536.0

// Next returns the sort key for an item appended after the current
// maximum sibling position.
func Next(existingMax float64) float64 {
	return existingMax + Gap
}

// First returns the sort key for the first item under a parent.
func First() float64 {
	return Gap
}
