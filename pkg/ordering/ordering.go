package ordering

import "sort"

// Normalize assigns dense zero-based positions to items already placed in
// their desired order. After it returns, positions form the contiguous range
// 0..n-1 with no gaps or duplicates. Both the outline editor payload and the
// reconciler run through this before anything is persisted, so submitted and
// stored sibling lists share the same invariant.
func Normalize[T any](items []T, set func(item *T, position int)) []T {
	for i := range items {
		set(&items[i], i)
	}
	return items
}

// SortByPosition orders items by ascending position, keeping the incoming
// order for equal positions.
func SortByPosition[T any](items []T, position func(item T) int) {
	sort.SliceStable(items, func(i, j int) bool {
		return position(items[i]) < position(items[j])
	})
}

// IsDense reports whether positions are exactly 0..n-1.
func IsDense(positions []int) bool {
	seen := make([]bool, len(positions))
	for _, p := range positions {
		if p < 0 || p >= len(positions) || seen[p] {
			return false
		}
		seen[p] = true
	}
	return true
}
