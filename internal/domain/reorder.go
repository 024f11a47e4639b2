package domain

import "slices"

// Move removes the element at from and reinserts it at to.
// The input slice is not modified. When either index is out of range
// there is no valid drop target: items is returned as is with false.
func Move[T any](items []T, from, to int) ([]T, bool) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return items, false
	}
	out := slices.Clone(items)
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	out = slices.Insert(out, to, moved)
	return out, true
}
