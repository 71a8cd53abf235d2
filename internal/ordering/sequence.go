// Package ordering computes order values for sibling sets (pages of a
// lesson or variant, blocks of a page).
package ordering

import "github.com/google/uuid"

// Next returns the order for a newly appended sibling. max is the current
// maximum order in the set, or nil when the set is empty; the first sibling
// gets order 1.
func Next(max *int) int {
	if max == nil {
		return 1
	}
	return *max + 1
}

// IsPermutation reports whether got contains exactly the ids in want,
// in any order, with no duplicates and no extras. A reorder request must
// name the full sibling set.
func IsPermutation(got, want []uuid.UUID) bool {
	if len(got) != len(want) {
		return false
	}
	seen := make(map[uuid.UUID]struct{}, len(want))
	for _, id := range want {
		seen[id] = struct{}{}
	}
	if len(seen) != len(want) {
		return false
	}
	for _, id := range got {
		if _, ok := seen[id]; !ok {
			return false
		}
		delete(seen, id)
	}
	return len(seen) == 0
}
