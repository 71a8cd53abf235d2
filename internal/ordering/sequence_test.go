package ordering

import (
	"testing"

	"github.com/google/uuid"
)

func TestNext(t *testing.T) {
	three := 3
	zero := 0
	neg := -2

	cases := []struct {
		name string
		max  *int
		want int
	}{
		{name: "empty_set_starts_at_one", max: nil, want: 1},
		{name: "appends_after_max", max: &three, want: 4},
		{name: "zero_max", max: &zero, want: 1},
		{name: "negative_max", max: &neg, want: -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Next(tc.max); got != tc.want {
				t.Fatalf("Next(%v)=%d, want %d", tc.max, got, tc.want)
			}
		})
	}
}

func TestIsPermutation(t *testing.T) {
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	cases := []struct {
		name string
		got  []uuid.UUID
		want []uuid.UUID
		ok   bool
	}{
		{name: "same_order", got: []uuid.UUID{a, b, c}, want: []uuid.UUID{a, b, c}, ok: true},
		{name: "shuffled", got: []uuid.UUID{c, a, b}, want: []uuid.UUID{a, b, c}, ok: true},
		{name: "missing_sibling", got: []uuid.UUID{a, b}, want: []uuid.UUID{a, b, c}, ok: false},
		{name: "foreign_id", got: []uuid.UUID{a, b, d}, want: []uuid.UUID{a, b, c}, ok: false},
		{name: "duplicate_in_request", got: []uuid.UUID{a, a, b}, want: []uuid.UUID{a, b, c}, ok: false},
		{name: "both_empty", got: nil, want: nil, ok: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsPermutation(tc.got, tc.want); got != tc.ok {
				t.Fatalf("IsPermutation=%v, want %v", got, tc.ok)
			}
		})
	}
}
