// Package table orders and formats asteroid rows for display. Sorting is
// local to the view: it never fetches and never mutates its input.
package table

import (
	"fmt"
	"slices"

	"github.com/star/neodash/internal/neo"
)

// SortKey selects the derived value rows are ordered by.
type SortKey string

const (
	SortBySize     SortKey = "size"
	SortByDistance SortKey = "distance"
	SortBySpeed    SortKey = "speed"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortKey accepts "size", "distance" or "speed".
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case SortBySize, SortByDistance, SortBySpeed:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// ParseSortOrder accepts "asc" or "desc".
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(s); o {
	case Ascending, Descending:
		return o, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// State is the current sort of one view.
type State struct {
	Key   SortKey
	Order SortOrder
}

// DefaultState sorts by distance, ascending.
func DefaultState() State {
	return State{Key: SortByDistance, Order: Ascending}
}

// Select returns the state after the user picks key: the active key flips
// its order, any other key becomes active in ascending order.
func (s State) Select(key SortKey) State {
	if key == s.Key {
		if s.Order == Ascending {
			return State{Key: key, Order: Descending}
		}
		return State{Key: key, Order: Ascending}
	}
	return State{Key: key, Order: Ascending}
}

// Value returns the derived sort value of a for key; absent values are 0.
func Value(a neo.Asteroid, key SortKey) float64 {
	var v *float64
	switch key {
	case SortBySize:
		v = a.SizeMilesAvg
	case SortByDistance:
		v = a.MissDistanceMiles
	default:
		v = a.SpeedMPH
	}
	if v == nil {
		return 0
	}
	return *v
}

// Sort returns a copy of records ordered by state. Equal values keep their
// input order.
func Sort(records []neo.Asteroid, state State) []neo.Asteroid {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b neo.Asteroid) int {
		va, vb := Value(a, state.Key), Value(b, state.Key)
		var c int
		switch {
		case va < vb:
			c = -1
		case va > vb:
			c = 1
		}
		if state.Order == Descending {
			return -c
		}
		return c
	})
	return sorted
}
