package table

import "github.com/star/neodash/internal/neo"

// Column is one sortable header.
type Column struct {
	Key    SortKey
	Label  string
	Active bool
	Arrow  string // " ↑ ", " ↓ " or empty when inactive
	Next   State  // state after selecting this column
}

// Row is one formatted record.
type Row struct {
	ID       string
	Name     string
	Size     string
	Distance string
	Speed    string
}

// View is a sorted, formatted table ready for rendering.
type View struct {
	State   State
	Columns []Column
	Rows    []Row
}

var columns = []struct {
	key   SortKey
	label string
}{
	{SortBySize, "Size (avg)"},
	{SortByDistance, "Closeness to Earth (mi)"},
	{SortBySpeed, "Relative Velocity (mph)"},
}

// Arrow returns the header marker for order.
func Arrow(order SortOrder) string {
	if order == Descending {
		return " ↓ "
	}
	return " ↑ "
}

// Build sorts records by state and formats every row with f.
func Build(records []neo.Asteroid, state State, f *Formatter) View {
	v := View{State: state}

	for _, c := range columns {
		col := Column{
			Key:   c.key,
			Label: c.label,
			Next:  state.Select(c.key),
		}
		if c.key == state.Key {
			col.Active = true
			col.Arrow = Arrow(state.Order)
		}
		v.Columns = append(v.Columns, col)
	}

	for _, a := range Sort(records, state) {
		v.Rows = append(v.Rows, Row{
			ID:       a.ID,
			Name:     a.Name,
			Size:     f.Format(a.SizeMilesAvg, SizeDecimals),
			Distance: f.Format(a.MissDistanceMiles, DistanceDecimals),
			Speed:    f.Format(a.SpeedMPH, SpeedDecimals),
		})
	}

	return v
}
