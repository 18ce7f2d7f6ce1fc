package fields

import (
	"math"
	"sort"
)

// rowTolerance is the vertical distance, in coordinate units, within which
// two fields are treated as sitting on the same row.
const rowTolerance = 10

// snapRow buckets a y coordinate into its row.
func snapRow(y float64) float64 {
	return math.Round(y/rowTolerance) * rowTolerance
}

// SortReadingOrder permutes fields into natural reading order: rows ordered
// top of page first, fields within a row ordered left to right. Fields whose
// snapped row and x coincide keep their discovery order.
func SortReadingOrder(fs []FormField) {
	sort.SliceStable(fs, func(i, j int) bool {
		ri, rj := snapRow(fs[i].Y), snapRow(fs[j].Y)
		if ri != rj {
			return ri > rj
		}
		return fs[i].X < fs[j].X
	})
}

// AssignIDs numbers fields 1..N in their current order.
func AssignIDs(fs []FormField) {
	for i := range fs {
		fs[i].ID = i + 1
	}
}
