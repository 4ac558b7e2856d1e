// Package pipeline implements the population-change computation: pivot
// the raw per-year table, compute per-district change between two
// selected years, join the result onto district boundaries, and build
// a diverging color scale over it.
package pipeline

import (
	"sort"

	"github.com/censuslab/popatlas/internal/dataset"
)

// WideTable is the pivoted population table: one row per district, one
// column per year observed anywhere in the input.
type WideTable struct {
	Years []int // ascending
	Rows  []WideRow
}

// WideRow holds one district's population counts keyed by year. A nil
// count means the district had no observation for that year.
type WideRow struct {
	DistrictID string
	Counts     map[int]*int64
}

// HasYear reports whether y is one of the table's year columns.
func (t WideTable) HasYear(y int) bool {
	for _, year := range t.Years {
		if year == y {
			return true
		}
	}
	return false
}

// Row returns the row for the given district id.
func (t WideTable) Row(districtID string) (WideRow, bool) {
	i := sort.Search(len(t.Rows), func(i int) bool { return t.Rows[i].DistrictID >= districtID })
	if i < len(t.Rows) && t.Rows[i].DistrictID == districtID {
		return t.Rows[i], true
	}
	return WideRow{}, false
}

// Pivot reshapes the tall per-year records into a wide table. The year
// column set is the union across all districts; districts without an
// observation for a year get a nil count. The geography label is
// dropped here since names come from the boundary join. Rows are
// sorted by district id and years ascending so output is
// deterministic.
func Pivot(records []dataset.PopulationRecord) WideTable {
	yearSet := make(map[int]struct{})
	byDistrict := make(map[string]map[int]*int64)

	for _, rec := range records {
		yearSet[rec.Year] = struct{}{}
		counts, ok := byDistrict[rec.DistrictID]
		if !ok {
			counts = make(map[int]*int64)
			byDistrict[rec.DistrictID] = counts
		}
		counts[rec.Year] = rec.Population
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	rows := make([]WideRow, 0, len(byDistrict))
	for id, counts := range byDistrict {
		// Materialize the full year set so every row has every column.
		full := make(map[int]*int64, len(years))
		for _, y := range years {
			full[y] = counts[y]
		}
		rows = append(rows, WideRow{DistrictID: id, Counts: full})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].DistrictID < rows[j].DistrictID })

	return WideTable{Years: years, Rows: rows}
}
