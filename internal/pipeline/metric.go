package pipeline

import (
	"math"

	"github.com/rotisserie/eris"
)

// ErrUnknownYear is returned when a selected year is not a column of
// the wide table. Callers treat it as an invalid selection, not a
// computation failure.
var ErrUnknownYear = eris.New("pipeline: year not present in dataset")

// ChangeMetric is one district's net population change per 10,000
// citizens between the two selected years. A nil Value means the
// metric is undefined for that district (missing or zero population in
// the starting year, or missing in the ending year).
type ChangeMetric struct {
	DistrictID string
	Value      *int64
}

// Compute calculates round((pop[yearB]-pop[yearA])/pop[yearA]*10000)
// for every district in the table. The year pair is validated against
// the table's columns before any arithmetic. Pure: the same inputs
// always yield the same output.
func Compute(t WideTable, yearA, yearB int) ([]ChangeMetric, error) {
	if !t.HasYear(yearA) {
		return nil, eris.Wrapf(ErrUnknownYear, "year %d", yearA)
	}
	if !t.HasYear(yearB) {
		return nil, eris.Wrapf(ErrUnknownYear, "year %d", yearB)
	}

	metrics := make([]ChangeMetric, 0, len(t.Rows))
	for _, row := range t.Rows {
		m := ChangeMetric{DistrictID: row.DistrictID}

		a := row.Counts[yearA]
		b := row.Counts[yearB]
		// A missing or zero denominator leaves the metric undefined;
		// the district is kept as "no data" rather than dropped.
		if a != nil && *a != 0 && b != nil {
			v := int64(math.Round(float64(*b-*a) / float64(*a) * 10000))
			m.Value = &v
		}

		metrics = append(metrics, m)
	}

	return metrics, nil
}
