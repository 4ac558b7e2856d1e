package pipeline

import (
	"github.com/censuslab/popatlas/internal/dataset"
)

// Snapshot is the immutable post-load state: the pivoted population
// table and the district boundaries. It is read-only after
// construction and safe to share across concurrently served requests
// without locking.
type Snapshot struct {
	Table      WideTable
	Boundaries []dataset.DistrictBoundary
}

// ChangeLayer is the renderable output for one year-pair selection: the
// joined, labeled features and the color scale derived from them.
type ChangeLayer struct {
	YearA    int
	YearB    int
	Features []Feature
	Scale    *DivergingScale
}

// NewSnapshot pivots the raw records and pairs them with the
// boundaries.
func NewSnapshot(records []dataset.PopulationRecord, boundaries []dataset.DistrictBoundary) *Snapshot {
	return &Snapshot{
		Table:      Pivot(records),
		Boundaries: boundaries,
	}
}

// ChangeLayer runs the per-selection pipeline: Compute → Join →
// BuildScale. Invoked once per user interaction; every call recomputes
// from the immutable snapshot.
func (s *Snapshot) ChangeLayer(yearA, yearB int) (*ChangeLayer, error) {
	metrics, err := Compute(s.Table, yearA, yearB)
	if err != nil {
		return nil, err
	}

	features := Join(metrics, s.Boundaries)

	return &ChangeLayer{
		YearA:    yearA,
		YearB:    yearB,
		Features: features,
		Scale:    BuildScale(metrics),
	}, nil
}
