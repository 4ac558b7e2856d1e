package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/censuslab/popatlas/internal/config"
	"github.com/censuslab/popatlas/internal/dataset"
	"github.com/censuslab/popatlas/internal/pipeline"
)

// loadSnapshot reads both startup inputs concurrently and builds the
// immutable snapshot. Both inputs are required; any load failure is
// fatal.
func loadSnapshot(ctx context.Context, data config.DataConfig) (*pipeline.Snapshot, error) {
	var (
		records    []dataset.PopulationRecord
		boundaries []dataset.DistrictBoundary
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = loadPopulation(data)
		return err
	})
	g.Go(func() error {
		var err error
		boundaries, err = dataset.LoadBoundaries(data.BoundaryPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := pipeline.NewSnapshot(records, boundaries)
	zap.L().Info("snapshot ready",
		zap.Int("districts", len(snap.Table.Rows)),
		zap.Ints("years", snap.Table.Years),
		zap.Int("boundaries", len(snap.Boundaries)),
	)
	return snap, nil
}

func loadPopulation(data config.DataConfig) ([]dataset.PopulationRecord, error) {
	switch data.PopulationFormat {
	case "", "csv":
		return dataset.LoadPopulation(data.PopulationPath)
	case "xlsx":
		return dataset.LoadPopulationXLSX(data.PopulationPath, data.PopulationSheet)
	default:
		return nil, eris.Errorf("unsupported population format %q", data.PopulationFormat)
	}
}
