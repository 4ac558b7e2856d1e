package dataset

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// DistrictBoundary is one census district polygon with its identifying
// attributes.
type DistrictBoundary struct {
	DistrictID string
	Name       string
	Province   string
	Geometry   *geom.MultiPolygon
}

// Boundary shapefile attribute names, matched case-insensitively.
const (
	attrDistrictID = "dguid"
	attrName       = "cdname"
	attrProvince   = "prname"
)

// LoadBoundaries reads a district boundary shapefile. Records without
// a district identifier or without a usable polygon are skipped.
func LoadBoundaries(path string) ([]DistrictBoundary, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open boundary file %s", path)
	}
	defer func() { _ = reader.Close() }()

	// Build field name → index map.
	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}
	for _, attr := range []string{attrDistrictID, attrName, attrProvince} {
		if _, ok := fieldIdx[attr]; !ok {
			return nil, eris.Errorf("dataset: boundary file missing attribute %q", attr)
		}
	}

	attribute := func(idx int) string {
		val := strings.TrimRight(reader.Attribute(idx), "\x00")
		return strings.TrimSpace(val)
	}

	var boundaries []DistrictBoundary
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		id := attribute(fieldIdx[attrDistrictID])
		if id == "" {
			skipped++
			continue
		}

		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		mp := polygonToMultiPolygon(poly)
		if mp == nil {
			skipped++
			continue
		}

		boundaries = append(boundaries, DistrictBoundary{
			DistrictID: id,
			Name:       attribute(fieldIdx[attrName]),
			Province:   attribute(fieldIdx[attrProvince]),
			Geometry:   mp,
		})
	}

	if skipped > 0 {
		zap.L().Debug("dataset: skipped boundary records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	if len(boundaries) == 0 {
		return nil, eris.Errorf("dataset: boundary file %s has no usable districts", path)
	}

	zap.L().Info("dataset: loaded district boundaries",
		zap.String("path", path),
		zap.Int("districts", len(boundaries)),
	)
	return boundaries, nil
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon.
func polygonToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("dataset: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}

		if err := mp.Push(poly); err != nil {
			zap.L().Debug("dataset: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
