package dataset

import (
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squarePolygon(x, y float64) *shp.Polygon {
	return &shp.Polygon{
		Box:       shp.Box{MinX: x, MinY: y, MaxX: x + 1, MaxY: y + 1},
		NumParts:  1,
		NumPoints: 5,
		Parts:     []int32{0},
		Points: []shp.Point{
			{X: x, Y: y},
			{X: x, Y: y + 1},
			{X: x + 1, Y: y + 1},
			{X: x + 1, Y: y},
			{X: x, Y: y}, // closed ring
		},
	}
}

func writeShapefile(t *testing.T, rows []struct{ id, name, prov string }) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "districts.shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	w.SetFields([]shp.Field{
		shp.StringField("DGUID", 25),
		shp.StringField("CDNAME", 50),
		shp.StringField("PRNAME", 50),
	})

	for i, row := range rows {
		w.Write(squarePolygon(float64(i), 0))
		w.WriteAttribute(i, 0, row.id)
		w.WriteAttribute(i, 1, row.name)
		w.WriteAttribute(i, 2, row.prov)
	}
	w.Close()

	return path
}

func TestLoadBoundaries(t *testing.T) {
	path := writeShapefile(t, []struct{ id, name, prov string }{
		{"D1", "Division No. 1", "Newfoundland and Labrador"},
		{"D2", "Division No. 2", "Newfoundland and Labrador"},
	})

	boundaries, err := LoadBoundaries(path)
	require.NoError(t, err)
	require.Len(t, boundaries, 2)

	assert.Equal(t, "D1", boundaries[0].DistrictID)
	assert.Equal(t, "Division No. 1", boundaries[0].Name)
	assert.Equal(t, "Newfoundland and Labrador", boundaries[0].Province)
	require.NotNil(t, boundaries[0].Geometry)
	assert.Equal(t, 1, boundaries[0].Geometry.NumPolygons())
	assert.Equal(t, 4326, boundaries[0].Geometry.SRID())
}

func TestLoadBoundaries_SkipsEmptyID(t *testing.T) {
	path := writeShapefile(t, []struct{ id, name, prov string }{
		{"D1", "Division No. 1", "Newfoundland and Labrador"},
		{"", "Nameless", "Nowhere"},
	})

	boundaries, err := LoadBoundaries(path)
	require.NoError(t, err)
	assert.Len(t, boundaries, 1)
}

func TestLoadBoundaries_MissingFile(t *testing.T) {
	_, err := LoadBoundaries(filepath.Join(t.TempDir(), "nope.shp"))
	assert.Error(t, err)
}

func TestLoadBoundaries_MissingAttribute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	w.SetFields([]shp.Field{shp.StringField("NAME", 20)})
	w.Write(squarePolygon(0, 0))
	w.WriteAttribute(0, 0, "x")
	w.Close()

	_, err = LoadBoundaries(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dguid")
}

func TestPolygonToMultiPolygon(t *testing.T) {
	mp := polygonToMultiPolygon(squarePolygon(-80, 25))
	require.NotNil(t, mp)
	assert.Equal(t, 1, mp.NumPolygons())
}

func TestPolygonToMultiPolygon_MultiPart(t *testing.T) {
	poly := &shp.Polygon{
		NumParts: 2,
		Parts:    []int32{0, 5},
		Points: []shp.Point{
			// Ring 1
			{X: -80.0, Y: 25.0},
			{X: -80.0, Y: 26.0},
			{X: -79.0, Y: 26.0},
			{X: -79.0, Y: 25.0},
			{X: -80.0, Y: 25.0},
			// Ring 2
			{X: -81.0, Y: 26.0},
			{X: -81.0, Y: 27.0},
			{X: -80.0, Y: 27.0},
			{X: -80.0, Y: 26.0},
			{X: -81.0, Y: 26.0},
		},
	}

	mp := polygonToMultiPolygon(poly)
	require.NotNil(t, mp)
	assert.Equal(t, 2, mp.NumPolygons())
}

func TestPolygonToMultiPolygon_Empty(t *testing.T) {
	assert.Nil(t, polygonToMultiPolygon(nil))
	assert.Nil(t, polygonToMultiPolygon(&shp.Polygon{}))
}
