package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/censuslab/popatlas/internal/pipeline"
)

// Districts with no computable metric render in a fixed neutral gray.
const noDataFill = "#cccccc"

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleYears(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"years": s.snap.Table.Years})
}

type tableRow struct {
	DistrictID string         `json:"district_id"`
	Counts     map[int]*int64 `json:"counts"`
}

// handleTable returns the pivoted population table for the "All Years"
// view.
func (s *Server) handleTable(w http.ResponseWriter, _ *http.Request) {
	rows := make([]tableRow, len(s.snap.Table.Rows))
	for i, row := range s.snap.Table.Rows {
		rows[i] = tableRow{DistrictID: row.DistrictID, Counts: row.Counts}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"years": s.snap.Table.Years,
		"rows":  rows,
	})
}

type scaleInfo struct {
	Min   float64  `json:"min"`
	Max   float64  `json:"max"`
	Stops []string `json:"stops"`
}

type changeResponse struct {
	From  int                        `json:"from"`
	To    int                        `json:"to"`
	Scale scaleInfo                  `json:"scale"`
	Layer *geojson.FeatureCollection `json:"layer"`
}

// handleChange returns the choropleth layer for a year pair: a GeoJSON
// FeatureCollection with per-feature fill colors and labels, plus the
// scale metadata for a legend.
func (s *Server) handleChange(w http.ResponseWriter, r *http.Request) {
	from, err := yearParam(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := yearParam(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	layer, err := s.snap.ChangeLayer(from, to)
	if err != nil {
		if eris.Is(err, pipeline.ErrUnknownYear) {
			writeError(w, http.StatusBadRequest, "selected year not present in dataset")
			return
		}
		zap.L().Error("server: change layer failed",
			zap.Int("from", from), zap.Int("to", to), zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "layer computation failed")
		return
	}

	fc, err := featureCollection(layer)
	if err != nil {
		zap.L().Error("server: encode layer failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "layer encoding failed")
		return
	}

	samples := s.cfg.LegendSamples
	if samples < 2 {
		samples = 2
	}
	stops := make([]string, 0, samples)
	for _, c := range layer.Scale.Palette(samples).Colors() {
		stops = append(stops, pipeline.Hex(c))
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, http.StatusOK, changeResponse{
		From: from,
		To:   to,
		Scale: scaleInfo{
			Min:   layer.Scale.Min(),
			Max:   layer.Scale.Max(),
			Stops: stops,
		},
		Layer: fc,
	})
}

// featureCollection converts the joined layer into GeoJSON features
// carrying the metric, label, and resolved fill color.
func featureCollection(layer *pipeline.ChangeLayer) (*geojson.FeatureCollection, error) {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(layer.Features))}

	for _, f := range layer.Features {
		props := map[string]interface{}{
			"district_id": f.DistrictID,
			"name":        f.Name,
			"province":    f.Province,
			"label":       f.Label,
			"fill":        noDataFill,
		}
		if f.Value != nil {
			props["change"] = *f.Value
			c, err := layer.Scale.At(float64(*f.Value))
			if err != nil {
				return nil, eris.Wrapf(err, "server: color for district %s", f.DistrictID)
			}
			props["fill"] = pipeline.Hex(c)
		} else {
			props["change"] = nil
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         f.DistrictID,
			Geometry:   f.Geometry,
			Properties: props,
		})
	}

	return fc, nil
}

func yearParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, eris.Errorf("missing query parameter %q", name)
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, eris.Errorf("invalid year %q", raw)
	}
	return year, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
