package pipeline

import (
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/censuslab/popatlas/internal/dataset"
)

// Feature is one renderable map feature: a district boundary carrying
// its computed change metric and tooltip label.
type Feature struct {
	DistrictID string
	Name       string
	Province   string
	Value      *int64
	Label      string
	Geometry   *geom.MultiPolygon
}

var labelPrinter = message.NewPrinter(language.English)

// Label builds the hover annotation for a district.
func Label(name, province string, value *int64) string {
	if value == nil {
		return labelPrinter.Sprintf("%s, %s: no data", name, province)
	}
	return labelPrinter.Sprintf("%s, %s: %d net migration per 10k", name, province, *value)
}

// Join inner-joins change metrics onto district boundaries by exact,
// case-sensitive district id. Ids present on only one side are dropped
// from the result; counts of dropped ids are logged at debug level.
// Output order follows the metric sequence.
func Join(metrics []ChangeMetric, boundaries []dataset.DistrictBoundary) []Feature {
	byID := make(map[string]dataset.DistrictBoundary, len(boundaries))
	for _, b := range boundaries {
		byID[b.DistrictID] = b
	}

	features := make([]Feature, 0, len(metrics))
	matched := make(map[string]struct{}, len(metrics))

	for _, m := range metrics {
		b, ok := byID[m.DistrictID]
		if !ok {
			continue
		}
		matched[m.DistrictID] = struct{}{}
		features = append(features, Feature{
			DistrictID: m.DistrictID,
			Name:       b.Name,
			Province:   b.Province,
			Value:      m.Value,
			Label:      Label(b.Name, b.Province, m.Value),
			Geometry:   b.Geometry,
		})
	}

	if dropped := len(metrics) - len(features); dropped > 0 || len(matched) < len(byID) {
		zap.L().Debug("pipeline: join dropped unmatched districts",
			zap.Int("metrics_without_boundary", dropped),
			zap.Int("boundaries_without_metric", len(byID)-len(matched)),
		)
	}

	return features
}
