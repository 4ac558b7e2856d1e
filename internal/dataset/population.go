// Package dataset loads the two startup inputs: the per-year district
// population table and the district boundary shapefile.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// PopulationRecord is one row of the raw population table: one
// observation per (district, year). A nil Population means the source
// cell was empty.
type PopulationRecord struct {
	DistrictID string
	Geography  string
	Year       int
	Population *int64
}

// Population table column names, matched case-insensitively.
const (
	colGeography  = "geo"
	colDistrictID = "dguid"
	colYear       = "ref_date"
	colPopulation = "value"
)

// LoadPopulation reads a population CSV file. Expected columns:
// geography label, district identifier, year, population count. An
// empty population cell is normalized to nil, not zero.
func LoadPopulation(path string) ([]PopulationRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open population file %s", path)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read population header")
	}
	colIdx := mapColumns(header)

	for _, col := range []string{colGeography, colDistrictID, colYear, colPopulation} {
		if _, ok := colIdx[col]; !ok {
			return nil, eris.Errorf("dataset: population file missing column %q", col)
		}
	}

	var records []PopulationRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: read population row %d", line+1)
		}
		line++

		rec, err := parseRow(row, colIdx, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	zap.L().Info("dataset: loaded population records",
		zap.String("path", path),
		zap.Int("rows", len(records)),
	)
	return records, nil
}

// parseRow converts one tabular row into a PopulationRecord. Shared by
// the CSV and XLSX loaders.
func parseRow(row []string, colIdx map[string]int, line int) (PopulationRecord, error) {
	id := strings.TrimSpace(getCol(row, colIdx, colDistrictID))
	if id == "" {
		return PopulationRecord{}, eris.Errorf("dataset: row %d: empty district identifier", line)
	}

	yearStr := strings.TrimSpace(getCol(row, colIdx, colYear))
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return PopulationRecord{}, eris.Wrapf(err, "dataset: row %d: parse year %q", line, yearStr)
	}

	rec := PopulationRecord{
		DistrictID: id,
		Geography:  strings.TrimSpace(getCol(row, colIdx, colGeography)),
		Year:       year,
	}

	// Empty population cell means "no observation", never zero.
	popStr := strings.TrimSpace(getCol(row, colIdx, colPopulation))
	if popStr != "" {
		pop, err := strconv.ParseInt(popStr, 10, 64)
		if err != nil {
			return PopulationRecord{}, eris.Wrapf(err, "dataset: row %d: parse population %q", line, popStr)
		}
		if pop < 0 {
			return PopulationRecord{}, eris.Errorf("dataset: row %d: negative population %d", line, pop)
		}
		rec.Population = &pop
	}

	return rec, nil
}

// mapColumns builds a case-insensitive column name to index map.
func mapColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		m[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return m
}

// getCol gets a column value by name from a row, returning empty string if not found.
func getCol(row []string, colIdx map[string]int, name string) string {
	idx, ok := colIdx[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
