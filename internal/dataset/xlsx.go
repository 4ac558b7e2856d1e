package dataset

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

// LoadPopulationXLSX reads the population table from an XLSX workbook.
// Column layout matches LoadPopulation; sheet selects the worksheet by
// name, or the first sheet when empty.
func LoadPopulationXLSX(path, sheet string) ([]PopulationRecord, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open population workbook %s", path)
	}

	sh, err := getSheet(f, sheet)
	if err != nil {
		return nil, err
	}
	if len(sh.Rows) == 0 {
		return nil, eris.Errorf("dataset: population sheet %q is empty", sh.Name)
	}

	colIdx := mapColumns(rowToStrings(sh.Rows[0]))
	for _, col := range []string{colGeography, colDistrictID, colYear, colPopulation} {
		if _, ok := colIdx[col]; !ok {
			return nil, eris.Errorf("dataset: population sheet missing column %q", col)
		}
	}

	var records []PopulationRecord
	for i, row := range sh.Rows[1:] {
		cells := rowToStrings(row)
		if blankRow(cells) {
			continue
		}
		rec, err := parseRow(cells, colIdx, i+2)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	zap.L().Info("dataset: loaded population records",
		zap.String("path", path),
		zap.String("sheet", sh.Name),
		zap.Int("rows", len(records)),
	)
	return records, nil
}

func getSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sh, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("dataset: sheet %q not found", name)
		}
		return sh, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("dataset: workbook has no sheets")
	}
	return f.Sheets[0], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
