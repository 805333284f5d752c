package emit

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/enough-md/resource-map/internal/model"
)

// writeXLSX writes the grantee-point extract as a single-sheet workbook
// with the same columns as the CSV.
func writeXLSX(path string, grantee []model.JoinedPoint) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Grantee Points")
	if err != nil {
		return eris.Wrap(err, "emit: add worksheet")
	}

	header := sheet.AddRow()
	for _, col := range csvHeader() {
		header.AddCell().Value = col
	}

	for i := range grantee {
		row := sheet.AddRow()
		for _, val := range csvRow(&grantee[i]) {
			row.AddCell().Value = val
		}
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "emit: save %s", path)
	}
	return nil
}
