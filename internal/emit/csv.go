package emit

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/enough-md/resource-map/internal/model"
)

// csvHeader is the fixed column order of the tabular extract. Geometry is
// flattened into lng/lat columns.
func csvHeader() []string {
	header := []string{"name", "type", "tag", "type_label", "tag_label", "quality"}
	header = append(header, model.FinancialFlagKeys...)
	return append(header, "GEOID20", "grantee", "lng", "lat")
}

// writeCSV writes the grantee-point extract. The header is always written,
// so a run with zero eligible points still yields a valid file.
func writeCSV(path string, grantee []model.JoinedPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "emit: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader()); err != nil {
		return eris.Wrapf(err, "emit: write header of %s", path)
	}

	for i := range grantee {
		if err := w.Write(csvRow(&grantee[i])); err != nil {
			return eris.Wrapf(err, "emit: write row of %s", path)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrapf(err, "emit: flush %s", path)
	}
	return nil
}

func csvRow(jp *model.JoinedPoint) []string {
	row := []string{
		jp.Name,
		string(jp.Category),
		jp.Subtag,
		Label(string(jp.Category)),
		Label(jp.Subtag),
		formatQuality(jp.Quality),
	}
	for _, key := range model.FinancialFlagKeys {
		row = append(row, formatFlag(jp.Flags[key]))
	}
	return append(row,
		jp.RegionID,
		strconv.FormatBool(jp.Grantee),
		strconv.FormatFloat(jp.Lng(), 'f', -1, 64),
		strconv.FormatFloat(jp.Lat(), 'f', -1, 64),
	)
}

func formatQuality(q *float64) string {
	if q == nil {
		return ""
	}
	return strconv.FormatFloat(*q, 'f', -1, 64)
}

func formatFlag(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}
