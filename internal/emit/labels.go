// Package emit writes the pipeline outputs: per-category GeoJSON files,
// the eligible-boundary GeoJSON, and the grantee-point tabular extract.
package emit

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Label turns a machine token into its human-readable form:
// "food_pantry" -> "Food Pantry".
func Label(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}
