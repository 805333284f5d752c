// Package source normalizes the heterogeneous raw feeds (community
// resources, FDIC banks, NCUA credit unions, childcare providers, food-bank
// partner sites) into the canonical point schema.
package source

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Registry names the raw input files and the boundary source contract.
// Paths are relative to the configured input directory.
type Registry struct {
	POI                 string         `yaml:"poi"`
	FDIC                string         `yaml:"fdic"`
	NCUA                string         `yaml:"ncua"`
	Childcare           string         `yaml:"childcare"`
	MarylandFoodBank    string         `yaml:"maryland_food_bank"`
	CapitalAreaFoodBank string         `yaml:"capital_area_food_bank"`
	Boundary            BoundarySource `yaml:"boundary"`
}

// BoundarySource describes the grantee polygon source.
type BoundarySource struct {
	File       string `yaml:"file"`
	URL        string `yaml:"url"`
	Format     string `yaml:"format"` // "geojson" or "shapefile"
	IDField    string `yaml:"id_field"`
	OrgField   string `yaml:"org_field"`
	TrackField string `yaml:"track_field"`
}

// DefaultRegistry returns the registry matching the upstream fetchers'
// output file names and the grantee feature service field names.
func DefaultRegistry() Registry {
	return Registry{
		POI:                 "resources.csv",
		FDIC:                "fdic.geojson",
		NCUA:                "ncua.geojson",
		Childcare:           "childcare.geojson",
		MarylandFoodBank:    "maryland_food_bank.geojson",
		CapitalAreaFoodBank: "capital_area_food_bank.geojson",
		Boundary: BoundarySource{
			File:       "grantees_raw.geojson",
			URL:        "https://services.arcgis.com/njFNhDsUCentVYJW/arcgis/rest/services/Grantees_20250623/FeatureServer/0/query?where=1%3D1&outFields=*&f=geojson",
			Format:     "geojson",
			IDField:    "GEOID20",
			OrgField:   "ORGANIZATION_NAME",
			TrackField: "GOC_TRACK_TYPE",
		},
	}
}

// LoadRegistry reads a sources.yaml registry. A missing file yields the
// defaults; fields left empty in the file are filled from the defaults.
func LoadRegistry(path string) (Registry, error) {
	def := DefaultRegistry()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return def, nil
		}
		return def, eris.Wrapf(err, "source: read registry %s", path)
	}

	// The YAML has a top-level "sources" key
	var wrapper struct {
		Sources Registry `yaml:"sources"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return def, eris.Wrapf(err, "source: parse registry %s", path)
	}

	reg := wrapper.Sources
	fillString(&reg.POI, def.POI)
	fillString(&reg.FDIC, def.FDIC)
	fillString(&reg.NCUA, def.NCUA)
	fillString(&reg.Childcare, def.Childcare)
	fillString(&reg.MarylandFoodBank, def.MarylandFoodBank)
	fillString(&reg.CapitalAreaFoodBank, def.CapitalAreaFoodBank)
	fillString(&reg.Boundary.Format, def.Boundary.Format)
	fillString(&reg.Boundary.File, def.Boundary.File)
	// The default URL serves GeoJSON, so a registry pointing at a
	// shapefile must not inherit it: a refresh would overwrite the
	// user's .shp with GeoJSON bytes.
	if reg.Boundary.Format == "geojson" {
		fillString(&reg.Boundary.URL, def.Boundary.URL)
	}
	fillString(&reg.Boundary.IDField, def.Boundary.IDField)
	fillString(&reg.Boundary.OrgField, def.Boundary.OrgField)
	fillString(&reg.Boundary.TrackField, def.Boundary.TrackField)

	return reg, nil
}

func fillString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}
