// Package model defines the canonical records shared by the resource-map
// pipeline stages: normalized points, boundary regions, and joined output rows.
package model

import (
	"github.com/twpayne/go-geom"
)

// Category is the coarse classification of a point of interest.
// Community-resource rows carry their category verbatim from the source
// file, so values outside the known constants flow through untouched.
type Category string

const (
	CategoryCommunityResource Category = "community_resource"
	CategoryFinancial         Category = "financial"
	CategoryChildcare         Category = "childcare"
	CategoryFoodPantry        Category = "food_pantry"
)

// FinancialFlagKeys is the fixed list of boolean service flags carried from
// the NCUA credit-union feed, in output column order. The bank feed has none
// of these, so bank rows carry the keys with nil values.
var FinancialFlagKeys = []string{
	"isMainOffice",
	"isMdi",
	"bilingual_Services",
	"credit_Builder",
	"financial_Counseling",
	"first_Time_Homebuyer_Program",
	"inSchoolBranch",
	"low_cost_wire_transfers",
	"no_Cost_Tax_Preparation",
	"no_Cost_Share_Drafts",
	"payday_alternative_loans",
}

// FlagSet holds optional per-category boolean attributes keyed by the source
// field name. Modeled as a map rather than struct fields so a new source can
// add flags without reshaping the canonical schema for other categories.
type FlagSet map[string]*bool

// Point is one normalized point of interest. Geometry is WGS84 lon/lat.
type Point struct {
	Name     string
	Category Category
	Subtag   string
	Quality  *float64 // childcare only
	Flags    FlagSet  // financial only
	Geom     *geom.Point
}

// Lng returns the longitude (X) of the point geometry.
func (p *Point) Lng() float64 { return p.Geom.X() }

// Lat returns the latitude (Y) of the point geometry.
func (p *Point) Lat() float64 { return p.Geom.Y() }

// JoinedPoint is a Point annotated with its containing grantee tract, if any.
// It is derived output of the spatial join and never mutated afterward.
type JoinedPoint struct {
	Point
	RegionID string // containing eligible region, "" if none
	Grantee  bool   // true iff RegionID is set and in the eligible set
}
