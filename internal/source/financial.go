package source

import (
	"github.com/enough-md/resource-map/internal/model"
)

// ncuaCarriedFlags are the NCUA booleans carried verbatim; the derived
// payday_alternative_loans flag is appended separately.
var ncuaCarriedFlags = []string{
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
}

// LoadFDIC reads FDIC bank branches. NAMEFULL becomes the name; every row
// gets category "financial" and subtag "bank". Banks carry the financial
// flag keys padded with nil since the FDIC feed has no service flags.
func LoadFDIC(path string) ([]model.Point, int, error) {
	fc, err := ReadFeatureCollection(path)
	if err != nil {
		return nil, 0, err
	}

	var points []model.Point
	var dropped int
	for _, f := range fc.Features {
		pt := pointGeom(f.Geometry)
		if pt == nil {
			dropped++
			continue
		}

		flags := make(model.FlagSet, len(model.FinancialFlagKeys))
		for _, key := range model.FinancialFlagKeys {
			flags[key] = nil
		}

		points = append(points, model.Point{
			Name:     strProp(f.Properties, "NAMEFULL"),
			Category: model.CategoryFinancial,
			Subtag:   "bank",
			Flags:    flags,
			Geom:     pt,
		})
	}

	return points, dropped, nil
}

// LoadNCUA reads NCUA credit-union branches. creditUnionName becomes the
// name; every row gets category "financial" and subtag "credit_union".
// payday_alternative_loans is the OR of the palS_I and palS_II booleans;
// the other enumerated service flags are carried verbatim.
func LoadNCUA(path string) ([]model.Point, int, error) {
	fc, err := ReadFeatureCollection(path)
	if err != nil {
		return nil, 0, err
	}

	var points []model.Point
	var dropped int
	for _, f := range fc.Features {
		pt := pointGeom(f.Geometry)
		if pt == nil {
			dropped++
			continue
		}

		flags := make(model.FlagSet, len(model.FinancialFlagKeys))
		for _, key := range ncuaCarriedFlags {
			flags[key] = boolProp(f.Properties, key)
		}
		pal := orFlags(boolProp(f.Properties, "palS_I"), boolProp(f.Properties, "palS_II"))
		flags["payday_alternative_loans"] = pal

		points = append(points, model.Point{
			Name:     strProp(f.Properties, "creditUnionName"),
			Category: model.CategoryFinancial,
			Subtag:   "credit_union",
			Flags:    flags,
			Geom:     pt,
		})
	}

	return points, dropped, nil
}

// orFlags ORs two optional booleans; absent operands count as false, and
// the result is absent only when both operands are.
func orFlags(a, b *bool) *bool {
	if a == nil && b == nil {
		return nil
	}
	v := (a != nil && *a) || (b != nil && *b)
	return &v
}
