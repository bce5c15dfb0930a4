package importer

// Profile describes the column naming of a backfill spreadsheet. Every
// column not claimed by the profile is stored in the invoice's field bag.
type Profile struct {
	Name            string
	HeadquartersCol string
	TypeCol         string
	YearCol         []string
	CreatedAtCol    string
}

// requiredCols returns the columns that must be present for the profile to
// match. The type column is optional because it can be inferred from the
// consumption field.
func (p Profile) requiredCols() [][]string {
	return [][]string{{p.HeadquartersCol}, p.YearCol}
}

// claims reports whether col is one of the profile's own columns.
func (p Profile) claims(col string) bool {
	switch col {
	case p.HeadquartersCol, p.TypeCol, p.CreatedAtCol:
		return true
	}

	for _, y := range p.YearCol {
		if col == y {
			return true
		}
	}

	return false
}

// profiles is tried in order during auto-detection.
var profiles = []Profile{
	{
		Name:            "sedes",
		HeadquartersCol: "sede_id",
		TypeCol:         "tipo",
		YearCol:         []string{"año", "anio"},
		CreatedAtCol:    "fecha_carga",
	},
	{
		Name:            "headquarters",
		HeadquartersCol: "headquarters_id",
		TypeCol:         "type",
		YearCol:         []string{"year"},
		CreatedAtCol:    "created_at",
	},
}
