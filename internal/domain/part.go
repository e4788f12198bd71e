package domain

// FamilyTable is an allow-listed specs table identifier. Per-family spec
// tables are resolved through this enum only; external identifiers are never
// interpolated into SQL.
type FamilyTable string

const (
	TableMLCC          FamilyTable = "specs_mlcc"
	TableChipResistor  FamilyTable = "specs_chip_resistor"
	TablePowerInductor FamilyTable = "specs_power_inductor"
)

// KnownFamilyTables lists every specs table the registry may query, in
// registry scan order.
var KnownFamilyTables = []FamilyTable{
	TableMLCC,
	TableChipResistor,
	TablePowerInductor,
}

// ValidFamilyTable reports whether name is one of the allow-listed specs
// tables.
func ValidFamilyTable(name string) (FamilyTable, bool) {
	for _, t := range KnownFamilyTables {
		if string(t) == name {
			return t, true
		}
	}
	return "", false
}

// PartRow is one row of a per-family specs table.
type PartRow struct {
	Brand      string
	Code       string
	FamilySlug string
	// Attrs holds the family's numeric attributes (e.g. capacitance_pf).
	// Missing attributes are simply absent from the map.
	Attrs map[string]float64
	// Embedding is the precomputed similarity vector, nil when the row has
	// not been indexed yet.
	Embedding []float32
}

// PartMatch is the result of an exact registry lookup: the row plus where it
// was found.
type PartMatch struct {
	Table      FamilyTable
	FamilySlug string
	Row        PartRow
}

// FamilyMapping is one entry of the ordered family registry: a family slug
// and the specs table holding its rows.
type FamilyMapping struct {
	FamilySlug string
	Table      FamilyTable
	// Position fixes the registry scan order for exact-row resolution.
	Position int
}
