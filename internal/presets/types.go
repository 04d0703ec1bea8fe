// Package presets provides named green-roof build-ups with their storage,
// overflow coefficient and unit cost, loaded from an embedded catalog.
package presets

// catalogFile is the on-disk layout of the embedded catalog.
type catalogFile struct {
	FormatVersion   string   `json:"formatVersion"`
	PublicationDate string   `json:"publicationDate"`
	Currency        string   `json:"currency"`
	Presets         []Preset `json:"presets"`
}

// Preset is one green-roof type.
type Preset struct {
	// Name is the preset key, e.g. "EXTENSIVE".
	Name string `json:"name"`

	// Description is a short human-readable summary.
	Description string `json:"description"`

	// StorageMM is the bucket storage capacity in mm.
	StorageMM float64 `json:"storage_mm"`

	// OverflowCoeff is the runoff coefficient applied to overflow (0..1).
	OverflowCoeff float64 `json:"overflow_coeff"`

	// UnitCost is the capital cost per m².
	UnitCost float64 `json:"unit_cost"`
}
