// Package hydro computes event runoff volumes from roofs, with and without a
// partial green-roof conversion. Depths are in mm, areas in m², volumes in m³.
package hydro

const (
	// DefaultRoofRunoffCoeff is the runoff coefficient of a conventional
	// impervious roof.
	DefaultRoofRunoffCoeff = 0.9

	// DefaultStorageMM is the storage depth of an extensive green roof.
	// Typical extensive build-ups hold 12 to 20 mm.
	DefaultStorageMM = 20.0

	// DefaultOverflowCoeff is the runoff coefficient applied to green-roof overflow.
	DefaultOverflowCoeff = 0.25

	// mmPerM converts depths in mm to metres.
	mmPerM = 1000.0
)
