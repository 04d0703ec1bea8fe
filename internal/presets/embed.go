package presets

import _ "embed"

// rawPresetsJSON is the preset catalog shipped with the binary.
//
//go:embed data/presets.json
var rawPresetsJSON []byte
