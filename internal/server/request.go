package server

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rshade/spongekit/internal/config"
	"github.com/rshade/spongekit/internal/rainfall"
	"github.com/rshade/spongekit/internal/roofs"
	"google.golang.org/protobuf/types/known/structpb"
)

// buildTableRequest is the decoded BuildTable payload.
type buildTableRequest struct {
	Place         string           `json:"place"`
	Roofs         []map[string]any `json:"roofs"`
	Mode          string           `json:"mode"`
	DepthMM       float64          `json:"depth_mm"`
	Steps         []rainfall.Step  `json:"steps"`
	Fractions     []float64        `json:"fractions"`
	MinRoofAreaM2 *float64         `json:"min_roof_area_m2"`
	Save          bool             `json:"save"`

	config.Overrides
}

// event returns the rainfall event. A hyetograph without an explicit depth
// takes its depth from the series.
func (r *buildTableRequest) event() rainfall.Event {
	if rainfall.Mode(r.Mode) == rainfall.ModeHyetograph && r.DepthMM == 0 && len(r.Steps) > 0 {
		return rainfall.NewSeriesEvent(r.Steps)
	}
	return rainfall.NewEvent(r.Mode, r.DepthMM, r.Steps)
}

// selectRoofsRequest is the decoded SelectRoofs payload.
type selectRoofsRequest struct {
	Roofs         []map[string]any `json:"roofs"`
	Fraction      float64          `json:"fraction"`
	MinRoofAreaM2 *float64         `json:"min_roof_area_m2"`
}

// roofList converts request roofs and drops slivers when a threshold is set.
func roofList(records []map[string]any, minAreaM2 *float64) ([]roofs.Roof, error) {
	list, err := roofs.FromMaps(records)
	if err != nil {
		return nil, err
	}
	if minAreaM2 != nil {
		list = roofs.FilterSlivers(list, *minAreaM2)
	}
	return list, nil
}

// decodeStruct converts a protobuf Struct into dst through JSON.
func decodeStruct(in *structpb.Struct, dst any) error {
	if in == nil {
		return fmt.Errorf("empty request")
	}
	data, err := json.Marshal(in.AsMap())
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("malformed request: %w", err)
	}
	return nil
}

// encodeStruct converts v into a protobuf Struct through JSON.
func encodeStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	return structpb.NewStruct(m)
}
