package roofs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadCSV verifies header handling, identifiers and area parsing.
func TestLoadCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Roof
		wantErr bool
	}{
		{
			name:  "id and area",
			input: "id,area_m2\nw1,120.5\nw2,80\n",
			want:  []Roof{{ID: "w1", AreaM2: 120.5}, {ID: "w2", AreaM2: 80}},
		},
		{
			name:  "osm_id with extra columns",
			input: "building,OSM_ID,Area_M2\nyes,901,40\nhouse,902,55\n",
			want:  []Roof{{ID: "901", AreaM2: 40}, {ID: "902", AreaM2: 55}},
		},
		{
			name:  "row numbers when no id column",
			input: "area_m2\n10\n\n30\n",
			want:  []Roof{{ID: "1", AreaM2: 10}, {ID: "2", AreaM2: 30}},
		},
		{
			name:  "blank area counts as zero",
			input: "id,area_m2\na,\nb,5\n",
			want:  []Roof{{ID: "a", AreaM2: 0}, {ID: "b", AreaM2: 5}},
		},
		{
			name:    "missing area column",
			input:   "id,footprint\na,5\n",
			wantErr: true,
		},
		{
			name:    "non-numeric area",
			input:   "id,area_m2\na,large\n",
			wantErr: true,
		},
		{
			name:    "empty file",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadCSV(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestLoadJSON verifies decoding of loosely typed roof records.
func TestLoadJSON(t *testing.T) {
	got, err := LoadJSON(strings.NewReader(`[{"id": 17, "area_m2": 100}, {"id": "way/3", "area_m2": 50.5}, {"area_m2": 20}]`))
	require.NoError(t, err)
	assert.Equal(t, []Roof{
		{ID: "17", AreaM2: 100},
		{ID: "way/3", AreaM2: 50.5},
		{ID: "3", AreaM2: 20},
	}, got)
}

// TestLoadJSON_Invalid verifies missing and non-numeric areas are rejected.
func TestLoadJSON_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing area", `[{"id": "a"}]`},
		{"string area", `[{"id": "a", "area_m2": "100"}]`},
		{"null area", `[{"id": "a", "area_m2": null}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadJSON(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := LoadJSON(strings.NewReader(`{not json`))
	assert.Error(t, err)
}
