package roofs

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// areaColumn is the required roof area column, in square metres.
const areaColumn = "area_m2"

// idColumns are the accepted identifier columns, in priority order.
var idColumns = []string{"id", "osm_id", "osmid", "building_id"}

// LoadCSV reads roofs from CSV with a header row containing an area_m2
// column. When no identifier column is present the 1-based row number is
// used. A missing area column or a non-numeric area wraps ErrInvalidInput;
// blank areas count as zero.
func LoadCSV(r io.Reader) ([]Roof, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: roof CSV is empty", ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to read roof CSV header: %w", err)
	}

	headerMap := make(map[string]int, len(headers))
	for i, h := range headers {
		headerMap[strings.ToLower(strings.TrimSpace(h))] = i
	}

	areaIdx, ok := headerMap[areaColumn]
	if !ok {
		return nil, fmt.Errorf("%w: roof CSV must include an %q column in square metres", ErrInvalidInput, areaColumn)
	}
	idIdx := -1
	for _, c := range idColumns {
		if i, ok := headerMap[c]; ok {
			idIdx = i
			break
		}
	}

	var roofs []Roof
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("roof CSV row %d: %w", row, err)
		}

		var area float64
		if areaIdx < len(record) {
			raw := strings.TrimSpace(record[areaIdx])
			if raw != "" {
				area, err = strconv.ParseFloat(raw, 64)
				if err != nil {
					return nil, fmt.Errorf("%w: roof CSV row %d: %q must be numeric, got %q", ErrInvalidInput, row, areaColumn, raw)
				}
			}
		}

		id := strconv.Itoa(row)
		if idIdx >= 0 && idIdx < len(record) && strings.TrimSpace(record[idIdx]) != "" {
			id = strings.TrimSpace(record[idIdx])
		}

		roofs = append(roofs, Roof{ID: id, AreaM2: area})
	}

	return roofs, nil
}

// LoadJSON reads roofs from a JSON array of objects carrying an area_m2
// number and an optional id of any scalar type.
func LoadJSON(r io.Reader) ([]Roof, error) {
	var raw []map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode roof JSON: %w", err)
	}
	return FromMaps(raw)
}

// FromMaps converts loosely typed records (decoded JSON, protobuf structs)
// into roofs, validating the area field of each one.
func FromMaps(records []map[string]any) ([]Roof, error) {
	roofs := make([]Roof, 0, len(records))
	for i, rec := range records {
		v, ok := rec[areaColumn]
		if !ok {
			return nil, fmt.Errorf("%w: roof %d has no %q field", ErrInvalidInput, i, areaColumn)
		}
		area, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: roof %d: %q must be numeric, got %T", ErrInvalidInput, i, areaColumn, v)
		}

		id := strconv.Itoa(i + 1)
		if rawID, ok := rec["id"]; ok && rawID != nil {
			id = formatID(rawID)
		}

		roofs = append(roofs, Roof{ID: id, AreaM2: area})
	}
	return roofs, nil
}

func formatID(v any) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprint(v)
}
