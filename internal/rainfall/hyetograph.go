package rainfall

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Accepted header names, matched case-insensitively after trimming.
var (
	minuteColumns    = []string{"minute", "minutes", "time_min", "t_min"}
	intensityColumns = []string{"mm_per_min", "intensity", "intensity_mm_per_min", "mm_min"}
)

// ErrMissingColumns is returned when a hyetograph CSV lacks a minute or an
// intensity column.
var ErrMissingColumns = errors.New("hyetograph must include columns like 'minutes' and 'mm_per_min'")

// ParseHyetographCSV reads a hyetograph from CSV with a header row.
// Blank or negative intensities become zero. Rows keep their file order.
func ParseHyetographCSV(r io.Reader) ([]Step, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrMissingColumns
		}
		return nil, fmt.Errorf("failed to read hyetograph header: %w", err)
	}

	headerMap := make(map[string]int, len(headers))
	for i, h := range headers {
		headerMap[strings.ToLower(strings.TrimSpace(h))] = i
	}

	minuteIdx, okMinute := findColumn(headerMap, minuteColumns)
	intensityIdx, okIntensity := findColumn(headerMap, intensityColumns)
	if !okMinute || !okIntensity {
		return nil, ErrMissingColumns
	}

	var steps []Step
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("hyetograph line %d: %w", line, err)
		}

		step, err := parseStep(record, minuteIdx, intensityIdx)
		if err != nil {
			return nil, fmt.Errorf("hyetograph line %d: %w", line, err)
		}
		steps = append(steps, step)
	}

	return steps, nil
}

func parseStep(record []string, minuteIdx, intensityIdx int) (Step, error) {
	if minuteIdx >= len(record) {
		return Step{}, fmt.Errorf("missing minute value")
	}

	rawMinute := strings.TrimSpace(record[minuteIdx])
	minute, err := strconv.Atoi(rawMinute)
	if err != nil {
		// Exported series often write minutes as floats ("5.0").
		f, ferr := strconv.ParseFloat(rawMinute, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Step{}, fmt.Errorf("invalid minute %q", rawMinute)
		}
		minute = int(f)
	}

	var intensity float64
	if intensityIdx < len(record) {
		raw := strings.TrimSpace(record[intensityIdx])
		if raw != "" {
			intensity, err = strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(intensity) || math.IsInf(intensity, 0) {
				return Step{}, fmt.Errorf("invalid intensity %q", raw)
			}
		}
	}

	return Step{Minute: minute, IntensityMMPerMin: nonNegative(intensity)}, nil
}

func findColumn(headerMap map[string]int, candidates []string) (int, bool) {
	for _, c := range candidates {
		if idx, ok := headerMap[c]; ok {
			return idx, true
		}
	}
	return 0, false
}
