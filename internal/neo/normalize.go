package neo

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Normalize flattens a raw record. The average size is set only when both
// diameter bounds are JSON numbers; approach figures come from the first
// close approach and accept numbers or decimal strings.
func Normalize(raw RawObject) Asteroid {
	a := Asteroid{
		ID:           raw.ID,
		Name:         raw.Name,
		SizeMilesMin: jsonNumber(raw.EstimatedDiameter.Miles.Min),
		SizeMilesMax: jsonNumber(raw.EstimatedDiameter.Miles.Max),
	}

	if a.SizeMilesMin != nil && a.SizeMilesMax != nil {
		avg := (*a.SizeMilesMin + *a.SizeMilesMax) / 2
		a.SizeMilesAvg = &avg
	}

	if len(raw.CloseApproachData) > 0 {
		approach := raw.CloseApproachData[0]
		a.MissDistanceMiles = numeric(approach.MissDistance.Miles)
		a.SpeedMPH = numeric(approach.RelativeVelocity.MilesPerHour)
	}

	return a
}

// NormalizeAll maps every raw record, always returning a non-nil slice.
func NormalizeAll(raws []RawObject) []Asteroid {
	out := make([]Asteroid, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Normalize(raw))
	}
	return out
}

// jsonNumber accepts only a JSON number literal.
func jsonNumber(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '"' || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return finite(f)
}

// numeric accepts a JSON number or a string holding a decimal number.
// Empty strings, zero-valued numbers and anything unparsable are absent.
func numeric(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return finite(f)
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil || f == 0 {
		return nil
	}
	return finite(f)
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
