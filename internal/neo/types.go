package neo

import "encoding/json"

// Asteroid is a near-Earth object flattened for display. Nil numeric fields
// were absent or non-numeric upstream and encode as JSON null.
type Asteroid struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	SizeMilesAvg      *float64 `json:"size_miles_avg"`
	SizeMilesMin      *float64 `json:"size_miles_min"`
	SizeMilesMax      *float64 `json:"size_miles_max"`
	MissDistanceMiles *float64 `json:"miss_distance_miles"`
	SpeedMPH          *float64 `json:"speed_mph"`
}

// Feed is the payload served for one date.
type Feed struct {
	Date      string     `json:"date"`
	Count     int        `json:"count"`
	Asteroids []Asteroid `json:"asteroids"`
}

// NewFeed builds a Feed, keeping Count in step with the list.
func NewFeed(date string, asteroids []Asteroid) *Feed {
	if asteroids == nil {
		asteroids = []Asteroid{}
	}
	return &Feed{
		Date:      date,
		Count:     len(asteroids),
		Asteroids: asteroids,
	}
}

// feedResponse is the subset of the NeoWs /feed body we read.
type feedResponse struct {
	NearEarthObjects map[string][]RawObject `json:"near_earth_objects"`
}

// RawObject is one upstream near-Earth object record. Numeric leaves are kept
// raw because upstream mixes JSON numbers and decimal strings.
type RawObject struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	EstimatedDiameter estimatedDiameter `json:"estimated_diameter"`
	CloseApproachData []closeApproach   `json:"close_approach_data"`
}

type estimatedDiameter struct {
	Miles diameterRange `json:"miles"`
}

type diameterRange struct {
	Min json.RawMessage `json:"estimated_diameter_min"`
	Max json.RawMessage `json:"estimated_diameter_max"`
}

type closeApproach struct {
	MissDistance     missDistance     `json:"miss_distance"`
	RelativeVelocity relativeVelocity `json:"relative_velocity"`
}

type missDistance struct {
	Miles json.RawMessage `json:"miles"`
}

type relativeVelocity struct {
	MilesPerHour json.RawMessage `json:"miles_per_hour"`
}
