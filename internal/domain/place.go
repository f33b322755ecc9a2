package domain

// Coordinate is a WGS84 position in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a resolved human-readable location.
type Place struct {
	Coordinate
	Label string `json:"label"`
}

// Position is one sample from a live location track.
type Position struct {
	Coordinate
	Mock   bool   `json:"mock"`
	Status string `json:"status"`
}

// Facility is a nearby point of interest returned by a facility search.
type Facility struct {
	Name       string  `json:"name"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	DistanceKm float64 `json:"distance_km"`
	MapURL     string  `json:"map_url"`
}
