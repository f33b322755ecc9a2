// Package domain contains the core data types for the trip log.
// This package has no dependencies on other internal packages and is imported
// by every other internal package (kv, repo, service, handler).
package domain

// TripsKey is the key-value entry holding the JSON array of trip records.
const TripsKey = "trips"

// Defaults applied when a form field is left blank.
const (
	DefaultTripNumber = 1
	DefaultMode       = "Walk"
	DefaultPurpose    = "Other"
)

// TripRecord is one logged journey. Records are immutable once created;
// the only lifecycle events after creation are deletion and full clear.
//
// ID is derived from the creation time in milliseconds and is strictly
// increasing in insertion order. It doubles as the primary key.
type TripRecord struct {
	ID          int64    `json:"id"`
	TripNumber  int      `json:"tripNumber"`
	Origin      string   `json:"origin"`
	StartTime   string   `json:"startTime"`
	Mode        string   `json:"mode"`
	Destination string   `json:"destination"`
	Companions  int      `json:"companions"`
	Purpose     string   `json:"purpose"`
	Notes       string   `json:"notes"`
	Feedback    Feedback `json:"feedback"`
}

// Feedback holds the optional per-trip survey answers. Every field is a free
// string and defaults to "".
type Feedback struct {
	Hospitals   string `json:"hospitals"`
	Toilets     string `json:"toilets"`
	ToiletClean string `json:"toiletClean"`
	Roads       string `json:"roads"`
	Sidewalks   string `json:"sidewalks"`
	Lighting    string `json:"lighting"`
	Bus         string `json:"bus"`
	Safety      string `json:"safety"`
	Signage     string `json:"signage"`
	Overall     string `json:"overall"`
	Notes       string `json:"notes"`
}
