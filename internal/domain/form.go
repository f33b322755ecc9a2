package domain

import (
	"strconv"
	"strings"
	"time"
)

// StartTimeLayout is the local datetime format used by the start-time field
// (minute precision, no zone).
const StartTimeLayout = "2006-01-02T15:04"

// TripForm carries the raw, unparsed field values of the trip form.
// Numeric fields stay strings so that blank and garbage input can fall back
// to defaults the same way for every host binding.
type TripForm struct {
	TripNumber  string `json:"tripNumber"`
	Origin      string `json:"origin"`
	StartTime   string `json:"startTime"`
	Mode        string `json:"mode"`
	Destination string `json:"destination"`
	Companions  string `json:"companions"`
	Purpose     string `json:"purpose"`
	Notes       string `json:"notes"`

	FbHospitals   string `json:"fb_hospitals"`
	FbToilets     string `json:"fb_toilets"`
	FbToiletClean string `json:"fb_toilet_clean"`
	FbRoads       string `json:"fb_roads"`
	FbSidewalks   string `json:"fb_sidewalks"`
	FbLighting    string `json:"fb_lighting"`
	FbBus         string `json:"fb_bus"`
	FbSafety      string `json:"fb_safety"`
	FbSignage     string `json:"fb_signage"`
	FbOverall     string `json:"fb_overall"`
	FbNotes       string `json:"fb_notes"`
}

// NewTripForm returns a blank form whose start time is prefilled with now.
func NewTripForm(now time.Time) TripForm {
	return TripForm{StartTime: now.Format(StartTimeLayout)}
}

// Record builds a TripRecord from the form, applying field defaults.
// The caller supplies the ID.
func (f TripForm) Record(id int64) TripRecord {
	return TripRecord{
		ID:          id,
		TripNumber:  atoiOr(f.TripNumber, DefaultTripNumber, 1),
		Origin:      f.Origin,
		StartTime:   f.StartTime,
		Mode:        orDefault(f.Mode, DefaultMode),
		Destination: f.Destination,
		Companions:  atoiOr(f.Companions, 0, 0),
		Purpose:     orDefault(f.Purpose, DefaultPurpose),
		Notes:       f.Notes,
		Feedback: Feedback{
			Hospitals:   f.FbHospitals,
			Toilets:     f.FbToilets,
			ToiletClean: f.FbToiletClean,
			Roads:       f.FbRoads,
			Sidewalks:   f.FbSidewalks,
			Lighting:    f.FbLighting,
			Bus:         f.FbBus,
			Safety:      f.FbSafety,
			Signage:     f.FbSignage,
			Overall:     f.FbOverall,
			Notes:       f.FbNotes,
		},
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// atoiOr parses s as an integer no smaller than lowest, returning fallback
// for blank, malformed, or out-of-range input.
func atoiOr(s string, fallback, lowest int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lowest {
		return fallback
	}
	return n
}
