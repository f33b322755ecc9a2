package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkordes/triplog/internal/domain"
	"github.com/pkordes/triplog/internal/geo"
)

// nearbyLimit is how many geocoder hits a search asks for.
const nearbyLimit = 5

// DefaultCenter is used when no position is supplied and none can be located.
var DefaultCenter = domain.Coordinate{Lat: 10.0035, Lng: 76.3050}

// Geocoder searches places by free text. *geo.Client satisfies it.
type Geocoder interface {
	Search(ctx context.Context, query string, limit int) ([]geo.Result, error)
}

// NearbyResult is the outcome of a facility search.
type NearbyResult struct {
	Center     domain.Coordinate `json:"center"`
	Facilities []domain.Facility `json:"facilities"`

	// Demo is true when the geocoder failed and placeholder facilities
	// around Center were returned instead.
	Demo bool `json:"demo"`
}

// NearbyService finds facilities of a given type around a position.
type NearbyService struct {
	geocoder      Geocoder
	locator       Locator
	locateTimeout time.Duration
	log           *slog.Logger
}

// NewNearbyService constructs a NearbyService. locator may be nil.
func NewNearbyService(geocoder Geocoder, locator Locator, log *slog.Logger) *NearbyService {
	return &NearbyService{
		geocoder:      geocoder,
		locator:       locator,
		locateTimeout: 3 * time.Second,
		log:           log,
	}
}

// Search never fails: a missing position falls back to DefaultCenter and a
// failed lookup falls back to two demo facilities.
func (s *NearbyService) Search(ctx context.Context, facilityType string, center *domain.Coordinate) NearbyResult {
	c := s.center(ctx, center)

	hits, err := s.geocoder.Search(ctx, facilityType, nearbyLimit)
	demo := false
	if err != nil {
		s.log.WarnContext(ctx, "geocoder unavailable; using demo facilities", "type", facilityType, "error", err)
		hits = demoFacilities(facilityType, c)
		demo = true
	}

	out := make([]domain.Facility, 0, len(hits))
	for _, h := range hits {
		out = append(out, domain.Facility{
			Name:       h.Name,
			Lat:        h.Lat,
			Lon:        h.Lon,
			DistanceKm: geo.DistanceKm(c, domain.Coordinate{Lat: h.Lat, Lng: h.Lon}),
			MapURL:     geo.MapURL(h.Lat, h.Lon),
		})
	}
	return NearbyResult{Center: c, Facilities: out, Demo: demo}
}

func (s *NearbyService) center(ctx context.Context, given *domain.Coordinate) domain.Coordinate {
	if given != nil {
		return *given
	}
	if s.locator == nil {
		return DefaultCenter
	}

	ctx, cancel := context.WithTimeout(ctx, s.locateTimeout)
	defer cancel()
	place, err := s.locator.Locate(ctx)
	if err != nil {
		return DefaultCenter
	}
	return place.Coordinate
}

func demoFacilities(facilityType string, c domain.Coordinate) []geo.Result {
	return []geo.Result{
		{Name: fmt.Sprintf("Demo %s A", facilityType), Lat: c.Lat + 0.001, Lon: c.Lng + 0.001},
		{Name: fmt.Sprintf("Demo %s B", facilityType), Lat: c.Lat - 0.001, Lon: c.Lng - 0.001},
	}
}
