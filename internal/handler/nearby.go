package handler

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkordes/triplog/internal/domain"
)

// GetNearby handles GET /nearby?type=<facility>[&lat=..&lng=..].
// Without lat/lng the search centers on the server's locator.
func (s *Server) GetNearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	facilityType := strings.TrimSpace(q.Get("type"))
	if facilityType == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "type is required")
		return
	}

	var center *domain.Coordinate
	if q.Has("lat") || q.Has("lng") {
		lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
		lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
		if errLat != nil || errLng != nil || !validCoordinate(lat, 90) || !validCoordinate(lng, 180) {
			writeError(w, http.StatusBadRequest, "bad_request", "lat and lng must be valid decimal degrees")
			return
		}
		center = &domain.Coordinate{Lat: lat, Lng: lng}
	}

	writeJSON(w, http.StatusOK, s.nearby.Search(r.Context(), facilityType, center))
}

// validCoordinate rejects NaN and infinities, which ParseFloat accepts and
// which compare false against any range bound.
func validCoordinate(v, bound float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= -bound && v <= bound
}
