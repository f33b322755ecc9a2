package handler

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/pkordes/triplog/internal/domain"
	"github.com/pkordes/triplog/internal/service"
)

// DestinationResponse is the body of GET /trips/recent-destination.
type DestinationResponse struct {
	Destination string `json:"destination"`
}

// OriginResponse is the body of GET /trips/current-origin. On failure Origin
// is empty and Placeholder holds the text to show in the field instead.
type OriginResponse struct {
	Origin      string `json:"origin"`
	Placeholder string `json:"placeholder,omitempty"`
}

// ListTrips handles GET /trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.trips.Render(r.Context()))
}

// CreateTrip handles POST /trips. It accepts either a JSON TripForm or a
// classic url-encoded form post using the same field names.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	form, err := decodeTripForm(r)
	if err != nil {
		requestError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.trips.OnSubmit(r.Context(), form))
}

// DeleteTrip handles DELETE /trips/{id}. Deleting an unknown id still
// answers 200 with the current rows.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "trip id must be an integer")
		return
	}
	writeJSON(w, http.StatusOK, s.trips.OnDelete(r.Context(), id))
}

// ClearTrips handles DELETE /trips.
func (s *Server) ClearTrips(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.trips.OnClearAll(r.Context()))
}

// GetRecentDestination handles GET /trips/recent-destination.
func (s *Server) GetRecentDestination(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, DestinationResponse{Destination: s.trips.RecentDestination(r.Context())})
}

// GetCurrentOrigin handles GET /trips/current-origin.
func (s *Server) GetCurrentOrigin(w http.ResponseWriter, r *http.Request) {
	label, err := s.trips.CurrentOrigin(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrLocationUnavailable) {
			writeJSON(w, http.StatusServiceUnavailable, OriginResponse{Placeholder: service.OriginPlaceholder})
			return
		}
		s.log.ErrorContext(r.Context(), "current origin", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, OriginResponse{Origin: label})
}

// --- decoding helpers -------------------------------------------------------

// decodeTripForm reads a TripForm from a JSON or url-encoded body.
func decodeTripForm(r *http.Request) (domain.TripForm, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch ct {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return domain.TripForm{}, err
		}
		return formFromValues(r.PostForm), nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			return domain.TripForm{}, err
		}
		return formFromValues(r.PostForm), nil
	default:
		if r.Body == nil || r.ContentLength == 0 {
			return domain.TripForm{}, errors.New("request body is required")
		}
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return domain.TripForm{}, fmt.Errorf("malformed trip form: %w", err)
		}
		return formFromValues(jsonToValues(raw)), nil
	}
}

// jsonToValues flattens a JSON object into form values so that numbers and
// strings are accepted alike ({"companions": 2} and {"companions": "2"}).
// null and nested values are treated as blank.
func jsonToValues(raw map[string]any) url.Values {
	v := make(url.Values, len(raw))
	for k, val := range raw {
		switch x := val.(type) {
		case string:
			v.Set(k, x)
		case float64:
			v.Set(k, strconv.FormatFloat(x, 'f', -1, 64))
		case bool:
			v.Set(k, strconv.FormatBool(x))
		}
	}
	return v
}

// formFromValues maps posted field names onto a TripForm.
func formFromValues(v url.Values) domain.TripForm {
	return domain.TripForm{
		TripNumber:    v.Get("tripNumber"),
		Origin:        v.Get("origin"),
		StartTime:     v.Get("startTime"),
		Mode:          v.Get("mode"),
		Destination:   v.Get("destination"),
		Companions:    v.Get("companions"),
		Purpose:       v.Get("purpose"),
		Notes:         v.Get("notes"),
		FbHospitals:   v.Get("fb_hospitals"),
		FbToilets:     v.Get("fb_toilets"),
		FbToiletClean: v.Get("fb_toilet_clean"),
		FbRoads:       v.Get("fb_roads"),
		FbSidewalks:   v.Get("fb_sidewalks"),
		FbLighting:    v.Get("fb_lighting"),
		FbBus:         v.Get("fb_bus"),
		FbSafety:      v.Get("fb_safety"),
		FbSignage:     v.Get("fb_signage"),
		FbOverall:     v.Get("fb_overall"),
		FbNotes:       v.Get("fb_notes"),
	}
}
