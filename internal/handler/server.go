// Package handler implements the HTTP binding of the trip log.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, prefs.go, ...) but share the same Server struct
// so they can reach its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/triplog/internal/domain"
	"github.com/pkordes/triplog/internal/service"
)

// TripLogger defines the trip log commands the handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching storage.
type TripLogger interface {
	Render(ctx context.Context) domain.View
	OnSubmit(ctx context.Context, form domain.TripForm) domain.View
	OnDelete(ctx context.Context, id int64) domain.View
	OnClearAll(ctx context.Context) domain.View
	RecentDestination(ctx context.Context) string
	CurrentOrigin(ctx context.Context) (string, error)
}

// PrefsServicer defines the preference operations the handlers depend on.
type PrefsServicer interface {
	Theme(ctx context.Context, prefersLight bool) domain.Theme
	SetTheme(ctx context.Context, t domain.Theme) (domain.Theme, error)
	ToggleTheme(ctx context.Context, prefersLight bool) (domain.Theme, error)
	Consent(ctx context.Context) bool
	SetConsent(ctx context.Context, given bool) (*domain.Notice, error)
	Survey(ctx context.Context) domain.SurveyResponse
	SubmitSurvey(ctx context.Context, resp domain.SurveyResponse) (*domain.Notice, error)
}

// NearbySearcher defines the facility search the handlers depend on.
type NearbySearcher interface {
	Search(ctx context.Context, facilityType string, center *domain.Coordinate) service.NearbyResult
}

// PositionTracker streams live or mock positions until ctx is cancelled.
type PositionTracker interface {
	Track(ctx context.Context) <-chan domain.Position
}

// Server holds the dependencies of every handler.
// Any dependency may be nil when a test only exercises some routes.
type Server struct {
	trips   TripLogger
	prefs   PrefsServicer
	nearby  NearbySearcher
	tracker PositionTracker
	log     *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripLogger, prefs PrefsServicer, nearby NearbySearcher, tracker PositionTracker, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{trips: trips, prefs: prefs, nearby: nearby, tracker: tracker, log: log}
}

// Routes returns a router with every endpoint registered. main.go mounts it
// under the middleware stack; tests serve it directly.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Delete("/", s.ClearTrips)
		r.Get("/recent-destination", s.GetRecentDestination)
		r.Get("/current-origin", s.GetCurrentOrigin)
		r.Delete("/{id}", s.DeleteTrip)
	})

	r.Route("/prefs", func(r chi.Router) {
		r.Get("/theme", s.GetTheme)
		r.Put("/theme", s.PutTheme)
		r.Post("/theme/toggle", s.ToggleTheme)
		r.Get("/consent", s.GetConsent)
		r.Put("/consent", s.PutConsent)
	})

	r.Get("/survey", s.GetSurvey)
	r.Post("/survey", s.PostSurvey)

	r.Get("/nearby", s.GetNearby)
	r.Get("/live", s.GetLive)
	r.Get("/live/ws", s.GetLiveWS)

	return r
}
