// Package service contains the business logic of the trip log.
// Services build records, enforce defaults, and orchestrate repo calls.
// No serialization lives here: services depend on repo interfaces only.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pkordes/triplog/internal/domain"
	"github.com/pkordes/triplog/internal/repo"
)

// Notice texts shown after trip log commands.
const (
	NoticeTripSaved    = "Trip saved locally"
	NoticeTripsCleared = "Cleared local trips"
)

// FallbackDestination is suggested when no recent trip has a destination.
const FallbackDestination = "Office"

// OriginPlaceholder is what a host shows in the origin field when the
// current location could not be resolved.
const OriginPlaceholder = "Location unavailable"

// recentWindow is how many of the latest trips are searched for a destination.
const recentWindow = 3

// TripGauge receives the store size after every render. metrics.Provider
// satisfies it.
type TripGauge interface {
	SetTripsTotal(n int)
}

// TripLog is the Trip Log View: named command handlers that take typed input
// and return a domain.View for the host to draw.
//
// Persistence is best-effort. A store failure never fails a command; it is
// logged and reported through View.Persisted.
type TripLog struct {
	trips   repo.TripRepo
	locator Locator
	log     *slog.Logger
	gauge   TripGauge
	now     func() time.Time

	// mu serializes read-modify-write cycles so one process behaves like a
	// single-threaded host. lastID backs the strictly increasing ID rule.
	mu     sync.Mutex
	lastID int64
}

// TripLogOption customizes a TripLog.
type TripLogOption func(*TripLog)

// WithClock replaces time.Now as the source of IDs and form start times.
func WithClock(now func() time.Time) TripLogOption {
	return func(t *TripLog) { t.now = now }
}

// WithTripGauge reports the number of stored trips after each render.
func WithTripGauge(g TripGauge) TripLogOption {
	return func(t *TripLog) { t.gauge = g }
}

// NewTripLog constructs a TripLog. locator may be nil, in which case
// CurrentOrigin always fails.
func NewTripLog(trips repo.TripRepo, locator Locator, log *slog.Logger, opts ...TripLogOption) *TripLog {
	t := &TripLog{
		trips:   trips,
		locator: locator,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Render loads the store and shows the most recent trips first.
func (t *TripLog) Render(ctx context.Context) domain.View {
	records, err := t.trips.Load(ctx)
	return t.view(records, t.persisted(ctx, "render", err))
}

// OnSubmit builds a record from the raw form, appends it, and asks the host
// to reset its form with the start time set to now.
func (t *TripLog) OnSubmit(ctx context.Context, form domain.TripForm) domain.View {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	records, err := t.trips.AppendWith(ctx, func(existing []domain.TripRecord) domain.TripRecord {
		return form.Record(t.nextID(now, existing))
	})
	ok := t.persisted(ctx, "submit", err)

	v := t.view(records, ok)
	reset := domain.NewTripForm(now)
	v.Form = &reset
	v.Notice = domain.NewNotice(NoticeTripSaved)
	return v
}

// OnDelete removes the trip with the given id. Unknown ids are a no-op.
func (t *TripLog) OnDelete(ctx context.Context, id int64) domain.View {
	t.mu.Lock()
	defer t.mu.Unlock()

	records, err := t.trips.Remove(ctx, id)
	return t.view(records, t.persisted(ctx, "delete", err))
}

// OnClearAll empties the store.
func (t *TripLog) OnClearAll(ctx context.Context) domain.View {
	t.mu.Lock()
	defer t.mu.Unlock()

	err := t.trips.Save(ctx, []domain.TripRecord{})
	v := t.view(nil, t.persisted(ctx, "clear", err))
	v.Notice = domain.NewNotice(NoticeTripsCleared)
	return v
}

// RecentDestination returns the newest non-empty destination among the last
// three trips, or FallbackDestination.
func (t *TripLog) RecentDestination(ctx context.Context) string {
	records, err := t.trips.Load(ctx)
	t.persisted(ctx, "recent-destination", err)

	for i := len(records) - 1; i >= 0 && i >= len(records)-recentWindow; i-- {
		if d := records[i].Destination; d != "" {
			return d
		}
	}
	return FallbackDestination
}

// CurrentOrigin resolves a label for the current location. There is no
// retry; on failure the host shows OriginPlaceholder.
func (t *TripLog) CurrentOrigin(ctx context.Context) (string, error) {
	if t.locator == nil {
		return "", fmt.Errorf("service.TripLog.CurrentOrigin: %w", domain.ErrLocationUnavailable)
	}
	place, err := t.locator.Locate(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrLocationUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrLocationUnavailable, err)
		}
		return "", fmt.Errorf("service.TripLog.CurrentOrigin: %w", err)
	}
	return place.Label, nil
}

// nextID derives an ID from now in milliseconds, bumped past both the last ID
// this process issued and the newest stored ID so order survives clock skew.
func (t *TripLog) nextID(now time.Time, existing []domain.TripRecord) int64 {
	id := now.UnixMilli()
	floor := t.lastID
	if n := len(existing); n > 0 && existing[n-1].ID > floor {
		floor = existing[n-1].ID
	}
	if id <= floor {
		id = floor + 1
	}
	t.lastID = id
	return id
}

// persisted logs a store failure and reports whether the command's effects
// reached storage.
func (t *TripLog) persisted(ctx context.Context, op string, err error) bool {
	if err == nil {
		return true
	}
	t.log.WarnContext(ctx, "trip store unavailable; continuing in memory",
		"op", op,
		"error", err,
	)
	return false
}

// view renders the last MaxRenderedTrips records, newest first.
func (t *TripLog) view(records []domain.TripRecord, persisted bool) domain.View {
	if t.gauge != nil {
		t.gauge.SetTripsTotal(len(records))
	}

	start := max(len(records)-domain.MaxRenderedTrips, 0)
	rows := make([]domain.TripRow, 0, len(records)-start)
	for i := len(records) - 1; i >= start; i-- {
		rows = append(rows, tripRow(records[i]))
	}
	return domain.View{Rows: rows, Persisted: persisted}
}

func tripRow(r domain.TripRecord) domain.TripRow {
	return domain.TripRow{
		ID:     r.ID,
		Badge:  fmt.Sprintf("#%d", r.TripNumber),
		Route:  r.Origin + " → " + r.Destination,
		Detail: fmt.Sprintf("%s • %s • %d companion(s)", r.Mode, formatStartTime(r.StartTime), r.Companions),
	}
}

// formatStartTime renders a stored start time for display, or returns it
// unchanged when it does not parse.
func formatStartTime(s string) string {
	ts, err := time.ParseInLocation(domain.StartTimeLayout, s, time.Local)
	if err != nil {
		return s
	}
	return ts.Format("Jan 2, 2006 3:04 PM")
}
