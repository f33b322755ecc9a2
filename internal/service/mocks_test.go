package service_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/pkordes/triplog/internal/domain"
	"github.com/pkordes/triplog/internal/geo"
	"github.com/pkordes/triplog/internal/kv"
	"github.com/pkordes/triplog/internal/repo"
	"github.com/pkordes/triplog/internal/service"
)

// ---- shared test doubles ---------------------------------------------------
// Hand-written function-field mocks: set only the fields a test needs.

type mockLocator struct {
	locate func(ctx context.Context) (domain.Place, error)
}

func (m *mockLocator) Locate(ctx context.Context) (domain.Place, error) {
	return m.locate(ctx)
}

var _ service.Locator = (*mockLocator)(nil)

type mockGeocoder struct {
	search func(ctx context.Context, query string, limit int) ([]geo.Result, error)
}

func (m *mockGeocoder) Search(ctx context.Context, query string, limit int) ([]geo.Result, error) {
	return m.search(ctx, query, limit)
}

var _ service.Geocoder = (*mockGeocoder)(nil)

type mockWatcher struct {
	watch func(ctx context.Context) (<-chan domain.Coordinate, error)
}

func (m *mockWatcher) Watch(ctx context.Context) (<-chan domain.Coordinate, error) {
	return m.watch(ctx)
}

var _ service.Watcher = (*mockWatcher)(nil)

type mockPrefsRepo struct {
	theme      func(ctx context.Context) (domain.Theme, bool, error)
	setTheme   func(ctx context.Context, t domain.Theme) error
	consent    func(ctx context.Context) (bool, error)
	setConsent func(ctx context.Context, given bool) error
	survey     func(ctx context.Context) (domain.SurveyResponse, error)
	setSurvey  func(ctx context.Context, s domain.SurveyResponse) error
}

func (m *mockPrefsRepo) Theme(ctx context.Context) (domain.Theme, bool, error) {
	return m.theme(ctx)
}

func (m *mockPrefsRepo) SetTheme(ctx context.Context, t domain.Theme) error {
	return m.setTheme(ctx, t)
}

func (m *mockPrefsRepo) Consent(ctx context.Context) (bool, error) {
	return m.consent(ctx)
}

func (m *mockPrefsRepo) SetConsent(ctx context.Context, given bool) error {
	return m.setConsent(ctx, given)
}

func (m *mockPrefsRepo) Survey(ctx context.Context) (domain.SurveyResponse, error) {
	return m.survey(ctx)
}

func (m *mockPrefsRepo) SetSurvey(ctx context.Context, s domain.SurveyResponse) error {
	return m.setSurvey(ctx, s)
}

var _ repo.PrefsRepo = (*mockPrefsRepo)(nil)

// gaugeSpy records the last value reported by a TripLog.
type gaugeSpy struct{ last int }

func (g *gaugeSpy) SetTripsTotal(n int) { g.last = n }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingStore wraps kv.Memory, counting calls and optionally failing reads.
type countingStore struct {
	*kv.Memory
	gets, sets int
	getErr     error
}

func (c *countingStore) Get(ctx context.Context, key string) (string, bool, error) {
	c.gets++
	if c.getErr != nil {
		return "", false, c.getErr
	}
	return c.Memory.Get(ctx, key)
}

func (c *countingStore) Set(ctx context.Context, key, value string) error {
	c.sets++
	return c.Memory.Set(ctx, key, value)
}

var _ kv.Store = (*countingStore)(nil)
