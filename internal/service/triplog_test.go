package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/triplog/internal/domain"
	"github.com/pkordes/triplog/internal/kv"
	"github.com/pkordes/triplog/internal/repo"
	"github.com/pkordes/triplog/internal/service"
)

// ---- helpers ---------------------------------------------------------------

var fixedNow = time.Date(2026, 10, 18, 8, 30, 0, 0, time.Local)

func fixedClock() time.Time { return fixedNow }

func newTripLog(t *testing.T, store kv.Store, opts ...service.TripLogOption) (*service.TripLog, repo.TripRepo) {
	t.Helper()
	trips := repo.NewTripRepo(store)
	opts = append([]service.TripLogOption{service.WithClock(fixedClock)}, opts...)
	return service.NewTripLog(trips, nil, discardLogger(), opts...), trips
}

func seed(t *testing.T, trips repo.TripRepo, ids ...int64) {
	t.Helper()
	records := make([]domain.TripRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, domain.TripRecord{ID: id, TripNumber: 1, Mode: "Walk", Destination: "Stop"})
	}
	require.NoError(t, trips.Save(context.Background(), records))
}

func rowIDs(v domain.View) []int64 {
	out := make([]int64, len(v.Rows))
	for i, r := range v.Rows {
		out[i] = r.ID
	}
	return out
}

// ---- Render ----------------------------------------------------------------

func TestTripLog_Render_ShowsLatestEightNewestFirst(t *testing.T) {
	tl, trips := newTripLog(t, kv.NewMemory(0))
	seed(t, trips, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	v := tl.Render(context.Background())

	assert.Equal(t, []int64{10, 9, 8, 7, 6, 5, 4, 3}, rowIDs(v))
	assert.True(t, v.Persisted)
	assert.Nil(t, v.Notice)
	assert.Nil(t, v.Form)
}

func TestTripLog_Render_Empty(t *testing.T) {
	tl, _ := newTripLog(t, kv.NewMemory(0))

	v := tl.Render(context.Background())

	assert.NotNil(t, v.Rows)
	assert.Empty(t, v.Rows)
}

func TestTripLog_Render_RowText(t *testing.T) {
	tl, trips := newTripLog(t, kv.NewMemory(0))
	require.NoError(t, trips.Save(context.Background(), []domain.TripRecord{{
		ID:          42,
		TripNumber:  3,
		Origin:      "Home",
		Destination: "Market",
		StartTime:   "2026-10-18T17:05",
		Mode:        "Bus",
		Companions:  2,
	}}))

	v := tl.Render(context.Background())

	require.Len(t, v.Rows, 1)
	assert.Equal(t, domain.TripRow{
		ID:     42,
		Badge:  "#3",
		Route:  "Home → Market",
		Detail: "Bus • Oct 18, 2026 5:05 PM • 2 companion(s)",
	}, v.Rows[0])
}

func TestTripLog_Render_UnparseableStartTimeShownRaw(t *testing.T) {
	tl, trips := newTripLog(t, kv.NewMemory(0))
	require.NoError(t, trips.Save(context.Background(), []domain.TripRecord{{ID: 1, TripNumber: 1, Mode: "Walk", StartTime: "yesterday"}}))

	v := tl.Render(context.Background())

	assert.Equal(t, "Walk • yesterday • 0 companion(s)", v.Rows[0].Detail)
}

func TestTripLog_Render_ReportsGauge(t *testing.T) {
	gauge := &gaugeSpy{}
	tl, trips := newTripLog(t, kv.NewMemory(0), service.WithTripGauge(gauge))
	seed(t, trips, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11)

	tl.Render(context.Background())

	assert.Equal(t, 11, gauge.last)
}

// ---- OnSubmit --------------------------------------------------------------

func TestTripLog_OnSubmit_AppliesDefaultsAndResetsForm(t *testing.T) {
	tl, trips := newTripLog(t, kv.NewMemory(0))

	v := tl.OnSubmit(context.Background(), domain.TripForm{Destination: "Office"})

	require.True(t, v.Persisted)
	require.NotNil(t, v.Notice)
	assert.Equal(t, service.NoticeTripSaved, v.Notice.Message)
	require.NotNil(t, v.Form)
	assert.Equal(t, domain.NewTripForm(fixedNow), *v.Form)

	stored, err := trips.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	rec := stored[0]
	assert.Equal(t, fixedNow.UnixMilli(), rec.ID)
	assert.Equal(t, 1, rec.TripNumber)
	assert.Equal(t, "Walk", rec.Mode)
	assert.Equal(t, "Other", rec.Purpose)
	assert.Equal(t, 0, rec.Companions)
	assert.Equal(t, "Office", rec.Destination)

	require.Len(t, v.Rows, 1)
	assert.Equal(t, rec.ID, v.Rows[0].ID)
}

func TestTripLog_OnSubmit_IDsStrictlyIncrease(t *testing.T) {
	tl, trips := newTripLog(t, kv.NewMemory(0))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		tl.OnSubmit(ctx, domain.TripForm{Destination: "Office"})
	}

	stored, err := trips.Load(ctx)
	require.NoError(t, err)
	base := fixedNow.UnixMilli()
	assert.Equal(t, []int64{base, base + 1, base + 2}, []int64{stored[0].ID, stored[1].ID, stored[2].ID})
}

func TestTripLog_OnSubmit_IDPassesNewestStoredID(t *testing.T) {
	tl, trips := newTripLog(t, kv.NewMemory(0))
	ahead := fixedNow.UnixMilli() + 5000
	seed(t, trips, ahead)

	v := tl.OnSubmit(context.Background(), domain.TripForm{})

	assert.Equal(t, []int64{ahead + 1, ahead}, rowIDs(v))
}

func TestTripLog_OnSubmit_ReadsStoreOnce(t *testing.T) {
	store := &countingStore{Memory: kv.NewMemory(0)}
	tl, trips := newTripLog(t, store)
	seed(t, trips, 1, 2)
	store.gets, store.sets = 0, 0

	v := tl.OnSubmit(context.Background(), domain.TripForm{Destination: "Office"})

	assert.True(t, v.Persisted)
	assert.Equal(t, 1, store.gets)
	assert.Equal(t, 1, store.sets)
	assert.Len(t, v.Rows, 3)
}

func TestTripLog_OnSubmit_ReadFailureDoesNotOverwrite(t *testing.T) {
	store := &countingStore{Memory: kv.NewMemory(0)}
	tl, trips := newTripLog(t, store)
	seed(t, trips, 1, 2)
	store.sets = 0
	store.getErr = errors.New("storage disabled")

	v := tl.OnSubmit(context.Background(), domain.TripForm{Destination: "Office"})

	assert.False(t, v.Persisted)
	assert.Equal(t, []int64{fixedNow.UnixMilli()}, rowIDs(v))
	assert.Zero(t, store.sets)

	store.getErr = nil
	stored, err := trips.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestTripLog_OnSubmit_QuotaExceededStillRenders(t *testing.T) {
	tl, _ := newTripLog(t, kv.NewMemory(32))

	v := tl.OnSubmit(context.Background(), domain.TripForm{Destination: "Office"})

	assert.False(t, v.Persisted)
	assert.Len(t, v.Rows, 1)
	require.NotNil(t, v.Notice)
	assert.NotNil(t, v.Form)
}

// ---- OnDelete / OnClearAll -------------------------------------------------

func TestTripLog_OnDelete(t *testing.T) {
	tl, trips := newTripLog(t, kv.NewMemory(0))
	seed(t, trips, 1, 2, 3)

	v := tl.OnDelete(context.Background(), 2)

	assert.Equal(t, []int64{3, 1}, rowIDs(v))
	assert.True(t, v.Persisted)
	assert.Nil(t, v.Notice)
}

func TestTripLog_OnDelete_UnknownID(t *testing.T) {
	tl, trips := newTripLog(t, kv.NewMemory(0))
	seed(t, trips, 1)

	v := tl.OnDelete(context.Background(), 404)

	assert.Equal(t, []int64{1}, rowIDs(v))
}

func TestTripLog_OnClearAll(t *testing.T) {
	tl, trips := newTripLog(t, kv.NewMemory(0))
	seed(t, trips, 1, 2)

	v := tl.OnClearAll(context.Background())

	assert.Empty(t, v.Rows)
	require.NotNil(t, v.Notice)
	assert.Equal(t, service.NoticeTripsCleared, v.Notice.Message)

	stored, err := trips.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

// ---- RecentDestination -----------------------------------------------------

func TestTripLog_RecentDestination(t *testing.T) {
	tests := []struct {
		name  string
		dests []string
		want  string
	}{
		{name: "empty store", dests: nil, want: service.FallbackDestination},
		{name: "latest wins", dests: []string{"A", "B", "C"}, want: "C"},
		{name: "skips blanks", dests: []string{"A", "B", "", ""}, want: "B"},
		{name: "only last three", dests: []string{"A", "", "", ""}, want: service.FallbackDestination},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tl, trips := newTripLog(t, kv.NewMemory(0))
			records := make([]domain.TripRecord, 0, len(tc.dests))
			for i, d := range tc.dests {
				records = append(records, domain.TripRecord{ID: int64(i + 1), Destination: d})
			}
			require.NoError(t, trips.Save(context.Background(), records))

			assert.Equal(t, tc.want, tl.RecentDestination(context.Background()))
		})
	}
}

// ---- CurrentOrigin ---------------------------------------------------------

func TestTripLog_CurrentOrigin(t *testing.T) {
	loc := &mockLocator{
		locate: func(_ context.Context) (domain.Place, error) {
			return domain.Place{Label: "Near Kochi Metro Station"}, nil
		},
	}
	tl := service.NewTripLog(repo.NewTripRepo(kv.NewMemory(0)), loc, discardLogger())

	got, err := tl.CurrentOrigin(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Near Kochi Metro Station", got)
}

func TestTripLog_CurrentOrigin_Failures(t *testing.T) {
	tests := []struct {
		name    string
		locator service.Locator
	}{
		{name: "no locator", locator: nil},
		{name: "locator error", locator: &mockLocator{
			locate: func(_ context.Context) (domain.Place, error) { return domain.Place{}, errors.New("permission denied") },
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tl := service.NewTripLog(repo.NewTripRepo(kv.NewMemory(0)), tc.locator, discardLogger())

			got, err := tl.CurrentOrigin(context.Background())

			assert.Empty(t, got)
			assert.ErrorIs(t, err, domain.ErrLocationUnavailable)
		})
	}
}

func TestTripLog_CurrentOrigin_Cancelled(t *testing.T) {
	loc := &service.MockLocator{Delay: time.Hour}
	tl := service.NewTripLog(repo.NewTripRepo(kv.NewMemory(0)), loc, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tl.CurrentOrigin(ctx)

	assert.ErrorIs(t, err, domain.ErrLocationUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}
