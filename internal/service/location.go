package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkordes/triplog/internal/domain"
)

// Locator resolves the current position to a labelled place.
type Locator interface {
	Locate(ctx context.Context) (domain.Place, error)
}

// MockLocator answers after a fixed delay with a fixed place. It stands in
// for a device geolocation API so that no permission prompt is needed.
type MockLocator struct {
	Delay time.Duration
	Place domain.Place
}

// NewMockLocator returns the demo locator: 300ms, near Kochi Metro Station.
func NewMockLocator() *MockLocator {
	return &MockLocator{
		Delay: 300 * time.Millisecond,
		Place: domain.Place{
			Coordinate: domain.Coordinate{Lat: 10.015, Lng: 76.341},
			Label:      "Near Kochi Metro Station",
		},
	}
}

func (m *MockLocator) Locate(ctx context.Context) (domain.Place, error) {
	t := time.NewTimer(m.Delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return domain.Place{}, fmt.Errorf("service.MockLocator.Locate: %w: %w", domain.ErrLocationUnavailable, ctx.Err())
	case <-t.C:
		return m.Place, nil
	}
}

// Watcher streams live coordinates. The channel is closed when the source
// stops or ctx is cancelled.
type Watcher interface {
	Watch(ctx context.Context) (<-chan domain.Coordinate, error)
}

// MockRoute is the path replayed when no live positions are available.
var MockRoute = []domain.Coordinate{
	{Lat: 10.0000, Lng: 76.3000},
	{Lat: 10.0015, Lng: 76.3025},
	{Lat: 10.0035, Lng: 76.3050},
	{Lat: 10.0060, Lng: 76.3075},
	{Lat: 10.0080, Lng: 76.3100},
}

// DefaultMockInterval is the time between mock route samples.
const DefaultMockInterval = 1500 * time.Millisecond

// Tracker turns a Watcher into a stream of status-bearing positions, falling
// back to MockRoute when the watcher is missing or fails to start.
type Tracker struct {
	watcher  Watcher
	interval time.Duration
}

// NewTracker builds a Tracker. watcher may be nil. interval <= 0 selects
// DefaultMockInterval.
func NewTracker(watcher Watcher, interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = DefaultMockInterval
	}
	return &Tracker{watcher: watcher, interval: interval}
}

// Track emits positions until ctx is cancelled. The returned channel is
// closed once tracking has stopped.
func (t *Tracker) Track(ctx context.Context) <-chan domain.Position {
	out := make(chan domain.Position)

	var live <-chan domain.Coordinate
	if t.watcher != nil {
		if ch, err := t.watcher.Watch(ctx); err == nil {
			live = ch
		}
	}

	go func() {
		defer close(out)
		if live != nil {
			if !t.relay(ctx, live, out) {
				return
			}
		}
		t.replayMock(ctx, out)
	}()
	return out
}

// relay forwards live samples. It returns true when the live source ended on
// its own and the mock route should take over.
func (t *Tracker) relay(ctx context.Context, live <-chan domain.Coordinate, out chan<- domain.Position) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case c, ok := <-live:
			if !ok {
				return ctx.Err() == nil
			}
			if !send(ctx, out, domain.Position{Coordinate: c, Status: statusLine(c, false)}) {
				return false
			}
		}
	}
}

func (t *Tracker) replayMock(ctx context.Context, out chan<- domain.Position) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		c := MockRoute[i%len(MockRoute)]
		if !send(ctx, out, domain.Position{Coordinate: c, Mock: true, Status: statusLine(c, true)}) {
			return
		}
	}
}

func send(ctx context.Context, out chan<- domain.Position, p domain.Position) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- p:
		return true
	}
}

func statusLine(c domain.Coordinate, mock bool) string {
	s := fmt.Sprintf("Lat %.5f, Lng %.5f", c.Lat, c.Lng)
	if mock {
		s += " (mock)"
	}
	return s
}
