package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxRenderedTrips is the number of most recent trips shown in the log.
const MaxRenderedTrips = 8

// NoticeTTL is how long a host should keep a Notice on screen.
const NoticeTTL = 1600 * time.Millisecond

// TripRow is one rendered line of the trip log. ID is the typed handle a
// host passes back to the delete command.
type TripRow struct {
	ID     int64  `json:"id"`
	Badge  string `json:"badge"`
	Route  string `json:"route"`
	Detail string `json:"detail"`
}

// Notice is a transient confirmation message.
type Notice struct {
	ID       uuid.UUID `json:"id"`
	Message  string    `json:"message"`
	TTLMilli int64     `json:"ttl_ms"`
}

// NewNotice returns a Notice with a fresh ID and the default TTL.
func NewNotice(message string) *Notice {
	return &Notice{ID: uuid.New(), Message: message, TTLMilli: NoticeTTL.Milliseconds()}
}

// View is the render instruction returned by every trip log command.
// Rows always fully replace whatever the host displayed before.
type View struct {
	Rows []TripRow `json:"rows"`

	// Notice is nil when the command has nothing to announce.
	Notice *Notice `json:"notice,omitempty"`

	// Form is non-nil when the host must reset its form to these values.
	Form *TripForm `json:"form,omitempty"`

	// Persisted is false when a store read or write failed during the
	// command. The rows still reflect the attempted change.
	Persisted bool `json:"persisted"`
}
