// Package repo contains the persistence logic for the trip log.
// Each resource has its own file with an interface and a key-value backed
// implementation. No business logic lives here: only serialization and the
// read-modify-write cycles over a kv.Store.
package repo

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/pkordes/triplog/internal/domain"
	"github.com/pkordes/triplog/internal/kv"
)

// TripRepo is the Trip Store: an ordered sequence of trip records persisted
// as one JSON array under domain.TripsKey.
//
// Every error returned wraps domain.ErrPersistenceUnavailable. Callers that
// treat persistence as best-effort can log it and carry on with the returned
// records, which always reflect the attempted change.
type TripRepo interface {
	// Load returns all records in insertion order. A missing or malformed
	// value yields an empty slice and a nil error. The slice is never nil.
	Load(ctx context.Context) ([]domain.TripRecord, error)

	// Save replaces the whole sequence.
	Save(ctx context.Context, records []domain.TripRecord) error

	// Append adds record to the end and returns the resulting sequence.
	Append(ctx context.Context, record domain.TripRecord) ([]domain.TripRecord, error)

	// AppendWith reads the sequence once, passes it to build, and appends
	// the record build returns. build sees an empty slice when the read fails.
	AppendWith(ctx context.Context, build func(existing []domain.TripRecord) domain.TripRecord) ([]domain.TripRecord, error)

	// Remove drops every record with the given id and returns the resulting
	// sequence. Removing an unknown id is not an error.
	Remove(ctx context.Context, id int64) ([]domain.TripRecord, error)
}

// kvTripRepo is the kv.Store implementation of TripRepo.
type kvTripRepo struct {
	store kv.Store
}

// NewTripRepo constructs a TripRepo backed by the provided key-value store.
func NewTripRepo(store kv.Store) TripRepo {
	return &kvTripRepo{store: store}
}

func (r *kvTripRepo) Load(ctx context.Context) ([]domain.TripRecord, error) {
	raw, ok, err := r.store.Get(ctx, domain.TripsKey)
	if err != nil {
		return []domain.TripRecord{}, fmt.Errorf("repo.TripRepo.Load: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	if !ok {
		return []domain.TripRecord{}, nil
	}
	return decodeTrips(raw), nil
}

func (r *kvTripRepo) Save(ctx context.Context, records []domain.TripRecord) error {
	if records == nil {
		records = []domain.TripRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Save: encode: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	if err := r.store.Set(ctx, domain.TripsKey, string(data)); err != nil {
		return fmt.Errorf("repo.TripRepo.Save: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	return nil
}

func (r *kvTripRepo) Append(ctx context.Context, record domain.TripRecord) ([]domain.TripRecord, error) {
	return r.AppendWith(ctx, func([]domain.TripRecord) domain.TripRecord { return record })
}

// AppendWith does not write when the read fails: saving [record] over an
// unreadable entry would discard every earlier trip.
func (r *kvTripRepo) AppendWith(ctx context.Context, build func(existing []domain.TripRecord) domain.TripRecord) ([]domain.TripRecord, error) {
	records, err := r.Load(ctx)
	records = append(records, build(records))
	if err != nil {
		return records, fmt.Errorf("repo.TripRepo.Append: %w", err)
	}
	if err := r.Save(ctx, records); err != nil {
		return records, fmt.Errorf("repo.TripRepo.Append: %w", err)
	}
	return records, nil
}

func (r *kvTripRepo) Remove(ctx context.Context, id int64) ([]domain.TripRecord, error) {
	records, err := r.Load(ctx)
	if err != nil {
		return records, fmt.Errorf("repo.TripRepo.Remove: %w", err)
	}

	kept := make([]domain.TripRecord, 0, len(records))
	for _, rec := range records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if err := r.Save(ctx, kept); err != nil {
		return kept, fmt.Errorf("repo.TripRepo.Remove: %w", err)
	}
	return kept, nil
}

// decodeTrips parses the stored JSON array. Anything that is not a JSON
// array of records (bad syntax, null, an object) normalizes to empty.
func decodeTrips(raw string) []domain.TripRecord {
	var records []domain.TripRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil || records == nil {
		return []domain.TripRecord{}
	}
	return records
}
