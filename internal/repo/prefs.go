package repo

import (
	"context"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/pkordes/triplog/internal/domain"
	"github.com/pkordes/triplog/internal/kv"
)

// PrefsRepo persists the small site-wide settings that live next to the trip
// log: theme, consent flag, and the feedback survey. Like TripRepo, every
// returned error wraps domain.ErrPersistenceUnavailable.
type PrefsRepo interface {
	// Theme returns the saved theme and whether one was saved at all.
	Theme(ctx context.Context) (domain.Theme, bool, error)
	SetTheme(ctx context.Context, t domain.Theme) error

	// Consent returns false for a missing or unrecognized value.
	Consent(ctx context.Context) (bool, error)
	SetConsent(ctx context.Context, given bool) error

	// Survey returns a zero response for a missing or malformed value.
	Survey(ctx context.Context) (domain.SurveyResponse, error)
	SetSurvey(ctx context.Context, s domain.SurveyResponse) error
}

type kvPrefsRepo struct {
	store kv.Store
}

// NewPrefsRepo constructs a PrefsRepo backed by the provided key-value store.
func NewPrefsRepo(store kv.Store) PrefsRepo {
	return &kvPrefsRepo{store: store}
}

func (r *kvPrefsRepo) Theme(ctx context.Context) (domain.Theme, bool, error) {
	raw, ok, err := r.store.Get(ctx, domain.ThemeKey)
	if err != nil {
		return "", false, fmt.Errorf("repo.PrefsRepo.Theme: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	if !ok || raw == "" {
		return "", false, nil
	}
	return domain.ParseTheme(raw), true, nil
}

func (r *kvPrefsRepo) SetTheme(ctx context.Context, t domain.Theme) error {
	if err := r.store.Set(ctx, domain.ThemeKey, string(t)); err != nil {
		return fmt.Errorf("repo.PrefsRepo.SetTheme: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	return nil
}

func (r *kvPrefsRepo) Consent(ctx context.Context) (bool, error) {
	raw, _, err := r.store.Get(ctx, domain.ConsentKey)
	if err != nil {
		return false, fmt.Errorf("repo.PrefsRepo.Consent: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	return raw == "true", nil
}

func (r *kvPrefsRepo) SetConsent(ctx context.Context, given bool) error {
	if err := r.store.Set(ctx, domain.ConsentKey, strconv.FormatBool(given)); err != nil {
		return fmt.Errorf("repo.PrefsRepo.SetConsent: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	return nil
}

// The survey is stored flat, {"q1":3,...,"q14":0,"q15":"text"}, which is the
// layout other readers of the "feedback" key expect.
func (r *kvPrefsRepo) Survey(ctx context.Context) (domain.SurveyResponse, error) {
	out := domain.SurveyResponse{Likert: map[string]int{}}

	raw, ok, err := r.store.Get(ctx, domain.FeedbackKey)
	if err != nil {
		return out, fmt.Errorf("repo.PrefsRepo.Survey: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	if !ok {
		return out, nil
	}

	var flat map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &flat); err != nil {
		return out, nil
	}
	for k, v := range flat {
		if k == "q15" {
			_ = json.Unmarshal(v, &out.Comments)
			continue
		}
		if !domain.IsLikertKey(k) {
			continue
		}
		var n int
		if json.Unmarshal(v, &n) == nil {
			out.Likert[k] = n
		}
	}
	return out, nil
}

func (r *kvPrefsRepo) SetSurvey(ctx context.Context, s domain.SurveyResponse) error {
	flat := make(map[string]any, len(s.Likert)+1)
	for k, v := range s.Likert {
		flat[k] = v
	}
	flat["q15"] = s.Comments

	data, err := json.Marshal(flat)
	if err != nil {
		return fmt.Errorf("repo.PrefsRepo.SetSurvey: encode: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	if err := r.store.Set(ctx, domain.FeedbackKey, string(data)); err != nil {
		return fmt.Errorf("repo.PrefsRepo.SetSurvey: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	return nil
}
