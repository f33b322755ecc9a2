package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkordes/triplog/internal/domain"
	"github.com/pkordes/triplog/internal/repo"
)

// Notice texts for preference changes.
const (
	NoticeConsentSaved   = "Consent saved"
	NoticeConsentRevoked = "Consent revoked"
	NoticeFeedbackSaved  = "Feedback saved locally"
)

// PrefsService manages the theme, consent flag, and feedback survey.
// Read failures degrade to defaults; write failures are returned wrapped in
// domain.ErrPersistenceUnavailable so the handler can flag them.
type PrefsService struct {
	prefs repo.PrefsRepo
}

// NewPrefsService constructs a PrefsService backed by the provided PrefsRepo.
func NewPrefsService(prefs repo.PrefsRepo) *PrefsService {
	return &PrefsService{prefs: prefs}
}

// Theme returns the saved theme, or the caller's system preference when no
// theme has been saved or storage cannot be read.
func (s *PrefsService) Theme(ctx context.Context, prefersLight bool) domain.Theme {
	t, ok, err := s.prefs.Theme(ctx)
	if err != nil || !ok {
		if prefersLight {
			return domain.ThemeLight
		}
		return domain.ThemeDark
	}
	return t
}

// SetTheme persists t. The returned theme is always t.
func (s *PrefsService) SetTheme(ctx context.Context, t domain.Theme) (domain.Theme, error) {
	t = domain.ParseTheme(string(t))
	if err := s.prefs.SetTheme(ctx, t); err != nil {
		return t, fmt.Errorf("service.PrefsService.SetTheme: %w", err)
	}
	return t, nil
}

// ToggleTheme flips the effective theme and persists the result.
func (s *PrefsService) ToggleTheme(ctx context.Context, prefersLight bool) (domain.Theme, error) {
	next := s.Theme(ctx, prefersLight).Toggle()
	if err := s.prefs.SetTheme(ctx, next); err != nil {
		return next, fmt.Errorf("service.PrefsService.ToggleTheme: %w", err)
	}
	return next, nil
}

// Consent reports whether consent was given. Unreadable storage reads as no.
func (s *PrefsService) Consent(ctx context.Context) bool {
	given, err := s.prefs.Consent(ctx)
	return err == nil && given
}

// SetConsent persists the flag and returns the matching notice.
func (s *PrefsService) SetConsent(ctx context.Context, given bool) (*domain.Notice, error) {
	msg := NoticeConsentRevoked
	if given {
		msg = NoticeConsentSaved
	}
	notice := domain.NewNotice(msg)
	if err := s.prefs.SetConsent(ctx, given); err != nil {
		return notice, fmt.Errorf("service.PrefsService.SetConsent: %w", err)
	}
	return notice, nil
}

// Survey returns the saved survey, or an empty one.
func (s *PrefsService) Survey(ctx context.Context) domain.SurveyResponse {
	resp, _ := s.prefs.Survey(ctx)
	return resp
}

// SubmitSurvey validates and persists the survey answers. Unanswered
// questions are stored as 0 so that every q1..q14 key is present.
// Returns domain.ErrValidation for unknown questions or answers outside 0-5.
func (s *PrefsService) SubmitSurvey(ctx context.Context, resp domain.SurveyResponse) (*domain.Notice, error) {
	if err := validateSurvey(resp); err != nil {
		return nil, err
	}

	full := domain.SurveyResponse{Likert: make(map[string]int, domain.LikertQuestions), Comments: resp.Comments}
	for i := 1; i <= domain.LikertQuestions; i++ {
		key := "q" + strconv.Itoa(i)
		full.Likert[key] = resp.Likert[key]
	}

	notice := domain.NewNotice(NoticeFeedbackSaved)
	if err := s.prefs.SetSurvey(ctx, full); err != nil {
		return notice, fmt.Errorf("service.PrefsService.SubmitSurvey: %w", err)
	}
	return notice, nil
}

// validateSurvey enforces:
//   - only keys q1..q14 may carry Likert answers;
//   - each answer is between 0 (unanswered) and 5.
func validateSurvey(resp domain.SurveyResponse) error {
	for k, v := range resp.Likert {
		if !domain.IsLikertKey(k) {
			return fmt.Errorf("%w: unknown question %q", domain.ErrValidation, k)
		}
		if v < 0 || v > 5 {
			return fmt.Errorf("%w: %s must be between 0 and 5", domain.ErrValidation, k)
		}
	}
	return nil
}
