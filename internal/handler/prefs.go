package handler

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/pkordes/triplog/internal/domain"
)

// ThemeResponse is the body of the theme endpoints.
type ThemeResponse struct {
	Theme     domain.Theme `json:"theme"`
	Persisted bool         `json:"persisted"`
}

// ConsentResponse is the body of the consent endpoints.
type ConsentResponse struct {
	Consent   bool           `json:"consent"`
	Notice    *domain.Notice `json:"notice,omitempty"`
	Persisted bool           `json:"persisted"`
}

// SurveySubmitResponse is the body of POST /survey.
type SurveySubmitResponse struct {
	Notice    *domain.Notice `json:"notice"`
	Persisted bool           `json:"persisted"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}

type consentRequest struct {
	Consent *bool `json:"consent"`
}

// GetTheme handles GET /prefs/theme. ?prefers=light reports the client's
// system preference, used when no theme has been saved.
func (s *Server) GetTheme(w http.ResponseWriter, r *http.Request) {
	t := s.prefs.Theme(r.Context(), prefersLight(r))
	writeJSON(w, http.StatusOK, ThemeResponse{Theme: t, Persisted: true})
}

// PutTheme handles PUT /prefs/theme.
func (s *Server) PutTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestError(w, err)
		return
	}
	if req.Theme != string(domain.ThemeLight) && req.Theme != string(domain.ThemeDark) {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", `theme must be "light" or "dark"`)
		return
	}

	t, err := s.prefs.SetTheme(r.Context(), domain.Theme(req.Theme))
	writeJSON(w, http.StatusOK, ThemeResponse{Theme: t, Persisted: s.bestEffort(r, "set theme", err)})
}

// ToggleTheme handles POST /prefs/theme/toggle.
func (s *Server) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	t, err := s.prefs.ToggleTheme(r.Context(), prefersLight(r))
	writeJSON(w, http.StatusOK, ThemeResponse{Theme: t, Persisted: s.bestEffort(r, "toggle theme", err)})
}

// GetConsent handles GET /prefs/consent.
func (s *Server) GetConsent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ConsentResponse{Consent: s.prefs.Consent(r.Context()), Persisted: true})
}

// PutConsent handles PUT /prefs/consent.
func (s *Server) PutConsent(w http.ResponseWriter, r *http.Request) {
	var req consentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestError(w, err)
		return
	}
	if req.Consent == nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "consent is required")
		return
	}

	notice, err := s.prefs.SetConsent(r.Context(), *req.Consent)
	writeJSON(w, http.StatusOK, ConsentResponse{
		Consent:   *req.Consent,
		Notice:    notice,
		Persisted: s.bestEffort(r, "set consent", err),
	})
}

// GetSurvey handles GET /survey.
func (s *Server) GetSurvey(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.prefs.Survey(r.Context()))
}

// PostSurvey handles POST /survey.
func (s *Server) PostSurvey(w http.ResponseWriter, r *http.Request) {
	var req domain.SurveyResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestError(w, err)
		return
	}

	notice, err := s.prefs.SubmitSurvey(r.Context(), req)
	if errors.Is(err, domain.ErrValidation) {
		validationError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, SurveySubmitResponse{Notice: notice, Persisted: s.bestEffort(r, "submit survey", err)})
}

// bestEffort logs a persistence failure and reports whether the write landed.
// Any other error is logged as well; the caller still answers with the
// in-memory result.
func (s *Server) bestEffort(r *http.Request, op string, err error) bool {
	if err == nil {
		return true
	}
	s.log.WarnContext(r.Context(), "preference not persisted", "op", op, "error", err)
	return false
}

func prefersLight(r *http.Request) bool {
	return r.URL.Query().Get("prefers") == string(domain.ThemeLight)
}
