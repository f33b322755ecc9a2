package domain

import "strconv"

// Keys for the preference entries that share the trip store's backend.
const (
	ThemeKey    = "theme"
	ConsentKey  = "consent"
	FeedbackKey = "feedback"
)

// Theme is the site colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps any stored value onto a Theme. Only "light" is light.
func ParseTheme(s string) Theme {
	if s == string(ThemeLight) {
		return ThemeLight
	}
	return ThemeDark
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// LikertQuestions is the number of 1-5 scale questions in the survey (q1..q14).
const LikertQuestions = 14

// SurveyResponse holds the site-wide feedback survey answers. Likert maps
// "q1".."q14" to 0-5 where 0 means unanswered; Comments is the free-text q15.
type SurveyResponse struct {
	Likert   map[string]int `json:"likert"`
	Comments string         `json:"q15"`
}

// IsLikertKey reports whether k names one of the scale questions, "q1".."q14".
func IsLikertKey(k string) bool {
	if len(k) < 2 || k[0] != 'q' {
		return false
	}
	n, err := strconv.Atoi(k[1:])
	return err == nil && n >= 1 && n <= LikertQuestions && "q"+strconv.Itoa(n) == k
}
