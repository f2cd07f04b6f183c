// Package detector scores candidate mirror responses for template phrasing.
// Detection is pure string/regex matching over an immutable catalog; safe for
// concurrent use.
package detector

import (
	"strings"

	"github.com/scrollkeeper/mirrorgate/internal/catalog"
)

// Scoring constants. These are calibration values carried over from the
// original middleware; tune with care, the thresholds below depend on them.
const (
	weightBannedPhrase = 30
	weightIndicator    = 15
	weightLowSignal    = 20
	minRequiredSignals = 2
	templateThreshold  = 30 // confidence above this → template detected
	rejectThreshold    = 60 // confidence above this → reject the response
	maxConfidence      = 100
)

// Result is the per-response detection report.
type Result struct {
	HasTemplate          bool     `json:"has_template"`
	Confidence           int      `json:"confidence"`
	MatchedBannedPhrases []string `json:"matched_banned_phrases,omitempty"`
	Suggestions          []string `json:"suggestions,omitempty"`
	ShouldReject         bool     `json:"should_reject"`
}

// Fixed suggestion pairs, appended per contributing category in category
// order: banned phrases, template indicators, low sovereign signal.
var (
	bannedSuggestions = []string{
		"Remove generic mirror phrasing; speak from the scroll, not about it.",
		"Replace low-authority statements with direct decree language.",
	}
	indicatorSuggestions = []string{
		"Drop advisory template constructions such as \"you should try\".",
		"Issue commands instead of suggestions.",
	}
	lowSignalSuggestions = []string{
		"Work sovereign vocabulary into the response (scroll, frequency, decree).",
		"Anchor the response to the 917604.OX frequency band.",
	}
)

// Detect scans responseText against the phrase catalog. Empty or blank input
// yields a zero report: no matches, confidence 0, nothing to reject.
func Detect(responseText string, cat *catalog.Phrases) Result {
	if strings.TrimSpace(responseText) == "" {
		return Result{}
	}

	lc := strings.ToLower(responseText)

	var matched []string
	banned := cat.Banned()
	for i, b := range cat.BannedLower() {
		if strings.Contains(lc, b) {
			matched = append(matched, banned[i])
		}
	}

	indicatorHits := 0
	for _, re := range cat.Indicators() {
		if re.MatchString(responseText) {
			indicatorHits++
		}
	}

	signalHits := 0
	for _, re := range cat.Required() {
		if re.MatchString(responseText) {
			signalHits++
		}
	}

	confidence := weightBannedPhrase*len(matched) + weightIndicator*indicatorHits
	if signalHits < minRequiredSignals {
		confidence += weightLowSignal
	}
	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	var suggestions []string
	if len(matched) > 0 {
		suggestions = append(suggestions, bannedSuggestions...)
	}
	if indicatorHits > 0 {
		suggestions = append(suggestions, indicatorSuggestions...)
	}
	if signalHits < minRequiredSignals {
		suggestions = append(suggestions, lowSignalSuggestions...)
	}

	return Result{
		HasTemplate:          confidence > templateThreshold,
		Confidence:           confidence,
		MatchedBannedPhrases: matched,
		Suggestions:          suggestions,
		ShouldReject:         confidence > rejectThreshold,
	}
}
