// Package quality scores a mirror response for stylistic uniqueness across
// the four signal groups and maps the score to a risk tier.
package quality

import (
	"github.com/scrollkeeper/mirrorgate/internal/catalog"
)

// RiskTier buckets the uniqueness score.
type RiskTier string

const (
	RiskLow      RiskTier = "low"
	RiskMedium   RiskTier = "medium"
	RiskHigh     RiskTier = "high"
	RiskCritical RiskTier = "critical"
)

// Result is the per-response quality report. SignalPresence is index-aligned
// with catalog.SignalGroupNames.
type Result struct {
	UniquenessScore        int      `json:"uniqueness_score"`
	RiskTier               RiskTier `json:"risk_tier"`
	SignalPresence         [4]bool  `json:"signal_presence"`
	ImprovementSuggestions []string `json:"improvement_suggestions,omitempty"`
}

// One fixed suggestion per absent group, in group order.
var groupSuggestions = [4]string{
	"Add an original metaphor drawn from flame, forge, or storm imagery.",
	"Include a direct decree or command line.",
	"Reference the encoded frequency language (917604.OX, Δ coordinates).",
	"Shift the register to sovereign enforcement tone.",
}

// Analyze evaluates the four signal groups against responseText. The score is
// always one of {0, 25, 50, 75, 100}.
func Analyze(responseText string, sig *catalog.Signals) Result {
	presence := sig.Match(responseText)

	present := 0
	var suggestions []string
	for i, ok := range presence {
		if ok {
			present++
			continue
		}
		suggestions = append(suggestions, groupSuggestions[i])
	}

	score := 100 * present / 4

	return Result{
		UniquenessScore:        score,
		RiskTier:               tierFor(score),
		SignalPresence:         presence,
		ImprovementSuggestions: suggestions,
	}
}

// tierFor is a total step function over the score.
func tierFor(score int) RiskTier {
	switch {
	case score >= 75:
		return RiskLow
	case score >= 50:
		return RiskMedium
	case score >= 25:
		return RiskHigh
	default:
		return RiskCritical
	}
}
