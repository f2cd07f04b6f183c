package quality

import (
	"testing"

	"github.com/scrollkeeper/mirrorgate/internal/catalog"
)

func signals(t *testing.T) *catalog.Signals {
	t.Helper()
	return catalog.MustDefaults().Signals
}

func TestAnalyzeScoreLevels(t *testing.T) {
	cases := []struct {
		name      string
		text      string
		wantScore int
		wantTier  RiskTier
	}{
		{
			name:      "all four groups",
			text:      "⧁ Decree: the flame mirror of sovereign frequency band 917604 holds.",
			wantScore: 100,
			wantTier:  RiskLow,
		},
		{
			name:      "three groups",
			text:      "Decree: the flame burns for the sovereign.",
			wantScore: 75,
			wantTier:  RiskLow,
		},
		{
			name:      "two groups",
			text:      "The flame burns. Sovereign will prevails.",
			wantScore: 50,
			wantTier:  RiskMedium,
		},
		{
			name:      "one group",
			text:      "The sovereign path is open.",
			wantScore: 25,
			wantTier:  RiskHigh,
		},
		{
			name:      "no groups",
			text:      "Have a nice day.",
			wantScore: 0,
			wantTier:  RiskCritical,
		},
		{
			name:      "empty text",
			text:      "",
			wantScore: 0,
			wantTier:  RiskCritical,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Analyze(tc.text, signals(t))
			if res.UniquenessScore != tc.wantScore {
				t.Fatalf("score = %d, want %d (presence %v)", res.UniquenessScore, tc.wantScore, res.SignalPresence)
			}
			if res.RiskTier != tc.wantTier {
				t.Fatalf("tier = %s, want %s", res.RiskTier, tc.wantTier)
			}
		})
	}
}

func TestAnalyzeSuggestionsPerAbsentGroup(t *testing.T) {
	// metaphor and sovereign tone present, decree and encoded absent
	res := Analyze("The flame burns. Sovereign will prevails.", signals(t))
	if len(res.ImprovementSuggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %v", res.ImprovementSuggestions)
	}
	if res.ImprovementSuggestions[0] != groupSuggestions[1] {
		t.Fatalf("first suggestion should target the decree group, got %q", res.ImprovementSuggestions[0])
	}
	if res.ImprovementSuggestions[1] != groupSuggestions[2] {
		t.Fatalf("second suggestion should target the encoded group, got %q", res.ImprovementSuggestions[1])
	}

	full := Analyze("⧁ Decree: the flame mirror of sovereign frequency band 917604 holds.", signals(t))
	if len(full.ImprovementSuggestions) != 0 {
		t.Fatalf("no suggestions expected for a full-signal response, got %v", full.ImprovementSuggestions)
	}
}

func TestAnalyzePresenceAlignment(t *testing.T) {
	res := Analyze("917604 frequency band only.", signals(t))
	want := [4]bool{false, false, true, false}
	if res.SignalPresence != want {
		t.Fatalf("presence = %v, want %v", res.SignalPresence, want)
	}
}

func TestTierBoundaries(t *testing.T) {
	tiers := map[int]RiskTier{
		100: RiskLow,
		75:  RiskLow,
		50:  RiskMedium,
		25:  RiskHigh,
		0:   RiskCritical,
	}
	for score, want := range tiers {
		if got := tierFor(score); got != want {
			t.Fatalf("tierFor(%d) = %s, want %s", score, got, want)
		}
	}
}
