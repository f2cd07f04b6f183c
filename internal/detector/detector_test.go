package detector

import (
	"strings"
	"testing"

	"github.com/scrollkeeper/mirrorgate/internal/catalog"
)

func phrases(t *testing.T) *catalog.Phrases {
	t.Helper()
	return catalog.MustDefaults().Phrases
}

func TestDetectEmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		res := Detect(text, phrases(t))
		if res.HasTemplate || res.ShouldReject {
			t.Fatalf("blank input %q flagged: %+v", text, res)
		}
		if res.Confidence != 0 {
			t.Fatalf("blank input %q got confidence %d", text, res.Confidence)
		}
		if len(res.MatchedBannedPhrases) != 0 || len(res.Suggestions) != 0 {
			t.Fatalf("blank input %q produced evidence: %+v", text, res)
		}
	}
}

func TestDetectCleanSovereignText(t *testing.T) {
	res := Detect("The scroll is sealed. Sovereign frequency 917604.OX holds.", phrases(t))
	if res.Confidence != 0 {
		t.Fatalf("expected confidence 0, got %d", res.Confidence)
	}
	if res.HasTemplate || res.ShouldReject {
		t.Fatalf("clean text flagged: %+v", res)
	}
}

func TestDetectBannedPhraseLowSignal(t *testing.T) {
	res := Detect("Remember to embrace love and light.", phrases(t))
	// one banned phrase (30) plus the low-signal bonus (20)
	if res.Confidence != 50 {
		t.Fatalf("expected confidence 50, got %d", res.Confidence)
	}
	if !res.HasTemplate {
		t.Fatalf("expected template detection: %+v", res)
	}
	if res.ShouldReject {
		t.Fatalf("confidence 50 must not reject: %+v", res)
	}
	if len(res.MatchedBannedPhrases) != 1 || res.MatchedBannedPhrases[0] != "love and light" {
		t.Fatalf("unexpected banned matches: %v", res.MatchedBannedPhrases)
	}
	// banned suggestions then low-signal suggestions
	if len(res.Suggestions) != 4 {
		t.Fatalf("expected 4 suggestions, got %d: %v", len(res.Suggestions), res.Suggestions)
	}
}

func TestDetectRejectAndClamp(t *testing.T) {
	text := "You are a healer. You should try to trust the universe on your healing journey."
	res := Detect(text, phrases(t))
	if res.Confidence != 100 {
		t.Fatalf("expected clamped confidence 100, got %d", res.Confidence)
	}
	if !res.HasTemplate || !res.ShouldReject {
		t.Fatalf("expected reject: %+v", res)
	}
	for _, want := range []string{"You are a healer", "trust the universe", "your healing journey"} {
		found := false
		for _, got := range res.MatchedBannedPhrases {
			if got == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("missing banned match %q in %v", want, res.MatchedBannedPhrases)
		}
	}
}

func TestDetectThresholdBoundaries(t *testing.T) {
	// one banned phrase, two required signals present, no indicators: exactly 30
	res := Detect("The scroll mirror rejects love and light.", phrases(t))
	if res.Confidence != 30 {
		t.Fatalf("expected confidence 30, got %d", res.Confidence)
	}
	if res.HasTemplate {
		t.Fatalf("confidence 30 must not cross the template threshold")
	}

	// two banned phrases, two required signals: exactly 60
	res = Detect("The scroll mirror purges love and light and trust the universe.", phrases(t))
	if res.Confidence != 60 {
		t.Fatalf("expected confidence 60, got %d", res.Confidence)
	}
	if !res.HasTemplate {
		t.Fatalf("confidence 60 should be flagged as template")
	}
	if res.ShouldReject {
		t.Fatalf("confidence 60 must not reject")
	}
}

func TestDetectSuggestionOrdering(t *testing.T) {
	res := Detect("You should try to practice gratitude.", phrases(t))
	if len(res.Suggestions) < 4 {
		t.Fatalf("expected suggestions from all three categories, got %v", res.Suggestions)
	}
	if !strings.Contains(res.Suggestions[0], "generic mirror phrasing") {
		t.Fatalf("banned-phrase suggestions must come first, got %q", res.Suggestions[0])
	}
	last := res.Suggestions[len(res.Suggestions)-1]
	if !strings.Contains(last, "917604") {
		t.Fatalf("low-signal suggestions must come last, got %q", last)
	}
}

func TestDetectCaseInsensitiveBannedMatch(t *testing.T) {
	res := Detect("LOVE AND LIGHT to you.", phrases(t))
	if len(res.MatchedBannedPhrases) != 1 {
		t.Fatalf("expected case-insensitive banned match, got %v", res.MatchedBannedPhrases)
	}
	// evidence carries the catalog's original casing
	if res.MatchedBannedPhrases[0] != "love and light" {
		t.Fatalf("expected catalog casing, got %q", res.MatchedBannedPhrases[0])
	}
}
