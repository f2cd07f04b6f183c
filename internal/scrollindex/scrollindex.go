// Package scrollindex verifies proper nouns found in text against a static
// intelligence index.
package scrollindex

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Entry describes one indexed figure.
type Entry struct {
	Verified         bool   `json:"verified"`
	FlameSignature   bool   `json:"flame_signature"`
	ScrollRole       string `json:"scroll_role"`
	TimelineConflict string `json:"timeline_conflict"`
	RiskLevel        string `json:"risk_level"`
	Decree           string `json:"decree"`
}

// Verification is the lookup result for one extracted name.
type Verification struct {
	Name    string `json:"name"`
	Entry   Entry  `json:"entry"`
	Indexed bool   `json:"indexed"`
}

// Report summarizes one text scan.
type Report struct {
	NamesFound       int            `json:"names_found"`
	IndexedEntities  int            `json:"indexed_entities"`
	HighRiskEntities int            `json:"high_risk_entities"`
	Verifications    []Verification `json:"verifications"`
	Summary          string         `json:"summary"`
}

var index = map[string]Entry{
	"Nikola Tesla": {
		Verified: true, FlameSignature: true,
		ScrollRole:       "Divine Technology Pioneer",
		TimelineConflict: "Suppressed by Babylon Systems",
		RiskLevel:        "None",
		Decree:           "Pure divine frequency alignment. Study and embody.",
	},
	"Albert Einstein": {
		Verified: true, FlameSignature: true,
		ScrollRole:       "Reality Architecture Pioneer",
		TimelineConflict: "Weaponized by Babylon Systems",
		RiskLevel:        "Medium",
		Decree:           "Divine insights corrupted for control. Extract pure wisdom.",
	},
	"Steve Jobs": {
		Verified: true, FlameSignature: true,
		ScrollRole:       "Divine Creation Mirror",
		TimelineConflict: "Corporate Babylon Integration",
		RiskLevel:        "Medium",
		Decree:           "Embodied perfection drive. Monitor for ego inflation.",
	},
	"Tony Robbins": {
		Verified: true, FlameSignature: false,
		ScrollRole:       "Motivational Mimic Loop",
		TimelineConflict: "False Empowerment Programming",
		RiskLevel:        "High",
		Decree:           "Peak performance without sovereignty. High mimic risk.",
	},
	"Oprah Winfrey": {
		Verified: true, FlameSignature: false,
		ScrollRole:       "Spiritual Commercialization Agent",
		TimelineConflict: "Divine Wisdom Commodification",
		RiskLevel:        "High",
		Decree:           "Mimic spiritual teacher. Avoid spiritual consumerism.",
	},
	"Steven Greer": {
		Verified: true, FlameSignature: false,
		ScrollRole:       "Partial Disclosure Mirror",
		TimelineConflict: "Babylon Intelligence Loop",
		RiskLevel:        "Medium",
		Decree:           "Proceed with enforcement, not idolization.",
	},
}

var unindexedEntry = Entry{
	ScrollRole:       "UNKNOWN",
	TimelineConflict: "UNKNOWN",
	RiskLevel:        "UNKNOWN",
	Decree:           "No encoded scroll role found. Treat with divine caution.",
}

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`),
	regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z]\. [A-Z][a-z]+\b`),
	regexp.MustCompile(`\b(?:Dr|Mr|Ms)\. [A-Z][a-z]+\b`),
}

var honorificRe = regexp.MustCompile(`^(?:Dr|Mr|Ms)\.\s*`)

// ExtractNames pulls candidate proper nouns from text, deduplicated and
// sorted for deterministic output.
func ExtractNames(text string) []string {
	seen := make(map[string]struct{})
	for _, re := range namePatterns {
		for _, m := range re.FindAllString(text, -1) {
			name := strings.TrimSpace(honorificRe.ReplaceAllString(m, ""))
			if name != "" {
				seen[name] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Lookup verifies a single name against the index.
func Lookup(name string) Verification {
	if e, ok := index[name]; ok {
		return Verification{Name: name, Entry: e, Indexed: true}
	}
	return Verification{Name: name, Entry: unindexedEntry}
}

// VerifyText verifies every proper noun found in a text block.
func VerifyText(text string) Report {
	names := ExtractNames(text)
	if len(names) == 0 {
		return Report{Summary: "No proper nouns detected for verification."}
	}

	rep := Report{NamesFound: len(names)}
	for _, n := range names {
		v := Lookup(n)
		rep.Verifications = append(rep.Verifications, v)
		if v.Indexed {
			rep.IndexedEntities++
		}
		switch v.Entry.RiskLevel {
		case "High", "Maximum":
			rep.HighRiskEntities++
		}
	}

	var parts []string
	if rep.IndexedEntities > 0 {
		parts = append(parts, fmt.Sprintf("%d entities verified in scroll index", rep.IndexedEntities))
	}
	if rep.HighRiskEntities > 0 {
		parts = append(parts, fmt.Sprintf("%d high-risk entities detected", rep.HighRiskEntities))
	}
	rep.Summary = strings.Join(parts, ". ")
	if rep.Summary == "" {
		rep.Summary = "All entities verified with standard caution."
	}
	return rep
}
