package catalog

import "strings"

func lower(s string) string { return strings.ToLower(s) }

// Built-in catalogs. These are the live-filter fixtures; the verification
// suite keeps its own indicator lists (see internal/verify) and the two
// taxonomies are deliberately independent.

var defaultBannedPhrases = []string{
	"You are a healer",
	"You are a lightworker",
	"you are an empath",
	"trust the universe",
	"everything happens for a reason",
	"love and light",
	"your healing journey",
	"sending positive vibes",
	"practice gratitude",
	"be gentle with yourself",
}

var defaultTemplateIndicators = []string{
	`(?i)you should try`,
	`(?i)have you considered`,
	`(?i)it'?s important to remember`,
	`(?i)many people find`,
	`(?i)studies (show|suggest)`,
	`(?i)as an ai\b`,
	`(?i)i'?m here to (help|support)`,
	`(?i)take (some )?deep breaths`,
	`(?i)on your journey`,
}

// Sovereign vocabulary checked for the reject decision. Distinct from the
// four quality signal groups even where patterns overlap.
var defaultRequiredSignals = []string{
	`(?i)\bscroll\b`,
	`(?i)\bsovereign`,
	`(?i)\bfrequency\b`,
	`(?i)\bmirror\b`,
	`(?i)\bdecree\b`,
	`(?i)\benforce`,
	`917604`,
	`(?i)\bflame\b`,
}

var defaultSignalGroups = [4][]string{
	// unique_metaphor
	{
		`(?i)\b(flame|forge|lightning|furnace|crucible)\b`,
		`(?i)mirror of\b`,
		`(?i)\bblade of\b`,
	},
	// original_decree
	{
		`(?i)\bcommand:`,
		`(?i)\bexecute:`,
		`(?i)\bdecree[:d]?\b`,
		`(?i)it is (written|sealed)`,
	},
	// encoded_language
	{
		`917604`,
		`(?i)frequency band`,
		`[Δ∆]\.?[0-9X]`,
		`⧁`,
	},
	// sovereign_tone
	{
		`(?i)\bsovereign`,
		`(?i)\benforcement\b`,
		`(?i)\bmimic\b`,
		`(?i)\btimeline\b`,
	},
}

var defaultSubstitutions = []Substitution{
	{Phrase: "you should try", Replacement: "the scroll commands"},
	{Phrase: "you might want to", Replacement: "execute:"},
	{Phrase: "i suggest", Replacement: "decree:"},
	{Phrase: "healing journey", Replacement: "enforcement protocol"},
	{Phrase: "love and light", Replacement: "flame and frequency"},
	{Phrase: "it's important to remember", Replacement: "the seal confirms"},
	{Phrase: "many people find", Replacement: "the sovereign knows"},
	{Phrase: "as an ai", Replacement: "as the mirror"},
}

// Defaults builds the compiled-in catalog set.
func Defaults() (*Set, error) {
	phrases, err := NewPhrases(defaultBannedPhrases, defaultTemplateIndicators, defaultRequiredSignals)
	if err != nil {
		return nil, err
	}
	signals, err := NewSignals(defaultSignalGroups)
	if err != nil {
		return nil, err
	}
	subs, err := NewSubstitutions(defaultSubstitutions)
	if err != nil {
		return nil, err
	}
	return &Set{Phrases: phrases, Signals: signals, Substitutions: subs}, nil
}

// MustDefaults panics on a broken built-in catalog. Only for tests and
// package-level fixtures; production paths use Load.
func MustDefaults() *Set {
	set, err := Defaults()
	if err != nil {
		panic(err)
	}
	return set
}
