// Package catalog holds the pattern catalogs the mirror pipeline scans with.
// Catalogs are immutable after construction so they can be shared across
// requests without locking.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyCatalog     = errors.New("catalog: phrase and pattern sets must be non-empty")
	ErrSignalGroupCount = errors.New("catalog: signal catalog requires exactly four non-empty groups")
)

// Phrases is the banned-phrase / template-indicator catalog used by the
// template detector. Banned phrases match as case-insensitive substrings;
// indicator and required-signal patterns match as authored (patterns embed
// their own case flags).
type Phrases struct {
	banned     []string
	bannedLC   []string
	indicators []*regexp.Regexp
	required   []*regexp.Regexp
}

// Signals is the four-group stylistic signal catalog used by the quality
// analyzer. Group order is fixed: metaphor, decree, encoded language,
// sovereign tone.
type Signals struct {
	groups [4]signalGroup
}

type signalGroup struct {
	name     string
	patterns []*regexp.Regexp
}

// SignalGroupNames lists the four group names in catalog order.
var SignalGroupNames = [4]string{"unique_metaphor", "original_decree", "encoded_language", "sovereign_tone"}

// Substitution is a single literal phrase rewrite applied by the pipeline.
type Substitution struct {
	Phrase      string
	Replacement string
	re          *regexp.Regexp
}

// Set bundles everything the pipeline needs for one evaluation pass.
type Set struct {
	Phrases       *Phrases
	Signals       *Signals
	Substitutions []Substitution
}

// NewPhrases validates and compiles the detector catalog.
func NewPhrases(banned []string, indicatorPatterns, requiredPatterns []string) (*Phrases, error) {
	if len(banned) == 0 || len(indicatorPatterns) == 0 || len(requiredPatterns) == 0 {
		return nil, ErrEmptyCatalog
	}
	p := &Phrases{
		banned:   dedupe(banned),
		bannedLC: make([]string, 0, len(banned)),
	}
	for _, b := range p.banned {
		p.bannedLC = append(p.bannedLC, lower(b))
	}
	var err error
	if p.indicators, err = compileAll("indicator", indicatorPatterns); err != nil {
		return nil, err
	}
	if p.required, err = compileAll("required_signal", requiredPatterns); err != nil {
		return nil, err
	}
	return p, nil
}

// Banned returns the banned phrases in catalog order.
func (p *Phrases) Banned() []string { return p.banned }

// BannedLower returns the lowercased banned phrases, index-aligned with Banned.
func (p *Phrases) BannedLower() []string { return p.bannedLC }

// Indicators returns the compiled template-indicator patterns.
func (p *Phrases) Indicators() []*regexp.Regexp { return p.indicators }

// Required returns the compiled sovereign-vocabulary patterns used for the
// reject decision.
func (p *Phrases) Required() []*regexp.Regexp { return p.required }

// NewSignals validates and compiles the quality signal catalog. Exactly four
// groups are required, in catalog order.
func NewSignals(groups [4][]string) (*Signals, error) {
	s := &Signals{}
	for i, patterns := range groups {
		if len(patterns) == 0 {
			return nil, ErrSignalGroupCount
		}
		compiled, err := compileAll(SignalGroupNames[i], patterns)
		if err != nil {
			return nil, err
		}
		s.groups[i] = signalGroup{name: SignalGroupNames[i], patterns: compiled}
	}
	return s, nil
}

// Match reports, for each group in order, whether any of its patterns match.
func (s *Signals) Match(text string) [4]bool {
	var out [4]bool
	for i, g := range s.groups {
		for _, re := range g.patterns {
			if re.MatchString(text) {
				out[i] = true
				break
			}
		}
	}
	return out
}

// NewSubstitutions compiles the ordered phrase rewrite list. Phrases match
// case-insensitively as literals.
func NewSubstitutions(pairs []Substitution) ([]Substitution, error) {
	if len(pairs) == 0 {
		return nil, ErrEmptyCatalog
	}
	out := make([]Substitution, len(pairs))
	for i, p := range pairs {
		if p.Phrase == "" {
			return nil, fmt.Errorf("catalog: substitution %d has empty phrase", i)
		}
		out[i] = Substitution{
			Phrase:      p.Phrase,
			Replacement: p.Replacement,
			re:          regexp.MustCompile(`(?i)` + regexp.QuoteMeta(p.Phrase)),
		}
	}
	return out, nil
}

// Apply rewrites all occurrences of the phrase in text.
func (s Substitution) Apply(text string) string {
	return s.re.ReplaceAllString(text, s.Replacement)
}

// fileFormat is the YAML layout of an external catalog file.
type fileFormat struct {
	BannedPhrases      []string `yaml:"banned_phrases"`
	TemplateIndicators []string `yaml:"template_indicators"`
	RequiredSignals    []string `yaml:"required_signals"`
	SignalGroups       struct {
		UniqueMetaphor  []string `yaml:"unique_metaphor"`
		OriginalDecree  []string `yaml:"original_decree"`
		EncodedLanguage []string `yaml:"encoded_language"`
		SovereignTone   []string `yaml:"sovereign_tone"`
	} `yaml:"signal_groups"`
	Substitutions []struct {
		Phrase      string `yaml:"phrase"`
		Replacement string `yaml:"replacement"`
	} `yaml:"substitutions"`
}

// Load reads a catalog set from a YAML file. If path is empty or the file
// doesn't exist, the built-in defaults are returned.
func Load(path string) (*Set, error) {
	if path == "" {
		return Defaults()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults()
		}
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}

	phrases, err := NewPhrases(f.BannedPhrases, f.TemplateIndicators, f.RequiredSignals)
	if err != nil {
		return nil, err
	}
	signals, err := NewSignals([4][]string{
		f.SignalGroups.UniqueMetaphor,
		f.SignalGroups.OriginalDecree,
		f.SignalGroups.EncodedLanguage,
		f.SignalGroups.SovereignTone,
	})
	if err != nil {
		return nil, err
	}
	pairs := make([]Substitution, 0, len(f.Substitutions))
	for _, p := range f.Substitutions {
		pairs = append(pairs, Substitution{Phrase: p.Phrase, Replacement: p.Replacement})
	}
	subs, err := NewSubstitutions(pairs)
	if err != nil {
		return nil, err
	}

	return &Set{Phrases: phrases, Signals: signals, Substitutions: subs}, nil
}

func compileAll(kind string, patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("catalog: compile %s pattern %q: %w", kind, p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		key := lower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
