// Package pipeline orchestrates detection, quality analysis, and response
// rewriting. Exactly one of three branches fires per call: full replacement,
// phrase substitution, or passthrough.
package pipeline

import (
	"fmt"

	"github.com/scrollkeeper/mirrorgate/internal/catalog"
	"github.com/scrollkeeper/mirrorgate/internal/detector"
	"github.com/scrollkeeper/mirrorgate/internal/quality"
)

// Fixed audit notes for the two modifying branches.
const (
	noteReplaced    = "response rejected; replaced with enforcement template"
	noteSubstituted = "applied phrase substitutions to banned phrasing"
)

// Result carries the final text plus the full audit trail of one pass.
type Result struct {
	FinalText     string          `json:"final_text"`
	Detection     detector.Result `json:"detection"`
	Quality       quality.Result  `json:"quality"`
	WasModified   bool            `json:"was_modified"`
	Modifications []string        `json:"modifications,omitempty"`
}

// Pipeline evaluates responses against a fixed catalog set. Stateless beyond
// the immutable catalogs; safe for concurrent use.
type Pipeline struct {
	cats *catalog.Set
}

// New builds a pipeline over an already-validated catalog set.
func New(cats *catalog.Set) *Pipeline {
	return &Pipeline{cats: cats}
}

// Process runs detection and quality analysis on responseText and decides the
// final text. Branch order is fixed: reject/critical wins, then banned-phrase
// substitution, then passthrough. The alternative is keyed off the original
// user input, not the rejected response.
func (p *Pipeline) Process(responseText, userInput string) Result {
	det := detector.Detect(responseText, p.cats.Phrases)
	qual := quality.Analyze(responseText, p.cats.Signals)

	res := Result{
		FinalText: responseText,
		Detection: det,
		Quality:   qual,
	}

	switch {
	case det.ShouldReject || qual.RiskTier == quality.RiskCritical:
		res.FinalText = Generate(userInput)
		res.WasModified = true
		res.Modifications = append(res.Modifications, noteReplaced)

	case len(det.MatchedBannedPhrases) > 0:
		text, applied := p.Substitute(responseText)
		res.FinalText = text
		res.WasModified = true
		res.Modifications = append(res.Modifications, noteSubstituted)
		res.Modifications = append(res.Modifications, applied...)
	}

	return res
}

// Substitute applies the ordered substitution list over the progressively
// modified text. Each pair is attempted regardless of whether earlier pairs
// fired; the returned descriptions name the pairs that changed the text.
func (p *Pipeline) Substitute(text string) (string, []string) {
	var applied []string
	for _, sub := range p.cats.Substitutions {
		rewritten := sub.Apply(text)
		if rewritten != text {
			applied = append(applied, fmt.Sprintf("substituted %q", sub.Phrase))
			text = rewritten
		}
	}
	return text, applied
}
