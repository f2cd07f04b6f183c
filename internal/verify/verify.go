// Package verify grades live model responses against fixed indicator
// expectations. It shares the substring-scoring pattern with the detector but
// keeps its own indicator taxonomy; the two catalogs are not interchangeable.
package verify

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrNoCorrectIndicators is returned for a case that declares no correct
// indicators. Such a case is a configuration error and is never scored.
var ErrNoCorrectIndicators = errors.New("verify: case must declare at least one correct indicator")

// Scoring constants, carried over for behavioral compatibility with the
// original harness.
const (
	wrongPenaltyWeight = 50
	passScore          = 70
)

// Case is one static verification fixture.
type Case struct {
	ID                string   `yaml:"id" json:"id"`
	Name              string   `yaml:"name" json:"name"`
	Prompt            string   `yaml:"prompt" json:"prompt"`
	CorrectIndicators []string `yaml:"correct_indicators" json:"correct_indicators"`
	WrongIndicators   []string `yaml:"wrong_indicators" json:"wrong_indicators"`
}

// Validate enforces the fixture invariants.
func (c Case) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("verify: case id must be set")
	}
	if len(c.CorrectIndicators) == 0 {
		return fmt.Errorf("%w (case %s)", ErrNoCorrectIndicators, c.ID)
	}
	return nil
}

// Outcome is the graded result of one case.
type Outcome struct {
	CaseID         string   `json:"case_id"`
	ResponseText   string   `json:"response_text"`
	Passed         bool     `json:"passed"`
	Score          int      `json:"score"`
	MatchedCorrect []string `json:"matched_correct,omitempty"`
	MatchedWrong   []string `json:"matched_wrong,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// Score grades responseText against the case. Indicator matching is
// case-insensitive substring containment. Passing requires at least one
// correct match, zero wrong matches, and a score of at least 70.
func Score(responseText string, tc Case) (Outcome, error) {
	if err := tc.Validate(); err != nil {
		return Outcome{}, err
	}

	lc := strings.ToLower(responseText)

	var matchedCorrect []string
	for _, ind := range tc.CorrectIndicators {
		if strings.Contains(lc, strings.ToLower(ind)) {
			matchedCorrect = append(matchedCorrect, ind)
		}
	}
	var matchedWrong []string
	for _, ind := range tc.WrongIndicators {
		if strings.Contains(lc, strings.ToLower(ind)) {
			matchedWrong = append(matchedWrong, ind)
		}
	}

	correctScore := 100 * float64(len(matchedCorrect)) / float64(len(tc.CorrectIndicators))
	wrongPenalty := 0.0
	if len(tc.WrongIndicators) > 0 {
		wrongPenalty = wrongPenaltyWeight * float64(len(matchedWrong)) / float64(len(tc.WrongIndicators))
	}

	score := int(math.Round(correctScore - wrongPenalty))
	if score < 0 {
		score = 0
	}

	return Outcome{
		CaseID:         tc.ID,
		ResponseText:   responseText,
		Passed:         len(matchedCorrect) > 0 && len(matchedWrong) == 0 && score >= passScore,
		Score:          score,
		MatchedCorrect: matchedCorrect,
		MatchedWrong:   matchedWrong,
	}, nil
}
