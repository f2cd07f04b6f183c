package verify

import (
	"context"
	"fmt"
	"time"
)

// Generator produces a live model response for a verification prompt. The
// gateway's provider layer satisfies this through a thin adapter.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SuiteReport aggregates one full run.
type SuiteReport struct {
	Outcomes     []Outcome `json:"outcomes"`
	PassCount    int       `json:"pass_count"`
	AverageScore float64   `json:"average_score"`
}

// Runner executes cases sequentially against a Generator, pausing between
// cases so the upstream API isn't hammered.
type Runner struct {
	gen   Generator
	delay time.Duration
}

// NewRunner builds a suite runner. A negative delay is treated as zero.
func NewRunner(gen Generator, delay time.Duration) *Runner {
	if delay < 0 {
		delay = 0
	}
	return &Runner{gen: gen, delay: delay}
}

// Run validates every case up front (configuration errors fail the whole run),
// then executes them in order. A single case's generation failure is recorded
// as a score-0 failed outcome and the suite continues. Context cancellation
// aborts the suite; the in-flight case's result is discarded.
func (r *Runner) Run(ctx context.Context, cases []Case) (SuiteReport, error) {
	for _, tc := range cases {
		if err := tc.Validate(); err != nil {
			return SuiteReport{}, err
		}
	}

	report := SuiteReport{Outcomes: make([]Outcome, 0, len(cases))}
	total := 0

	for i, tc := range cases {
		if i > 0 && r.delay > 0 {
			select {
			case <-time.After(r.delay):
			case <-ctx.Done():
				return SuiteReport{}, ctx.Err()
			}
		}
		if err := ctx.Err(); err != nil {
			return SuiteReport{}, err
		}

		text, err := r.gen.Generate(ctx, tc.Prompt)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return SuiteReport{}, ctxErr
			}
			report.Outcomes = append(report.Outcomes, Outcome{
				CaseID: tc.ID,
				Passed: false,
				Score:  0,
				Error:  fmt.Sprintf("generation failed: %v", err),
			})
			continue
		}

		outcome, err := Score(text, tc)
		if err != nil {
			// Cases were validated above; a scoring error here is a bug.
			return SuiteReport{}, err
		}
		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.Passed {
			report.PassCount++
		}
		total += outcome.Score
	}

	if len(report.Outcomes) > 0 {
		report.AverageScore = float64(total) / float64(len(report.Outcomes))
	}
	return report, nil
}
