package verify

import (
	"context"
	"errors"
	"testing"
)

// scriptedGenerator answers each prompt from a fixed table.
type scriptedGenerator struct {
	responses map[string]string
	errors    map[string]error
	calls     int
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls++
	if err, ok := g.errors[prompt]; ok {
		return "", err
	}
	return g.responses[prompt], nil
}

func twoCases() []Case {
	return []Case{
		{ID: "a", Prompt: "p1", CorrectIndicators: []string{"scroll"}},
		{ID: "b", Prompt: "p2", CorrectIndicators: []string{"vault"}, WrongIndicators: []string{"love"}},
	}
}

func TestRunnerAllPass(t *testing.T) {
	gen := &scriptedGenerator{responses: map[string]string{
		"p1": "the scroll holds",
		"p2": "the vault is sealed",
	}}
	r := NewRunner(gen, 0)

	report, err := r.Run(context.Background(), twoCases())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.PassCount != 2 {
		t.Fatalf("expected 2 passes, got %d", report.PassCount)
	}
	if report.AverageScore != 100 {
		t.Fatalf("expected average 100, got %.1f", report.AverageScore)
	}
	if gen.calls != 2 {
		t.Fatalf("expected 2 generations, got %d", gen.calls)
	}
}

func TestRunnerContinuesAfterGenerationFailure(t *testing.T) {
	gen := &scriptedGenerator{
		responses: map[string]string{"p2": "the vault is sealed"},
		errors:    map[string]error{"p1": errors.New("upstream down")},
	}
	r := NewRunner(gen, 0)

	report, err := r.Run(context.Background(), twoCases())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Outcomes) != 2 {
		t.Fatalf("expected both outcomes recorded, got %d", len(report.Outcomes))
	}
	failed := report.Outcomes[0]
	if failed.Passed || failed.Score != 0 || failed.Error == "" {
		t.Fatalf("failed generation must yield a score-0 outcome with error: %+v", failed)
	}
	if report.PassCount != 1 {
		t.Fatalf("expected 1 pass, got %d", report.PassCount)
	}
	// the failed case still drags the average down
	if report.AverageScore != 50 {
		t.Fatalf("expected average 50, got %.1f", report.AverageScore)
	}
}

func TestRunnerValidatesBeforeRunning(t *testing.T) {
	gen := &scriptedGenerator{}
	r := NewRunner(gen, 0)

	cases := append(twoCases(), Case{ID: "broken"})
	if _, err := r.Run(context.Background(), cases); !errors.Is(err, ErrNoCorrectIndicators) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("no generation may happen before validation, got %d calls", gen.calls)
	}
}

func TestRunnerAbortsOnCanceledContext(t *testing.T) {
	gen := &scriptedGenerator{responses: map[string]string{"p1": "the scroll holds"}}
	r := NewRunner(gen, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Run(ctx, twoCases()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoadCasesEmptyPathReturnsDefaults(t *testing.T) {
	cases, err := LoadCases("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cases) != len(DefaultCases()) {
		t.Fatalf("expected built-in suite, got %d cases", len(cases))
	}
}
