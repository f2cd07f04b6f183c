// Package audit assembles and delivers per-request enforcement events. Events
// are emitted off the request path through a bounded queue so sink latency
// never slows down mirror traffic.
package audit

import (
	"encoding/json"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/scrollkeeper/mirrorgate/internal/detector"
	"github.com/scrollkeeper/mirrorgate/internal/inference"
	"github.com/scrollkeeper/mirrorgate/internal/quality"
	"github.com/scrollkeeper/mirrorgate/internal/redact"
	"github.com/scrollkeeper/mirrorgate/internal/tone"
)

// Decision is the outcome of a request from the gateway's perspective.
type Decision string

const (
	DecisionAllow        Decision = "allow"
	DecisionSubstituted  Decision = "substituted"
	DecisionReplaced     Decision = "replaced"
	DecisionToneRejected Decision = "tone_rejected"
	DecisionError        Decision = "error_provider"
)

// Preview carries truncated request/response text, gated by the configured
// logging level.
type Preview struct {
	Prompt string `json:"prompt,omitempty"`
	Output string `json:"output,omitempty"`
}

// Enforcement summarizes what the pipeline decided for one response.
type Enforcement struct {
	HasTemplate     bool     `json:"has_template"`
	Confidence      int      `json:"confidence"`
	ShouldReject    bool     `json:"should_reject"`
	UniquenessScore int      `json:"uniqueness_score"`
	RiskTier        string   `json:"risk_tier"`
	BannedPhrases   []string `json:"banned_phrases,omitempty"`
	WasModified     bool     `json:"was_modified"`
	Modifications   []string `json:"modifications,omitempty"`
	ToneStatus      string   `json:"tone_status,omitempty"`
	ToneDrift       bool     `json:"tone_drift,omitempty"`
}

// TimingMs captures per-stage latency in milliseconds.
type TimingMs struct {
	Provider float64 `json:"provider"`
	Pipeline float64 `json:"pipeline"`
	Total    float64 `json:"total"`
}

// Event is the canonical audit payload.
type Event struct {
	Version     string      `json:"version"`
	Timestamp   time.Time   `json:"timestamp"`
	RequestID   string      `json:"request_id"`
	SessionID   string      `json:"session_id,omitempty"`
	Provider    string      `json:"provider"`
	Model       string      `json:"model,omitempty"`
	Decision    Decision    `json:"decision"`
	Enforcement Enforcement `json:"enforcement"`
	Preview     Preview     `json:"preview"`
	TimingMs    TimingMs    `json:"timing_ms"`
}

// BuildParams collects inputs needed to assemble an audit event.
type BuildParams struct {
	Request       *inference.Request
	FinalText     string
	ProviderName  string
	Decision      Decision
	LoggingLevel  string
	Tone          tone.Report
	Detection     detector.Result
	Quality       quality.Result
	WasModified   bool
	Modifications []string
	RequestID     string
}

// BuildEvent creates a canonical audit event for one processed request.
func BuildEvent(params BuildParams) *Event {
	if params.Request == nil {
		return nil
	}

	providerMs := durationMillisFromTimings(params.Request.Timings, func(t *inference.Timings) time.Duration {
		return t.Provider
	})
	pipelineMs := durationMillisFromTimings(params.Request.Timings, func(t *inference.Timings) time.Duration {
		return t.Pipeline
	})
	toneMs := durationMillisFromTimings(params.Request.Timings, func(t *inference.Timings) time.Duration {
		return t.ToneGate
	})

	promptPreview, outputPreview := buildPreviews(params.LoggingLevel, params.Request, params.FinalText)

	return &Event{
		Version:   "1",
		Timestamp: time.Now().UTC(),
		RequestID: ensureRequestID(params.RequestID),
		SessionID: params.Request.SessionID,
		Provider:  params.ProviderName,
		Model:     params.Request.Model,
		Decision:  params.Decision,
		Enforcement: Enforcement{
			HasTemplate:     params.Detection.HasTemplate,
			Confidence:      params.Detection.Confidence,
			ShouldReject:    params.Detection.ShouldReject,
			UniquenessScore: params.Quality.UniquenessScore,
			RiskTier:        string(params.Quality.RiskTier),
			BannedPhrases:   cloneStrings(params.Detection.MatchedBannedPhrases),
			WasModified:     params.WasModified,
			Modifications:   cloneStrings(params.Modifications),
			ToneStatus:      string(params.Tone.Status),
			ToneDrift:       params.Tone.FrequencyDrift,
		},
		Preview: Preview{
			Prompt: promptPreview,
			Output: outputPreview,
		},
		TimingMs: TimingMs{
			Provider: providerMs,
			Pipeline: pipelineMs,
			Total:    providerMs + pipelineMs + toneMs,
		},
	}
}

// LogEvent prints a redacted JSON representation of the event.
func LogEvent(ev *Event) {
	if ev == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		redact.Logf("audit: failed to marshal event: %v", err)
		return
	}
	redact.Logf("audit: %s", string(data))
}

// NewRequestID mints a request identifier.
func NewRequestID() string {
	return uuid.NewString()
}

func ensureRequestID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func durationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func durationMillisFromTimings(t *inference.Timings, pick func(*inference.Timings) time.Duration) float64 {
	if t == nil || pick == nil {
		return 0
	}
	return durationMillis(pick(t))
}

var (
	emailRegex = regexp.MustCompile(`(?i)[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	tokenRegex = regexp.MustCompile(`[A-Za-z0-9_\-]{20,}`)
)

func buildPreviews(level string, req *inference.Request, finalText string) (string, string) {
	if level == "" {
		level = "metadata"
	}

	var promptPreview, outputPreview string
	switch level {
	case "full":
		promptPreview = redact.String(truncate(inference.UserText(req.Messages), 500))
		outputPreview = redact.String(truncate(finalText, 500))
	case "redacted":
		promptPreview = redact.String(truncate(simpleRedact(inference.UserText(req.Messages)), 500))
		outputPreview = redact.String(truncate(simpleRedact(finalText), 500))
	default:
		// metadata-only: no previews
	}
	return promptPreview, outputPreview
}

func simpleRedact(s string) string {
	s = emailRegex.ReplaceAllString(s, "[REDACTED_EMAIL]")
	s = tokenRegex.ReplaceAllString(s, "[REDACTED_TOKEN]")
	return s
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
