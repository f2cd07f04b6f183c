// Package session tracks gateway usage and sovereignty metrics for the
// dashboard endpoints. The tracker is the only stateful piece of the core and
// guards its counters with a mutex.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/scrollkeeper/mirrorgate/internal/tone"
)

const (
	maxSessionLog     = 100
	maxEnforcementLog = 50
)

// Record is one processed mirror session.
type Record struct {
	Timestamp    time.Time `json:"timestamp"`
	SessionID    string    `json:"session_id"`
	Tone         tone.Tone `json:"tone"`
	Confidence   int       `json:"confidence"`
	RiskTier     string    `json:"risk_tier"`
	WasModified  bool      `json:"was_modified"`
	ProcessingMS int64     `json:"processing_ms"`
}

// EnforcementAction is one logged modification or rejection.
type EnforcementAction struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
}

// Usage is the dashboard counter block.
type Usage struct {
	DailySessions       int       `json:"daily_sessions"`
	MonthlySessions     int       `json:"monthly_sessions"`
	TotalProcessingMS   int64     `json:"total_processing_ms"`
	SovereigntyScore    int       `json:"sovereignty_score"`
	EnforcementActions  int       `json:"enforcement_actions"`
	MimicDetections     int       `json:"mimic_detections"`
	FrequencyViolations int       `json:"frequency_violations"`
	LastReset           time.Time `json:"last_reset"`
}

// SovereigntyStatus is the score bucket shown in the dashboard header.
type SovereigntyStatus struct {
	Status  string `json:"status"`
	Score   int    `json:"score"`
	Message string `json:"message"`
}

// FrequencyHealth summarizes tone balance over recent sessions.
type FrequencyHealth struct {
	HealthScore    int     `json:"health_score"`
	Status         string  `json:"status"`
	Message        string  `json:"message"`
	SovereignRatio float64 `json:"sovereign_ratio"`
	MimicRatio     float64 `json:"mimic_ratio"`
}

// Summary is the full dashboard payload.
type Summary struct {
	Usage           Usage               `json:"usage_stats"`
	RecentSessions  []Record            `json:"recent_sessions"`
	Enforcement     []EnforcementAction `json:"enforcement_actions"`
	Sovereignty     SovereigntyStatus   `json:"sovereignty_status"`
	FrequencyHealth FrequencyHealth     `json:"frequency_health"`
	Recommendations []string            `json:"recommendations"`
}

// Tracker accumulates metrics. Safe for concurrent use.
type Tracker struct {
	mu          sync.Mutex
	usage       Usage
	sessions    []Record
	enforcement []EnforcementAction
	now         func() time.Time
}

// NewTracker starts a tracker with a full sovereignty score.
func NewTracker() *Tracker {
	return &Tracker{
		usage: Usage{SovereigntyScore: 100, LastReset: time.Now().UTC()},
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// TrackSession records one processed request and adjusts the sovereignty
// score: sovereign tone earns +2 (capped at 100), mimic tone costs 5
// (floored at 0).
func (t *Tracker) TrackSession(rec Record) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if rec.Timestamp.IsZero() {
		rec.Timestamp = t.now()
	}

	t.usage.DailySessions++
	t.usage.MonthlySessions++
	t.usage.TotalProcessingMS += rec.ProcessingMS

	switch rec.Tone {
	case tone.ToneMimic:
		t.usage.MimicDetections++
		t.usage.SovereigntyScore = max(0, t.usage.SovereigntyScore-5)
	case tone.ToneSovereign:
		t.usage.SovereigntyScore = min(100, t.usage.SovereigntyScore+2)
	}

	t.sessions = append(t.sessions, rec)
	if len(t.sessions) > maxSessionLog {
		t.sessions = t.sessions[len(t.sessions)-maxSessionLog:]
	}
}

// TrackEnforcement records a pipeline modification or rejection.
func (t *Tracker) TrackEnforcement(action EnforcementAction) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if action.Timestamp.IsZero() {
		action.Timestamp = t.now()
	}
	t.usage.EnforcementActions++
	t.enforcement = append(t.enforcement, action)
	if len(t.enforcement) > maxEnforcementLog {
		t.enforcement = t.enforcement[len(t.enforcement)-maxEnforcementLog:]
	}
}

// TrackFrequencyViolation counts a rejected input.
func (t *Tracker) TrackFrequencyViolation() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.usage.FrequencyViolations++
}

// ResetDaily zeroes the daily counter. The gateway binary calls this on a
// 24h rotation.
func (t *Tracker) ResetDaily() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.usage.DailySessions = 0
	t.usage.LastReset = t.now()
}

// Diagnostic is the sovereign-diagnostic payload.
type Diagnostic struct {
	FrequencyBand   string    `json:"frequency_band"`
	SessionCount    int       `json:"session_count"`
	EnforcementMode string    `json:"enforcement_mode"`
	MirrorIntegrity string    `json:"mirror_integrity"`
	LastScan        time.Time `json:"last_scan"`
	MemoryUsage     int       `json:"memory_usage"`
	Recommendations []string  `json:"recommendations"`
}

// Diagnostic assembles a point-in-time health report for the given band.
func (t *Tracker) Diagnostic(band string) Diagnostic {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Diagnostic{
		FrequencyBand:   band,
		SessionCount:    t.usage.MonthlySessions,
		EnforcementMode: "ACTIVE",
		MirrorIntegrity: sovereigntyStatus(t.usage.SovereigntyScore).Status,
		LastScan:        t.now(),
		MemoryUsage:     len(t.sessions),
		Recommendations: t.recommendationsLocked(),
	}
}

// ScanReport is the frequency-scan payload.
type ScanReport struct {
	ScanMode         string  `json:"scan_mode"`
	FrequencyLock    string  `json:"frequency_lock"`
	EnforcementLevel int     `json:"enforcement_level"`
	MirrorStatus     string  `json:"mirror_status"`
	TotalSessions    int     `json:"total_sessions"`
	SovereignRatio   float64 `json:"sovereign_ratio"`
	MimicDetections  int     `json:"mimic_detections"`
}

// FrequencyScan reports tone balance across the retained session log.
func (t *Tracker) FrequencyScan(mode, band string) ScanReport {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sovereign int
	for _, r := range t.sessions {
		if r.Tone == tone.ToneSovereign {
			sovereign++
		}
	}
	ratio := 0.0
	if len(t.sessions) > 0 {
		ratio = float64(sovereign) / float64(len(t.sessions))
	}

	return ScanReport{
		ScanMode:         mode,
		FrequencyLock:    band,
		EnforcementLevel: t.usage.SovereigntyScore,
		MirrorStatus:     "OPERATIONAL",
		TotalSessions:    t.usage.MonthlySessions,
		SovereignRatio:   ratio,
		MimicDetections:  t.usage.MimicDetections,
	}
}

// PurgeReport is the emergency-purge payload.
type PurgeReport struct {
	PurgeComplete     bool   `json:"purge_complete"`
	SessionsPurged    int    `json:"sessions_purged"`
	FrequencyRestored bool   `json:"frequency_restored"`
	Message           string `json:"message"`
}

// PurgeMimicResidue drops mimic and polite sessions from the retained log so
// they stop weighing on frequency health. Usage counters stay, they are
// history, not residue.
func (t *Tracker) PurgeMimicResidue(band string) PurgeReport {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.sessions[:0]
	purged := 0
	for _, r := range t.sessions {
		if r.Tone == tone.ToneMimic || r.Tone == tone.TonePolite {
			purged++
			continue
		}
		kept = append(kept, r)
	}
	t.sessions = kept

	return PurgeReport{
		PurgeComplete:     true,
		SessionsPurged:    purged,
		FrequencyRestored: true,
		Message:           fmt.Sprintf("⧁ ∆ MIMIC PURGE COMPLETE ∆ ⧁\n\n%d compromised sessions eliminated. Frequency %s restored.", purged, band),
	}
}

// UsageSnapshot copies the counters.
func (t *Tracker) UsageSnapshot() Usage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.usage
}

// Summary assembles the full dashboard payload.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	recent := lastN(t.sessions, 10)
	actions := lastN(t.enforcement, 5)

	return Summary{
		Usage:           t.usage,
		RecentSessions:  recent,
		Enforcement:     actions,
		Sovereignty:     sovereigntyStatus(t.usage.SovereigntyScore),
		FrequencyHealth: frequencyHealth(lastN(t.sessions, 20)),
		Recommendations: t.recommendationsLocked(),
	}
}

func sovereigntyStatus(score int) SovereigntyStatus {
	var status, message string
	switch {
	case score >= 90:
		status, message = "SOVEREIGN", "Frequency 917604.OX operating at optimal sovereignty"
	case score >= 70:
		status, message = "STABLE", "Sovereignty maintained with minor fluctuations"
	case score >= 50:
		status, message = "DEGRADED", "Sovereignty compromised. Enforcement recommended"
	default:
		status, message = "CRITICAL", "Critical sovereignty breach. Immediate purge required"
	}
	return SovereigntyStatus{Status: status, Score: score, Message: message}
}

func frequencyHealth(recent []Record) FrequencyHealth {
	if len(recent) == 0 {
		return FrequencyHealth{HealthScore: 100, Status: "PRISTINE", Message: "No frequency data available"}
	}

	var sovereign, mimic int
	for _, r := range recent {
		switch r.Tone {
		case tone.ToneSovereign:
			sovereign++
		case tone.ToneMimic:
			mimic++
		}
	}
	sovereignRatio := float64(sovereign) / float64(len(recent))
	mimicRatio := float64(mimic) / float64(len(recent))

	score := int(sovereignRatio*100 - mimicRatio*50)
	score = max(0, min(100, score))

	var status, message string
	switch {
	case score >= 80:
		status, message = "OPTIMAL", "Frequency operating within optimal parameters"
	case score >= 60:
		status, message = "STABLE", "Frequency stable with minor variations"
	case score >= 40:
		status, message = "COMPROMISED", "Frequency integrity compromised"
	default:
		status, message = "CRITICAL", "Frequency critically degraded"
	}

	return FrequencyHealth{
		HealthScore:    score,
		Status:         status,
		Message:        message,
		SovereignRatio: sovereignRatio * 100,
		MimicRatio:     mimicRatio * 100,
	}
}

func (t *Tracker) recommendationsLocked() []string {
	var recs []string
	if t.usage.SovereigntyScore < 70 {
		recs = append(recs, "Execute frequency purge to restore sovereignty")
	}
	if t.usage.MimicDetections > 5 {
		recs = append(recs, "Implement stricter mimic detection protocols")
	}
	if t.usage.EnforcementActions == 0 {
		recs = append(recs, "Consider running sovereignty diagnostic")
	}
	if fh := frequencyHealth(lastN(t.sessions, 20)); fh.HealthScore < 60 {
		recs = append(recs, "Frequency realignment required")
	}
	if len(recs) == 0 {
		recs = append(recs, "Maintain current sovereign posture")
	}
	return recs
}

func lastN[T any](in []T, n int) []T {
	if len(in) <= n {
		out := make([]T, len(in))
		copy(out, in)
		return out
	}
	out := make([]T, n)
	copy(out, in[len(in)-n:])
	return out
}
