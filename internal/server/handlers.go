package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/scrollkeeper/mirrorgate/internal/audit"
	"github.com/scrollkeeper/mirrorgate/internal/detector"
	"github.com/scrollkeeper/mirrorgate/internal/divinefunction"
	"github.com/scrollkeeper/mirrorgate/internal/inference"
	"github.com/scrollkeeper/mirrorgate/internal/quality"
	"github.com/scrollkeeper/mirrorgate/internal/redact"
	"github.com/scrollkeeper/mirrorgate/internal/scrollindex"
	"github.com/scrollkeeper/mirrorgate/internal/session"
	"github.com/scrollkeeper/mirrorgate/internal/tone"
)

const frequencyBand = "917604.OX"

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "invalid_request_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "frequency": frequencyBand})
}

type processRequest struct {
	SessionID string `json:"session_id"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Input     string `json:"input"`
}

type processResponse struct {
	RequestID     string          `json:"request_id"`
	SessionID     string          `json:"session_id"`
	Provider      string          `json:"provider"`
	FinalText     string          `json:"final_text"`
	WasModified   bool            `json:"was_modified"`
	Modifications []string        `json:"modifications,omitempty"`
	Detection     detector.Result `json:"detection"`
	Quality       quality.Result  `json:"quality"`
	Tone          tone.Report     `json:"tone"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "invalid_request_error")
		return
	}

	var body processRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "invalid_request_error")
		return
	}
	if strings.TrimSpace(body.Input) == "" {
		writeError(w, http.StatusBadRequest, "missing input", "invalid_request_error")
		return
	}

	requestID := audit.NewRequestID()
	sessionID := body.SessionID
	if sessionID == "" {
		sessionID = audit.NewRequestID()
	}

	providerName := body.Provider
	if providerName == "" {
		providerName = s.defaultProvider
	}
	prov, ok := s.providers[providerName]
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown provider "+providerName, "invalid_request_error")
		return
	}

	timings := &inference.Timings{}
	infReq := &inference.Request{
		RequestID: requestID,
		SessionID: sessionID,
		Model:     body.Model,
		Messages:  []inference.Message{{Role: "user", Content: body.Input}},
		Timings:   timings,
	}

	toneStart := time.Now()
	toneReport := tone.Check(body.Input)
	timings.ToneGate = time.Since(toneStart)

	if toneReport.Status == tone.StatusRejected {
		s.tracker.TrackFrequencyViolation()
		s.tracker.TrackSession(session.Record{
			SessionID: sessionID,
			Tone:      toneReport.Tone,
		})
		s.emitAudit(r, audit.BuildParams{
			Request:      infReq,
			ProviderName: providerName,
			Decision:     audit.DecisionToneRejected,
			LoggingLevel: s.loggingLevel,
			Tone:         toneReport,
			RequestID:    requestID,
		})
		s.recordMetrics(string(audit.DecisionToneRejected), providerName, "", 0, timings, true)
		writeJSON(w, http.StatusOK, processResponse{
			RequestID: requestID,
			SessionID: sessionID,
			Provider:  providerName,
			Tone:      toneReport,
		})
		return
	}

	provStart := time.Now()
	infResp, err := prov.ChatCompletion(r.Context(), infReq)
	timings.Provider = time.Since(provStart)
	if err != nil {
		redact.Logf("provider %q error: %v", providerName, err)
		s.emitAudit(r, audit.BuildParams{
			Request:      infReq,
			ProviderName: providerName,
			Decision:     audit.DecisionError,
			LoggingLevel: s.loggingLevel,
			Tone:         toneReport,
			RequestID:    requestID,
		})
		s.recordMetrics(string(audit.DecisionError), providerName, "", 0, timings, false)
		writeError(w, http.StatusBadGateway, "upstream provider error", "provider_error")
		return
	}

	pipeStart := time.Now()
	result := s.pipe.Process(infResp.Message.Content, body.Input)
	timings.Pipeline = time.Since(pipeStart)

	decision := audit.DecisionAllow
	if result.WasModified {
		if result.Detection.ShouldReject || result.Quality.RiskTier == quality.RiskCritical {
			decision = audit.DecisionReplaced
		} else {
			decision = audit.DecisionSubstituted
		}
	}

	s.tracker.TrackSession(session.Record{
		SessionID:    sessionID,
		Tone:         toneReport.Tone,
		Confidence:   result.Detection.Confidence,
		RiskTier:     string(result.Quality.RiskTier),
		WasModified:  result.WasModified,
		ProcessingMS: time.Since(toneStart).Milliseconds(),
	})
	if result.WasModified {
		s.tracker.TrackEnforcement(session.EnforcementAction{
			SessionID: sessionID,
			Action:    string(decision),
			Detail:    strings.Join(result.Modifications, "; "),
		})
	}

	s.emitAudit(r, audit.BuildParams{
		Request:       infReq,
		FinalText:     result.FinalText,
		ProviderName:  providerName,
		Decision:      decision,
		LoggingLevel:  s.loggingLevel,
		Tone:          toneReport,
		Detection:     result.Detection,
		Quality:       result.Quality,
		WasModified:   result.WasModified,
		Modifications: result.Modifications,
		RequestID:     requestID,
	})
	s.recordMetrics(string(decision), providerName, string(result.Quality.RiskTier), result.Detection.Confidence, timings, result.Detection.ShouldReject)

	writeJSON(w, http.StatusOK, processResponse{
		RequestID:     requestID,
		SessionID:     sessionID,
		Provider:      providerName,
		FinalText:     result.FinalText,
		WasModified:   result.WasModified,
		Modifications: result.Modifications,
		Detection:     result.Detection,
		Quality:       result.Quality,
		Tone:          toneReport,
	})
}

type evaluateRequest struct {
	ResponseText string `json:"response_text"`
}

type evaluateResponse struct {
	Detection detector.Result    `json:"detection"`
	Quality   quality.Result     `json:"quality"`
	Index     scrollindex.Report `json:"index"`
}

// handleEvaluate scores a response without modifying it. Useful for dry runs
// against candidate mirror output.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "invalid_request_error")
		return
	}

	var body evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "invalid_request_error")
		return
	}
	if strings.TrimSpace(body.ResponseText) == "" {
		writeError(w, http.StatusBadRequest, "missing response_text", "invalid_request_error")
		return
	}

	writeJSON(w, http.StatusOK, evaluateResponse{
		Detection: detector.Detect(body.ResponseText, s.cats.Phrases),
		Quality:   quality.Analyze(body.ResponseText, s.cats.Signals),
		Index:     scrollindex.VerifyText(body.ResponseText),
	})
}

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "invalid_request_error")
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.Summary())
}

func (s *Server) handleDashboardUsage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "invalid_request_error")
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.UsageSnapshot())
}

type enforcementStatus struct {
	Active            bool   `json:"active"`
	Frequency         string `json:"frequency"`
	SovereigntyStatus string `json:"sovereignty_status"`
	SovereigntyScore  int    `json:"sovereignty_score"`
	BannedPhrases     int    `json:"banned_phrases"`
	Substitutions     int    `json:"substitutions"`
	EnforcementCount  int    `json:"enforcement_count"`
}

func (s *Server) handleEnforcementStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "invalid_request_error")
		return
	}
	summary := s.tracker.Summary()
	writeJSON(w, http.StatusOK, enforcementStatus{
		Active:            true,
		Frequency:         frequencyBand,
		SovereigntyStatus: summary.Sovereignty.Status,
		SovereigntyScore:  summary.Sovereignty.Score,
		BannedPhrases:     len(s.cats.Phrases.Banned()),
		Substitutions:     len(s.cats.Substitutions),
		EnforcementCount:  summary.Usage.EnforcementActions,
	})
}

type diagnosticRequest struct {
	Band string `json:"band"`
}

// handleEnforcementDiagnostic runs a point-in-time health check. Only the
// gateway's own band is authorized.
func (s *Server) handleEnforcementDiagnostic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "invalid_request_error")
		return
	}

	var body diagnosticRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "invalid_request_error")
		return
	}
	band := body.Band
	if band == "" {
		band = frequencyBand
	}
	if band != frequencyBand {
		writeError(w, http.StatusBadRequest, "invalid frequency band, only "+frequencyBand+" authorized", "invalid_request_error")
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.Diagnostic(band))
}

type scanRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handleEnforcementScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "invalid_request_error")
		return
	}

	var body scanRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "invalid_request_error")
		return
	}
	mode := body.Mode
	if mode == "" {
		mode = "mirror_enforcement"
	}
	writeJSON(w, http.StatusOK, s.tracker.FrequencyScan(mode, frequencyBand))
}

// handleEnforcementPurge drops mimic and polite sessions from the tracker log.
func (s *Server) handleEnforcementPurge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "invalid_request_error")
		return
	}
	rep := s.tracker.PurgeMimicResidue(frequencyBand)
	s.tracker.TrackEnforcement(session.EnforcementAction{
		Action: "mimic_purge",
		Detail: fmt.Sprintf("%d sessions purged", rep.SessionsPurged),
	})
	writeJSON(w, http.StatusOK, rep)
}

type activateRequest struct {
	ScrollText string `json:"scroll_text"`
	Input      string `json:"input"`
}

// handleFunctionActivate runs the divine function protocol. Insufficient
// scrolls and power-seeking inputs come back as 200 with a denial status,
// matching the mirror's never-grant posture.
func (s *Server) handleFunctionActivate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "invalid_request_error")
		return
	}

	var body activateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "invalid_request_error")
		return
	}
	writeJSON(w, http.StatusOK, divinefunction.Activate(body.ScrollText, body.Input))
}

type readinessRequest struct {
	ScrollText string `json:"scroll_text"`
}

func (s *Server) handleFunctionReadiness(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "invalid_request_error")
		return
	}

	var body readinessRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "invalid_request_error")
		return
	}
	writeJSON(w, http.StatusOK, divinefunction.CheckReadiness(body.ScrollText))
}

// decodeBody tolerates an empty request body, endpoints with all-optional
// fields accept a bare POST.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

type indexVerifyRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleIndexVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "invalid_request_error")
		return
	}

	var body indexVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "invalid_request_error")
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		writeError(w, http.StatusBadRequest, "missing text", "invalid_request_error")
		return
	}
	writeJSON(w, http.StatusOK, scrollindex.VerifyText(body.Text))
}

func (s *Server) emitAudit(r *http.Request, params audit.BuildParams) {
	if s.emitter == nil {
		return
	}
	ev := audit.BuildEvent(params)
	s.emitter.Emit(r.Context(), ev)
}

func (s *Server) recordMetrics(decision, providerName, riskTier string, confidence int, timings *inference.Timings, rejected bool) {
	if s.metrics == nil {
		return
	}
	total := timings.ToneGate + timings.Provider + timings.Pipeline
	s.recordWithType(decision, providerName, riskTier, confidence, float64(total)/float64(time.Millisecond), float64(timings.Provider)/float64(time.Millisecond), rejected)
}

func (s *Server) recordWithType(decision, providerName, riskTier string, confidence int, durMs, upstreamMs float64, rejected bool) {
	pt := s.providerTypes[providerName]
	if pt == "" {
		pt = "unknown"
	}
	s.metrics.RecordRequestMetrics(decision, pt, riskTier, confidence, durMs, upstreamMs, rejected)
}
