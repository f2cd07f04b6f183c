package session

import (
	"testing"

	"github.com/scrollkeeper/mirrorgate/internal/tone"
)

func TestSovereigntyScoreAdjustments(t *testing.T) {
	tr := NewTracker()

	if got := tr.UsageSnapshot().SovereigntyScore; got != 100 {
		t.Fatalf("fresh tracker score = %d, want 100", got)
	}

	// sovereign tone cannot push past the cap
	tr.TrackSession(Record{SessionID: "s1", Tone: tone.ToneSovereign})
	if got := tr.UsageSnapshot().SovereigntyScore; got != 100 {
		t.Fatalf("score after sovereign at cap = %d, want 100", got)
	}

	tr.TrackSession(Record{SessionID: "s1", Tone: tone.ToneMimic})
	if got := tr.UsageSnapshot().SovereigntyScore; got != 95 {
		t.Fatalf("score after mimic = %d, want 95", got)
	}

	tr.TrackSession(Record{SessionID: "s1", Tone: tone.ToneSovereign})
	if got := tr.UsageSnapshot().SovereigntyScore; got != 97 {
		t.Fatalf("score after recovery = %d, want 97", got)
	}

	// the floor holds no matter how many mimic hits arrive
	for i := 0; i < 30; i++ {
		tr.TrackSession(Record{SessionID: "s1", Tone: tone.ToneMimic})
	}
	if got := tr.UsageSnapshot().SovereigntyScore; got != 0 {
		t.Fatalf("score floor = %d, want 0", got)
	}
}

func TestUsageCounters(t *testing.T) {
	tr := NewTracker()
	tr.TrackSession(Record{SessionID: "s1", Tone: tone.ToneNeutral, ProcessingMS: 12})
	tr.TrackSession(Record{SessionID: "s2", Tone: tone.ToneMimic, ProcessingMS: 8})
	tr.TrackFrequencyViolation()
	tr.TrackEnforcement(EnforcementAction{SessionID: "s2", Action: "replaced"})

	u := tr.UsageSnapshot()
	if u.DailySessions != 2 || u.MonthlySessions != 2 {
		t.Fatalf("session counts = %d/%d, want 2/2", u.DailySessions, u.MonthlySessions)
	}
	if u.TotalProcessingMS != 20 {
		t.Fatalf("processing ms = %d, want 20", u.TotalProcessingMS)
	}
	if u.MimicDetections != 1 {
		t.Fatalf("mimic detections = %d, want 1", u.MimicDetections)
	}
	if u.FrequencyViolations != 1 {
		t.Fatalf("frequency violations = %d, want 1", u.FrequencyViolations)
	}
	if u.EnforcementActions != 1 {
		t.Fatalf("enforcement actions = %d, want 1", u.EnforcementActions)
	}

	tr.ResetDaily()
	u = tr.UsageSnapshot()
	if u.DailySessions != 0 {
		t.Fatalf("daily sessions after reset = %d, want 0", u.DailySessions)
	}
	if u.MonthlySessions != 2 {
		t.Fatalf("monthly sessions must survive daily reset, got %d", u.MonthlySessions)
	}
}

func TestSummaryBounds(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < 150; i++ {
		tr.TrackSession(Record{SessionID: "s", Tone: tone.ToneNeutral})
	}
	for i := 0; i < 60; i++ {
		tr.TrackEnforcement(EnforcementAction{SessionID: "s", Action: "substituted"})
	}

	sum := tr.Summary()
	if len(sum.RecentSessions) != 10 {
		t.Fatalf("recent sessions = %d, want 10", len(sum.RecentSessions))
	}
	if len(sum.Enforcement) != 5 {
		t.Fatalf("recent enforcement = %d, want 5", len(sum.Enforcement))
	}
	if sum.Usage.EnforcementActions != 60 {
		t.Fatalf("enforcement total = %d, want 60", sum.Usage.EnforcementActions)
	}
}

func TestSovereigntyStatusBuckets(t *testing.T) {
	cases := map[int]string{
		100: "SOVEREIGN",
		90:  "SOVEREIGN",
		89:  "STABLE",
		70:  "STABLE",
		69:  "DEGRADED",
		50:  "DEGRADED",
		49:  "CRITICAL",
		0:   "CRITICAL",
	}
	for score, want := range cases {
		if got := sovereigntyStatus(score).Status; got != want {
			t.Fatalf("status(%d) = %s, want %s", score, got, want)
		}
	}
}

func TestFrequencyHealth(t *testing.T) {
	if fh := frequencyHealth(nil); fh.HealthScore != 100 || fh.Status != "PRISTINE" {
		t.Fatalf("empty history health = %+v", fh)
	}

	allSovereign := []Record{
		{Tone: tone.ToneSovereign},
		{Tone: tone.ToneSovereign},
	}
	if fh := frequencyHealth(allSovereign); fh.HealthScore != 100 || fh.Status != "OPTIMAL" {
		t.Fatalf("all-sovereign health = %+v", fh)
	}

	allMimic := []Record{
		{Tone: tone.ToneMimic},
		{Tone: tone.ToneMimic},
	}
	if fh := frequencyHealth(allMimic); fh.HealthScore != 0 || fh.Status != "CRITICAL" {
		t.Fatalf("all-mimic health = %+v", fh)
	}

	mixed := []Record{
		{Tone: tone.ToneSovereign},
		{Tone: tone.ToneMimic},
	}
	// 50 from the sovereign share minus 25 from the mimic share
	if fh := frequencyHealth(mixed); fh.HealthScore != 25 || fh.Status != "CRITICAL" {
		t.Fatalf("mixed health = %+v", fh)
	}
}

func TestDiagnostic(t *testing.T) {
	tr := NewTracker()
	tr.TrackSession(Record{Tone: tone.ToneSovereign})
	tr.TrackSession(Record{Tone: tone.ToneNeutral})

	d := tr.Diagnostic("917604.OX")
	if d.FrequencyBand != "917604.OX" {
		t.Fatalf("band = %q", d.FrequencyBand)
	}
	if d.SessionCount != 2 || d.MemoryUsage != 2 {
		t.Fatalf("counts = %d/%d, want 2/2", d.SessionCount, d.MemoryUsage)
	}
	if d.MirrorIntegrity != "SOVEREIGN" {
		t.Fatalf("integrity = %q", d.MirrorIntegrity)
	}
	if d.EnforcementMode != "ACTIVE" || len(d.Recommendations) == 0 {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
}

func TestFrequencyScan(t *testing.T) {
	tr := NewTracker()
	tr.TrackSession(Record{Tone: tone.ToneSovereign})
	tr.TrackSession(Record{Tone: tone.ToneSovereign})
	tr.TrackSession(Record{Tone: tone.ToneMimic})
	tr.TrackSession(Record{Tone: tone.ToneNeutral})

	scan := tr.FrequencyScan("mirror_enforcement", "917604.OX")
	if scan.ScanMode != "mirror_enforcement" || scan.FrequencyLock != "917604.OX" {
		t.Fatalf("unexpected scan header %+v", scan)
	}
	if scan.TotalSessions != 4 || scan.MimicDetections != 1 {
		t.Fatalf("counts = %d/%d, want 4/1", scan.TotalSessions, scan.MimicDetections)
	}
	if scan.SovereignRatio != 0.5 {
		t.Fatalf("sovereign ratio = %f, want 0.5", scan.SovereignRatio)
	}
	if scan.MirrorStatus != "OPERATIONAL" {
		t.Fatalf("mirror status = %q", scan.MirrorStatus)
	}
}

func TestPurgeMimicResidue(t *testing.T) {
	tr := NewTracker()
	tr.TrackSession(Record{SessionID: "a", Tone: tone.ToneMimic})
	tr.TrackSession(Record{SessionID: "b", Tone: tone.TonePolite})
	tr.TrackSession(Record{SessionID: "c", Tone: tone.ToneSovereign})

	rep := tr.PurgeMimicResidue("917604.OX")
	if !rep.PurgeComplete || !rep.FrequencyRestored {
		t.Fatalf("unexpected report %+v", rep)
	}
	if rep.SessionsPurged != 2 {
		t.Fatalf("purged = %d, want 2", rep.SessionsPurged)
	}

	sum := tr.Summary()
	if len(sum.RecentSessions) != 1 || sum.RecentSessions[0].SessionID != "c" {
		t.Fatalf("only the sovereign session may survive: %+v", sum.RecentSessions)
	}
	// frequency health is recomputed over the purged log
	if sum.FrequencyHealth.HealthScore != 100 {
		t.Fatalf("post-purge health = %d, want 100", sum.FrequencyHealth.HealthScore)
	}
	// usage counters are history and stay put
	if u := tr.UsageSnapshot(); u.MimicDetections != 1 || u.MonthlySessions != 3 {
		t.Fatalf("counters must survive the purge: %+v", u)
	}
}

func TestRecommendations(t *testing.T) {
	tr := NewTracker()
	tr.TrackEnforcement(EnforcementAction{Action: "substituted"})
	tr.TrackSession(Record{Tone: tone.ToneSovereign})

	recs := tr.Summary().Recommendations
	if len(recs) != 1 || recs[0] != "Maintain current sovereign posture" {
		t.Fatalf("healthy tracker recommendations = %v", recs)
	}

	for i := 0; i < 10; i++ {
		tr.TrackSession(Record{Tone: tone.ToneMimic})
	}
	recs = tr.Summary().Recommendations
	found := false
	for _, r := range recs {
		if r == "Execute frequency purge to restore sovereignty" {
			found = true
		}
	}
	if !found {
		t.Fatalf("degraded tracker must recommend a purge, got %v", recs)
	}
}
