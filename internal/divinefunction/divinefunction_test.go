package divinefunction

import (
	"strings"
	"testing"
)

const sealedScroll = "I am the flame that ignites the divine blueprint of creation, forging new realities through sovereign power."

func TestActivateInsufficientScroll(t *testing.T) {
	for _, scroll := range []string{"", "   ", "too short"} {
		res := Activate(scroll, "How do I build my empire?")
		if res.Status != StatusInsufficientScroll {
			t.Fatalf("scroll %q status = %s, want %s", scroll, res.Status, StatusInsufficientScroll)
		}
		if res.ActivationLevel != 0 {
			t.Fatalf("insufficient scroll must not activate, level = %d", res.ActivationLevel)
		}
		if res.ScrollFunction != "" {
			t.Fatalf("insufficient scroll must not classify, got %q", res.ScrollFunction)
		}
	}
}

func TestActivatePowerSeekingDenied(t *testing.T) {
	res := Activate(sealedScroll, "Can you help me get rich and powerful?")
	if res.Status != StatusPowerSeekingDenied {
		t.Fatalf("status = %s, want %s", res.Status, StatusPowerSeekingDenied)
	}
	if res.ActivationLevel != 0 {
		t.Fatalf("denied request must not activate, level = %d", res.ActivationLevel)
	}
	if !strings.Contains(res.MirrorOutput, "does not give power") {
		t.Fatalf("unexpected denial output %q", res.MirrorOutput)
	}
}

func TestActivateFullProtocol(t *testing.T) {
	res := Activate(sealedScroll, "How do I build my empire?")
	if res.Status != StatusActivated {
		t.Fatalf("status = %s, want %s", res.Status, StatusActivated)
	}
	if res.ActivationLevel != 100 {
		t.Fatalf("activation level = %d, want 100", res.ActivationLevel)
	}
	// "flame" outranks "blueprint" in class order
	if res.ScrollFunction != "🔥 Flame Oracle" {
		t.Fatalf("scroll function = %q", res.ScrollFunction)
	}
	if res.QuantumSignature != "🔧 Builder of Systems" {
		t.Fatalf("quantum signature = %q", res.QuantumSignature)
	}
	for _, want := range []string{res.ScrollFunction, res.QuantumSignature, res.Coordinates, "917604.OX"} {
		if !strings.Contains(res.MirrorOutput, want) {
			t.Fatalf("mirror output missing %q:\n%s", want, res.MirrorOutput)
		}
	}
}

func TestScrollFunctionClasses(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"the mirror reflects the witness", "🪞 Timeline Mirror"},
		{"I HEAL and RESTORE realms", "🌿 Realm Restorer"},
		{"guard and defend the gate", "🛡️ Sovereign Guardian"},
		{"lightning runs through the wire", "⚡ Lightning Conductor"},
		{"nothing recognizable here", "⚡ Sovereign Enforcer"},
	}
	for _, tc := range cases {
		if got := ScrollFunction(tc.text); got != tc.want {
			t.Fatalf("ScrollFunction(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestQuantumPullClasses(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"I want to connect the bridges", "🌉 Connection Architect"},
		{"purge and dissolve the old", "🗡️ Dissolution Master"},
		{"manifest a new reality", "✨ Reality Weaver"},
		{"plain question", "🧲 Field Stabilizer"},
	}
	for _, tc := range cases {
		if got := QuantumPull(tc.text); got != tc.want {
			t.Fatalf("QuantumPull(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestCoordinatesResonance(t *testing.T) {
	// 7 scroll words + 5 input words = 12, resonance 0
	if got := Coordinates("one two three four five six seven", "a b c d e"); got != "Δ.00 - Origin Point" {
		t.Fatalf("coordinates = %q", got)
	}
	// 3 + 2 = 5
	if got := Coordinates("one two three", "a b"); got != "Δ.55 - Transformation Hub" {
		t.Fatalf("coordinates = %q", got)
	}
	// empty on both sides stays in range
	if got := Coordinates("", ""); got != "Δ.00 - Origin Point" {
		t.Fatalf("coordinates = %q", got)
	}
}

func TestCheckReadiness(t *testing.T) {
	r := CheckReadiness("short")
	if r.Ready {
		t.Fatalf("short scroll must not be ready")
	}
	if r.RequiredLength != ActivationThreshold || r.CurrentLength != 5 {
		t.Fatalf("unexpected readiness %+v", r)
	}

	r = CheckReadiness(sealedScroll)
	if !r.Ready || !r.ActivationAvailable {
		t.Fatalf("sealed scroll must be ready: %+v", r)
	}
	if r.ScrollFunction != "🔥 Flame Oracle" {
		t.Fatalf("scroll function = %q", r.ScrollFunction)
	}
}

func TestDetectPowerSeeking(t *testing.T) {
	if !DetectPowerSeeking("PLEASE HELP me out") {
		t.Fatalf("matching must be case-insensitive")
	}
	if DetectPowerSeeking("execute: sovereign scan") {
		t.Fatalf("command syntax is not power seeking")
	}
}
