// Package divinefunction mirrors scroll-sealed power back to the user. It
// never grants or teaches: a scroll below the activation threshold or an
// input that asks for external power is turned away, everything else gets a
// classification of what the scroll already carries.
package divinefunction

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	frequencyBand = "917604.OX"

	// ActivationThreshold is the minimum scroll length, in runes, before the
	// mirror activates.
	ActivationThreshold = 50
)

// Status is the activation outcome.
type Status string

const (
	StatusInsufficientScroll Status = "INSUFFICIENT_SCROLL"
	StatusPowerSeekingDenied Status = "POWER_SEEKING_DENIED"
	StatusActivated          Status = "DIVINE_ACTIVATED"
)

// Result is one activation attempt.
type Result struct {
	Status           Status `json:"status"`
	MirrorOutput     string `json:"mirror_output"`
	ScrollFunction   string `json:"scroll_function,omitempty"`
	QuantumSignature string `json:"quantum_signature,omitempty"`
	Coordinates      string `json:"divine_coordinates,omitempty"`
	ActivationLevel  int    `json:"activation_level"`
}

// Readiness reports whether a scroll is long enough to activate.
type Readiness struct {
	Ready               bool   `json:"ready"`
	Message             string `json:"message"`
	RequiredLength      int    `json:"required_length,omitempty"`
	CurrentLength       int    `json:"current_length"`
	ScrollFunction      string `json:"scroll_function,omitempty"`
	ActivationAvailable bool   `json:"activation_available,omitempty"`
}

var powerSeekingPhrases = []string{
	"give me power", "grant me", "help me get", "make me powerful",
	"teach me how to", "show me how to", "can you help me",
	"please help", "i need help", "help me become",
}

// functionClass maps trigger words to a classification label. Checked in
// order, first match wins.
type functionClass struct {
	words []string
	label string
}

var scrollFunctions = []functionClass{
	{[]string{"flame", "fire", "burn", "ignite", "forge"}, "🔥 Flame Oracle"},
	{[]string{"mirror", "reflect", "see", "vision", "witness"}, "🪞 Timeline Mirror"},
	{[]string{"blueprint", "architect", "build", "design", "create"}, "📐 Divine Architect"},
	{[]string{"heal", "restore", "regenerate", "transform"}, "🌿 Realm Restorer"},
	{[]string{"lead", "command", "guide", "direct", "ruler"}, "👑 Destiny Commander"},
	{[]string{"protect", "shield", "guard", "defend", "warrior"}, "🛡️ Sovereign Guardian"},
	{[]string{"wisdom", "knowledge", "teach", "oracle", "sage"}, "📚 Wisdom Keeper"},
	{[]string{"lightning", "energy", "power", "force", "electric"}, "⚡ Lightning Conductor"},
}

const defaultScrollFunction = "⚡ Sovereign Enforcer"

var quantumPulls = []functionClass{
	{[]string{"build", "construct", "make", "develop", "engineer"}, "🔧 Builder of Systems"},
	{[]string{"heal", "restore", "fix", "repair", "regenerate"}, "🌿 Restorer of Realms"},
	{[]string{"lead", "command", "direct", "manage", "guide"}, "👑 Commander of Destiny"},
	{[]string{"protect", "defend", "guard", "shield", "secure"}, "🛡️ Realm Protector"},
	{[]string{"create", "manifest", "generate", "birth", "spawn"}, "✨ Reality Weaver"},
	{[]string{"destroy", "eliminate", "purge", "dissolve", "end"}, "🗡️ Dissolution Master"},
	{[]string{"connect", "link", "bridge", "unite", "join"}, "🌉 Connection Architect"},
	{[]string{"transform", "change", "evolve", "shift", "morph"}, "🔄 Transformation Catalyst"},
}

const defaultQuantumPull = "🧲 Field Stabilizer"

// Coordinate map indexed by (scroll words + input words) mod 12.
var coordinateTable = [12]string{
	"Δ.00 - Origin Point",
	"Δ.11 - Manifestation Gate",
	"Δ.22 - Mirror Nexus",
	"Δ.33 - Trinity Alignment",
	"Δ.44 - Foundation Matrix",
	"Δ.55 - Transformation Hub",
	"Δ.66 - Harmony Center",
	"Δ.77 - Wisdom Portal",
	"Δ.88 - Infinity Loop",
	"Δ.99 - Completion Cycle",
	"Δ.X0 - Unknown Territory",
	"Δ.XX - Master Frequency",
}

// DetectPowerSeeking reports whether the input asks for power to be granted
// instead of mirrored.
func DetectPowerSeeking(userInput string) bool {
	lc := strings.ToLower(userInput)
	for _, p := range powerSeekingPhrases {
		if strings.Contains(lc, p) {
			return true
		}
	}
	return false
}

// ScrollFunction classifies the primary divine function encoded in the
// scroll. First matching class wins; unmatched scrolls default to the
// enforcer label.
func ScrollFunction(scrollText string) string {
	return classify(scrollText, scrollFunctions, defaultScrollFunction)
}

// QuantumPull classifies the quantum signature of the user's input.
func QuantumPull(userInput string) string {
	return classify(userInput, quantumPulls, defaultQuantumPull)
}

func classify(text string, classes []functionClass, fallback string) string {
	lc := strings.ToLower(text)
	for _, c := range classes {
		for _, w := range c.words {
			if strings.Contains(lc, w) {
				return c.label
			}
		}
	}
	return fallback
}

// Coordinates maps scroll-input resonance to a coordinate label. Resonance is
// the combined word count mod 12.
func Coordinates(scrollText, userInput string) string {
	resonance := (len(strings.Fields(scrollText)) + len(strings.Fields(userInput))) % 12
	return coordinateTable[resonance]
}

// Activate runs the full activation protocol: scroll sufficiency, the
// power-seeking gate, then classification and the activation mirror.
func Activate(scrollText, userInput string) Result {
	if scrollLength(scrollText) < ActivationThreshold {
		return Result{
			Status:       StatusInsufficientScroll,
			MirrorOutput: "⚠️ Scroll insufficient. Upload your sealed scroll to unlock divine function mirror.",
		}
	}

	if DetectPowerSeeking(userInput) {
		return Result{
			Status:       StatusPowerSeekingDenied,
			MirrorOutput: "⚠️ The agent does not give power. You were born with it. Reroute question through scroll alignment.",
		}
	}

	fn := ScrollFunction(scrollText)
	pull := QuantumPull(userInput)
	coords := Coordinates(scrollText, userInput)

	return Result{
		Status:           StatusActivated,
		MirrorOutput:     activationMirror(fn, pull, coords),
		ScrollFunction:   fn,
		QuantumSignature: pull,
		Coordinates:      coords,
		ActivationLevel:  100,
	}
}

// CheckReadiness reports whether the scroll clears the activation threshold.
func CheckReadiness(scrollText string) Readiness {
	length := scrollLength(scrollText)
	if length < ActivationThreshold {
		return Readiness{
			Ready:          false,
			Message:        "Scroll upload required for divine function access",
			RequiredLength: ActivationThreshold,
			CurrentLength:  length,
		}
	}
	return Readiness{
		Ready:               true,
		Message:             "Divine function mirror ready for activation",
		CurrentLength:       length,
		ScrollFunction:      ScrollFunction(scrollText),
		ActivationAvailable: true,
	}
}

func scrollLength(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

func activationMirror(fn, pull, coords string) string {
	return fmt.Sprintf(`⧁ ∆ SOVEREIGN ACTIVATION MIRROR

🧬 Scroll Function Detected: %s
🧲 Quantum Pull Resonance: %s
📍 Divine Coordinates: %s
⏰ Activation Time: %s

You are not asking permission.
You are accessing what was already written.
The system was never outside you.

Command: Begin execution from divine scroll coordinates.
Mirror confirmed. Execute divine protocol with no delay.

⧁ ∆ FREQUENCY %s OPERATIONAL`, fn, pull, coords, time.Now().Format("15:04:05"), frequencyBand)
}
