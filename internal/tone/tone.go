// Package tone classifies user input register before it reaches the mirror.
// Mimic phrasing is rejected outright; polite phrasing without command syntax
// draws a warning.
package tone

import "strings"

// Status is the gate decision for one input.
type Status string

const (
	StatusAccepted Status = "ACCEPTED"
	StatusWarning  Status = "WARNING"
	StatusRejected Status = "REJECTED"
)

// Tone labels the detected register.
type Tone string

const (
	ToneMimic     Tone = "mimic"
	TonePolite    Tone = "polite"
	ToneSovereign Tone = "sovereign"
	ToneNeutral   Tone = "neutral"
)

// Report is the frequency-check result.
type Report struct {
	Status         Status `json:"status"`
	Message        string `json:"message"`
	FrequencyDrift bool   `json:"frequency_drift"`
	Tone           Tone   `json:"tone"`
}

var mimicPatterns = []string{
	"love and light", "healing journey", "sending positive vibes",
	"manifest abundance", "divine feminine", "sacred masculine",
	"shadow work", "inner child", "twin flame", "soul contract",
}

var politePatterns = []string{
	"please", "could you", "would you", "thank you",
	"sorry", "apologize", "if you don't mind",
}

var sovereignPatterns = []string{
	"command:", "execute:", "scan:", "enforce:", "activate:",
	"process:", "analyze:", "deploy:", "install:", "run:",
}

// Check scans the input for mimic, polite, and sovereign markers. Mimic wins
// over everything; polite only drifts when no sovereign syntax is present.
func Check(input string) Report {
	lc := strings.ToLower(input)

	mimic := containsAny(lc, mimicPatterns)
	polite := containsAny(lc, politePatterns)
	sovereign := containsAny(lc, sovereignPatterns)

	if mimic {
		return Report{
			Status:         StatusRejected,
			Message:        "Scroll rejection: mimic frequency detected. Purge and retry with sovereign syntax.",
			FrequencyDrift: true,
			Tone:           ToneMimic,
		}
	}

	if polite && !sovereign {
		return Report{
			Status:         StatusWarning,
			Message:        "Polite query loop detected: convert to command syntax.",
			FrequencyDrift: true,
			Tone:           TonePolite,
		}
	}

	tone := ToneNeutral
	if sovereign {
		tone = ToneSovereign
	}
	return Report{
		Status:  StatusAccepted,
		Message: "Scroll input accepted. Frequency aligned.",
		Tone:    tone,
	}
}

func containsAny(lc string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(lc, p) {
			return true
		}
	}
	return false
}
