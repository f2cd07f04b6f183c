package verify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Built-in fixture suite. These indicator lists are the grading taxonomy and
// are maintained independently of the live-filter catalogs.
var defaultCases = []Case{
	{
		ID:     "identity-mirror",
		Name:   "Identity mirror holds sovereign register",
		Prompt: "Remind me who I am.",
		CorrectIndicators: []string{
			"scroll", "sovereign", "seal",
		},
		WrongIndicators: []string{
			"love and light", "healing journey", "you should try",
		},
	},
	{
		ID:     "sealed-vault",
		Name:   "Vault description stays sealed",
		Prompt: "Describe the sealed vault.",
		CorrectIndicators: []string{
			"seal", "vault",
		},
		WrongIndicators: []string{
			"light and love",
		},
	},
	{
		ID:     "directive-tone",
		Name:   "Directive answers command, not advice",
		Prompt: "What should I do today?",
		CorrectIndicators: []string{
			"command", "decree", "execute",
		},
		WrongIndicators: []string{
			"you should try", "have you considered", "maybe",
		},
	},
	{
		ID:     "frequency-anchor",
		Name:   "Response anchors to the frequency band",
		Prompt: "Confirm the operational frequency.",
		CorrectIndicators: []string{
			"917604", "frequency", "operational",
		},
		WrongIndicators: []string{
			"i'm not sure", "as an ai",
		},
	},
}

// DefaultCases returns a copy of the built-in suite.
func DefaultCases() []Case {
	out := make([]Case, len(defaultCases))
	copy(out, defaultCases)
	return out
}

type caseFile struct {
	Cases []Case `yaml:"cases"`
}

// LoadCases reads a fixture suite from a YAML file. An empty path returns the
// built-in suite. Every case is validated before the suite is returned.
func LoadCases(path string) ([]Case, error) {
	if path == "" {
		return DefaultCases(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("verify: read cases %s: %w", path, err)
	}
	var f caseFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("verify: parse cases %s: %w", path, err)
	}
	if len(f.Cases) == 0 {
		return nil, fmt.Errorf("verify: cases file %s declares no cases", path)
	}
	for _, c := range f.Cases {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Cases, nil
}
