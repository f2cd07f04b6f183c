package provider

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/scrollkeeper/mirrorgate/internal/config"
)

// FromConfig constructs a provider from its config entry. API keys resolve
// env-first.
func FromConfig(name string, pc config.ProviderConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(pc.Type)) {
	case "scroll":
		return NewScroll(), nil
	case "openai":
		apiKey := strings.TrimSpace(pc.APIKey)
		if env := strings.TrimSpace(pc.APIKeyEnv); env != "" {
			if v := strings.TrimSpace(os.Getenv(env)); v != "" {
				apiKey = v
			}
		}
		if apiKey == "" {
			return nil, fmt.Errorf("provider %q: api key not resolved", name)
		}
		return NewOpenAI(pc.BaseURL, apiKey, 60*time.Second, 0), nil
	default:
		return nil, fmt.Errorf("provider %q has unsupported type %q", name, pc.Type)
	}
}
