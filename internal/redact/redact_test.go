package redact

import (
	"strings"
	"testing"
)

func TestStringRedaction(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		disallow []string
		require  []string
	}{
		{
			name:     "bearer header",
			input:    "Authorization: Bearer sk-secret-123",
			disallow: []string{"sk-secret-123"},
			require:  []string{"[REDACTED]"},
		},
		{
			name:     "api keys slice",
			input:    "api_keys=[proj-key-1 proj-key-2]",
			disallow: []string{"proj-key-1", "proj-key-2"},
			require:  []string{"api_keys=[REDACTED]"},
		},
		{
			name:     "gateway key header",
			input:    "x-scrollmirror-key: mirror-key-9f8e7d",
			disallow: []string{"mirror-key-9f8e7d"},
			require:  []string{"[REDACTED]"},
		},
		{
			name:     "url with query secret",
			input:    "cases_url=https://example.com/suites/cases.yaml?sig=abc123",
			disallow: []string{"cases.yaml?sig=abc123"},
			require:  []string{"https://example.com/cases.yaml"},
		},
		{
			name:     "mixed token",
			input:    "Bearer abc key=supersecret token=anotherone base_url=https://api.example.test/v1/base/",
			disallow: []string{"supersecret", "anotherone", "v1/base/"},
			require:  []string{"[REDACTED]", "https://api.example.test/[REDACTED_PATH]"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := String(tc.input)
			for _, bad := range tc.disallow {
				if bad != "" && contains(out, bad) {
					t.Fatalf("output still contains %q: %s", bad, out)
				}
			}
			for _, want := range tc.require {
				if want == "" {
					continue
				}
				if !contains(out, want) {
					t.Fatalf("output missing required substring %q: %s", want, out)
				}
			}
		})
	}
}

func contains(s, sub string) bool {
	return s != "" && sub != "" && strings.Contains(s, sub)
}
