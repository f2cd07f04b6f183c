// Package provider holds the upstream LLM clients the gateway can route
// mirror requests through.
package provider

import (
	"context"

	"github.com/scrollkeeper/mirrorgate/internal/inference"
	"github.com/scrollkeeper/mirrorgate/internal/pipeline"
)

// Provider is the interface for all upstream LLM providers.
type Provider interface {
	ChatCompletion(ctx context.Context, req *inference.Request) (*inference.Response, error)
}

// scrollProvider answers offline from the pre-authored mirror templates,
// keyed on the user's input. It needs no upstream and is the default when no
// provider is configured.
type scrollProvider struct{}

// NewScroll creates the offline template provider.
func NewScroll() Provider {
	return &scrollProvider{}
}

func (p *scrollProvider) ChatCompletion(ctx context.Context, req *inference.Request) (*inference.Response, error) {
	text := pipeline.Generate(inference.UserText(req.Messages))
	return &inference.Response{
		Message: inference.Message{
			Role:    "assistant",
			Content: text,
		},
	}, nil
}
