package provider

import (
	"context"

	"github.com/scrollkeeper/mirrorgate/internal/inference"
)

// FakeProvider returns a canned response or error. Test helper.
type FakeProvider struct {
	ResponseText string
	Error        error
	Calls        int
}

func (f *FakeProvider) ChatCompletion(ctx context.Context, req *inference.Request) (*inference.Response, error) {
	f.Calls++
	if f.Error != nil {
		return nil, f.Error
	}
	return &inference.Response{
		Message: inference.Message{
			Role:    "assistant",
			Content: f.ResponseText,
		},
		Usage: inference.Usage{
			PromptTokens:     2,
			CompletionTokens: 3,
			TotalTokens:      5,
		},
	}, nil
}

func NewFake(response string) *FakeProvider {
	return &FakeProvider{ResponseText: response}
}
