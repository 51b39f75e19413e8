package provider

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// NewAnthropicClient returns a client with SDK retries disabled; a failed
// model call surfaces to the caller. With an empty apiKey the SDK reads
// ANTHROPIC_API_KEY from the environment.
func NewAnthropicClient(apiKey string, opts ...option.RequestOption) *anthropic.Client {
	base := []option.RequestOption{option.WithMaxRetries(0)}
	if apiKey != "" {
		base = append(base, option.WithAPIKey(apiKey))
	}
	c := anthropic.NewClient(append(base, opts...)...)
	return &c
}

const DefaultModel = anthropic.Model("claude-sonnet-4-20250514")
const APIVersion = "2023-06-01"
