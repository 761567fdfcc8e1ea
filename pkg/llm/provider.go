package llm

import (
	"context"
)

// Message is a chat turn in a provider-agnostic format.
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // overrides the provider default
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// ApplyOptions folds opts over defaults.
func ApplyOptions(defaults Options, opts ...Option) Options {
	for _, opt := range opts {
		opt(&defaults)
	}
	return defaults
}

// LLMProvider is the contract every text generation backend satisfies.
type LLMProvider interface {
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single user prompt.
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
