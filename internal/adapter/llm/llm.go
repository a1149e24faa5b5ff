// Package llm adapts hosted language-model APIs to a single text-completion
// call.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/heartmarshall/mog-workshop/internal/config"
	"github.com/heartmarshall/mog-workshop/internal/domain"
)

// ErrEmptyResponse is returned when the model answered without any text.
var ErrEmptyResponse = errors.New("llm: empty response")

// Role of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role Role
	Text string
}

// Image is an inline image attached to the last user message.
type Image struct {
	Data     []byte
	MIMEType string
}

// Request is a single completion request.
type Request struct {
	System    string
	Messages  []Message
	Image     *Image
	MaxTokens int64
}

// Client completes a Request into free text.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// New builds the Client selected by cfg. A provider without an API key gets
// an Unconfigured client, so generation fails closed at call time.
func New(ctx context.Context, cfg config.GenerationConfig) (Client, error) {
	if !cfg.Configured() {
		return Unconfigured{Provider: cfg.Provider}, nil
	}

	switch cfg.Provider {
	case config.ProviderAnthropic:
		return NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.MaxTokens), nil
	case config.ProviderGemini:
		return NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.MaxTokens)
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
	}
}

// Unconfigured is a Client without credentials.
type Unconfigured struct {
	Provider string
}

// Complete always fails with domain.ErrMisconfigured.
func (u Unconfigured) Complete(context.Context, Request) (string, error) {
	return "", fmt.Errorf("llm %s: no api key: %w", u.Provider, domain.ErrMisconfigured)
}

// wrapContextErr tags deadline errors with domain.ErrTimeout.
func wrapContextErr(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	return err
}
