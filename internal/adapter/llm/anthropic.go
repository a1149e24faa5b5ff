package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/mog-workshop/internal/domain"
)

// Anthropic is a Client backed by the Anthropic Messages API.
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropic creates an Anthropic client. opts are passed to the SDK.
func NewAnthropic(apiKey, model string, maxTokens int64, opts ...option.RequestOption) *Anthropic {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Complete implements Client.
func (a *Anthropic) Complete(ctx context.Context, req Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = a.maxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: maxTokens,
		Messages:  a.messages(req),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", a.mapError(ctx, err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		b.WriteString(block.Text)
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

func (a *Anthropic) messages(req Request) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(req.Messages))
	for i, m := range req.Messages {
		if m.Role == RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Text)))
			continue
		}

		if req.Image != nil && i == len(req.Messages)-1 {
			out = append(out, anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(req.Image.MIMEType, base64.StdEncoding.EncodeToString(req.Image.Data)),
				anthropic.NewTextBlock(m.Text),
			))
			continue
		}
		out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
	}
	return out
}

func (a *Anthropic) mapError(ctx context.Context, err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("anthropic: %w: %w", domain.ErrMisconfigured, err)
		}
	}
	return fmt.Errorf("anthropic: %w", wrapContextErr(ctx, err))
}
