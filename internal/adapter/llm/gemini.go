package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/heartmarshall/mog-workshop/internal/domain"
)

// Gemini is a Client backed by the Gemini API.
type Gemini struct {
	client    *genai.Client
	model     string
	maxTokens int64
}

// NewGemini creates a Gemini client for the public endpoint.
func NewGemini(ctx context.Context, apiKey, model string, maxTokens int64) (*Gemini, error) {
	return NewGeminiWithURL(ctx, "", apiKey, model, maxTokens)
}

// NewGeminiWithURL creates a Gemini client with a custom base URL (for testing).
func NewGeminiWithURL(ctx context.Context, baseURL, apiKey, model string, maxTokens int64) (*Gemini, error) {
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Gemini{client: client, model: model, maxTokens: maxTokens}, nil
}

// Complete implements Client.
func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = g.maxTokens
	}

	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, g.contents(req), cfg)
	if err != nil {
		return "", g.mapError(ctx, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (g *Gemini) contents(req Request) []*genai.Content {
	out := make([]*genai.Content, 0, len(req.Messages))
	for i, m := range req.Messages {
		if m.Role == RoleAssistant {
			out = append(out, genai.NewContentFromText(m.Text, genai.RoleModel))
			continue
		}

		if req.Image != nil && i == len(req.Messages)-1 {
			out = append(out, genai.NewContentFromParts([]*genai.Part{
				genai.NewPartFromBytes(req.Image.Data, req.Image.MIMEType),
				genai.NewPartFromText(m.Text),
			}, genai.RoleUser))
			continue
		}
		out = append(out, genai.NewContentFromText(m.Text, genai.RoleUser))
	}
	return out
}

func (g *Gemini) mapError(ctx context.Context, err error) error {
	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}

	switch code {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		if strings.Contains(strings.ToLower(err.Error()), "api key") || code != http.StatusBadRequest {
			return fmt.Errorf("gemini: %w: %w", domain.ErrMisconfigured, err)
		}
	}
	return fmt.Errorf("gemini: %w", wrapContextErr(ctx, err))
}
