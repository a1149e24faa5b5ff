package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/mog-workshop/internal/config"
	"github.com/heartmarshall/mog-workshop/internal/domain"
)

func TestNew_UnconfiguredFailsClosed(t *testing.T) {
	t.Parallel()

	c, err := New(context.Background(), config.GenerationConfig{Provider: config.ProviderAnthropic})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Text: "hi"}}})
	if !errors.Is(err, domain.ErrMisconfigured) {
		t.Errorf("Complete err = %v, want ErrMisconfigured", err)
	}
}

func TestNew_SelectsProvider(t *testing.T) {
	t.Parallel()

	c, err := New(context.Background(), config.GenerationConfig{
		Provider:        config.ProviderAnthropic,
		AnthropicAPIKey: "k",
		AnthropicModel:  "claude-test",
		MaxTokens:       100,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := c.(*Anthropic); !ok {
		t.Errorf("New returned %T, want *Anthropic", c)
	}

	c, err = New(context.Background(), config.GenerationConfig{Provider: "gpt", AnthropicAPIKey: "k"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := c.(Unconfigured); !ok {
		t.Errorf("unknown provider returned %T, want Unconfigured", c)
	}
}

// anthropicServer fakes the Messages endpoint.
func anthropicServer(t *testing.T, status int, text string, gotBody *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if gotBody != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, gotBody)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_test",
			"type":        "message",
			"role":        "assistant",
			"model":       "claude-test",
			"content":     []map[string]any{{"type": "text", "text": text}},
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 10, "output_tokens": 5},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnthropic_Complete(t *testing.T) {
	t.Parallel()

	var body map[string]any
	srv := anthropicServer(t, http.StatusOK, "Handmade tulip pouch", &body)
	c := NewAnthropic("test-key", "claude-test", 512, option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	got, err := c.Complete(context.Background(), Request{
		System: "You write Instagram captions.",
		Messages: []Message{
			{Role: RoleUser, Text: "hello"},
			{Role: RoleAssistant, Text: "hi"},
			{Role: RoleUser, Text: "write"},
		},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Handmade tulip pouch" {
		t.Errorf("got %q", got)
	}
	if body["model"] != "claude-test" {
		t.Errorf("model = %v", body["model"])
	}
	if body["max_tokens"] != float64(512) {
		t.Errorf("max_tokens = %v", body["max_tokens"])
	}
	if msgs, _ := body["messages"].([]any); len(msgs) != 3 {
		t.Errorf("messages = %v", body["messages"])
	}
	if body["system"] == nil {
		t.Error("system prompt not sent")
	}
}

func TestAnthropic_ImageAttachedToLastMessage(t *testing.T) {
	t.Parallel()

	var body map[string]any
	srv := anthropicServer(t, http.StatusOK, "a linen pouch", &body)
	c := NewAnthropic("test-key", "claude-test", 512, option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	_, err := c.Complete(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Text: "describe"}},
		Image:    &Image{Data: []byte{0x89, 'P', 'N', 'G'}, MIMEType: "image/png"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	msgs, _ := body["messages"].([]any)
	first, _ := msgs[0].(map[string]any)
	content, _ := first["content"].([]any)
	if len(content) != 2 {
		t.Fatalf("content blocks = %d, want 2", len(content))
	}
	img, _ := content[0].(map[string]any)
	if img["type"] != "image" {
		t.Errorf("first block type = %v, want image", img["type"])
	}
}

func TestAnthropic_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unauthorized is misconfiguration", func(t *testing.T) {
		t.Parallel()
		srv := anthropicServer(t, http.StatusUnauthorized, "", nil)
		c := NewAnthropic("bad", "claude-test", 512, option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

		_, err := c.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Text: "x"}}})
		if !errors.Is(err, domain.ErrMisconfigured) {
			t.Errorf("err = %v, want ErrMisconfigured", err)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		t.Parallel()
		srv := anthropicServer(t, http.StatusOK, "  ", nil)
		c := NewAnthropic("k", "claude-test", 512, option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

		_, err := c.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Text: "x"}}})
		if !errors.Is(err, ErrEmptyResponse) {
			t.Errorf("err = %v, want ErrEmptyResponse", err)
		}
	})

	t.Run("deadline is timeout", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()
		c := NewAnthropic("k", "claude-test", 512, option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := c.Complete(ctx, Request{Messages: []Message{{Role: RoleUser, Text: "x"}}})
		if !errors.Is(err, domain.ErrTimeout) {
			t.Errorf("err = %v, want ErrTimeout", err)
		}
	})
}

func TestGemini_Complete(t *testing.T) {
	t.Parallel()

	var path string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": "Smartstore listing"}},
				},
				"finishReason": "STOP",
			}},
		})
	}))
	defer srv.Close()

	g, err := NewGeminiWithURL(context.Background(), srv.URL, "test-key", "gemini-test", 256)
	if err != nil {
		t.Fatalf("NewGeminiWithURL: %v", err)
	}

	got, err := g.Complete(context.Background(), Request{
		System:   "You write Smartstore listings.",
		Messages: []Message{{Role: RoleUser, Text: "write"}},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Smartstore listing" {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(path, "gemini-test:generateContent") {
		t.Errorf("path = %q", path)
	}
	if body["systemInstruction"] == nil {
		t.Error("system instruction not sent")
	}
}
