// Package generation drafts marketplace copy, analyses product photos and
// runs the consult chat through a hosted language model.
package generation

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/mog-workshop/internal/adapter/llm"
	"github.com/heartmarshall/mog-workshop/internal/domain"
	"github.com/heartmarshall/mog-workshop/internal/session"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultHistoryLimit  = 10
	maxStoredChatHistory = 100
)

type completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

type workStore interface {
	Get(ctx context.Context, clientID, workID string) domain.Result[*domain.WorkItem]
	SetGenerated(ctx context.Context, clientID, workID string, platform domain.Platform, text string) domain.Result[*domain.WorkItem]
	SetField(ctx context.Context, clientID, workID, key, value string) domain.Result[*domain.WorkItem]
}

type sessionStore interface {
	Get(ctx context.Context, id string) (*session.SessionData, error)
	Update(ctx context.Context, data *session.SessionData) error
}

// Options tunes the generation service.
type Options struct {
	Timeout             time.Duration
	HistoryMessageLimit int
	HistoryTokenLimit   int
}

// Service provides generation operations.
type Service struct {
	llm      completer
	works    workStore
	sessions sessionStore
	opts     Options
	log      *slog.Logger
}

// NewService creates a new Generation service.
func NewService(
	log *slog.Logger,
	llm completer,
	works workStore,
	sessions sessionStore,
	opts Options,
) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.HistoryMessageLimit <= 0 {
		opts.HistoryMessageLimit = defaultHistoryLimit
	}
	return &Service{
		llm:      llm,
		works:    works,
		sessions: sessions,
		opts:     opts,
		log:      log.With("service", "generation"),
	}
}

// complete runs one model call under the service timeout.
func (s *Service) complete(ctx context.Context, op string, req llm.Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := time.Now()
	text, err := s.llm.Complete(ctx, req)
	if err != nil {
		s.log.WarnContext(ctx, "generation failed",
			slog.String("op", op),
			slog.String("kind", string(domain.GenerationKindOf(err))),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return "", err
	}

	s.log.InfoContext(ctx, "generation completed",
		slog.String("op", op),
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("chars", len([]rune(text))),
	)
	return text, nil
}

// genFail wraps a generation error into a Result carrying fallback.
func genFail[T any](fallback T, err error) domain.Result[T] {
	return domain.Result[T]{Value: fallback, Kind: domain.GenerationKindOf(err), Err: err}
}
