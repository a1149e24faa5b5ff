// Package work implements the work store: owner-scoped CRUD for work items
// on top of a document store. Every operation returns a domain.Result and
// never an unhandled error, so callers can always keep rendering.
package work

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/mog-workshop/internal/adapter/docstore"
	"github.com/heartmarshall/mog-workshop/internal/domain"
)

const defaultTimeout = 5 * time.Second

type docStore interface {
	Put(ctx context.Context, collection, docID string, doc docstore.Document) error
	Query(ctx context.Context, collection string, filter docstore.Filter) ([]docstore.Document, error)
	Delete(ctx context.Context, collection, docID string) error
}

// Service provides work item persistence.
type Service struct {
	store      docStore
	collection string
	timeout    time.Duration
	log        *slog.Logger
	now        func() time.Time
	newID      func() string

	mu     sync.Mutex
	outage map[string]bool // client ids that have already been told about the current outage
}

// NewService creates a new Work service.
func NewService(
	log *slog.Logger,
	store docStore,
	collection string,
	timeout time.Duration,
) *Service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Service{
		store:      store,
		collection: collection,
		timeout:    timeout,
		log:        log.With("service", "work"),
		now:        time.Now,
		newID:      uuid.NewString,
		outage:     make(map[string]bool),
	}
}

// fail turns err into a failed Result. Store outages are reported once per
// client: the first failure is logged at error level and sets Notify, the
// rest are logged at debug until a call for that client succeeds again.
func fail[T any](ctx context.Context, s *Service, op, clientID string, fallback T, err error) domain.Result[T] {
	res := domain.Fail(fallback, err)

	switch res.Kind {
	case domain.KindStoreUnavailable, domain.KindStoreMisconfigured:
		s.mu.Lock()
		first := !s.outage[clientID]
		s.outage[clientID] = true
		s.mu.Unlock()

		res.Notify = first
		if first {
			s.log.ErrorContext(ctx, "document store failure",
				slog.String("op", op),
				slog.String("client_id", clientID),
				slog.String("kind", string(res.Kind)),
				slog.String("error", err.Error()),
			)
		} else {
			s.log.DebugContext(ctx, "document store still failing",
				slog.String("op", op),
				slog.String("client_id", clientID),
				slog.String("error", err.Error()),
			)
		}
	default:
		s.log.DebugContext(ctx, "work operation rejected",
			slog.String("op", op),
			slog.String("client_id", clientID),
			slog.String("kind", string(res.Kind)),
			slog.String("error", err.Error()),
		)
	}

	return res
}

// recovered clears the outage latch for clientID.
func (s *Service) recovered(ctx context.Context, clientID string) {
	s.mu.Lock()
	wasDown := s.outage[clientID]
	delete(s.outage, clientID)
	s.mu.Unlock()

	if wasDown {
		s.log.InfoContext(ctx, "document store recovered", slog.String("client_id", clientID))
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}
