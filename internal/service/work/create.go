package work

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/mog-workshop/internal/domain"
)

// Create mints a new empty work item for clientID and persists it at once.
func (s *Service) Create(ctx context.Context, clientID string) domain.Result[*domain.WorkItem] {
	if clientID == "" {
		return fail[*domain.WorkItem](ctx, s, "create", clientID, nil, domain.ErrIdentityUnresolved)
	}

	item := domain.NewWorkItem(clientID, s.newID())
	item.UpdatedAt = s.now().UTC()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.store.Put(ctx, s.collection, item.DocKey(), toDocument(item)); err != nil {
		return fail[*domain.WorkItem](ctx, s, "create", clientID, nil, err)
	}
	s.recovered(ctx, clientID)

	s.log.InfoContext(ctx, "work item created",
		slog.String("client_id", clientID),
		slog.String("work_id", item.WorkID),
	)

	return domain.Ok(item)
}
