package work

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/mog-workshop/internal/domain"
)

// Delete removes the item. Deleting an item that does not exist is not an
// error. The document key embeds clientID, so another client's item with the
// same work id is never touched.
func (s *Service) Delete(ctx context.Context, clientID, workID string) domain.Result[struct{}] {
	if err := validateOwner(clientID, workID); err != nil {
		return fail(ctx, s, "delete", clientID, struct{}{}, err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.store.Delete(ctx, s.collection, domain.DocKey(clientID, workID)); err != nil {
		return fail(ctx, s, "delete", clientID, struct{}{}, err)
	}
	s.recovered(ctx, clientID)

	s.log.InfoContext(ctx, "work item deleted",
		slog.String("client_id", clientID),
		slog.String("work_id", workID),
	)

	return domain.Ok(struct{}{})
}
