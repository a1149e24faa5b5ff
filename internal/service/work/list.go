package work

import (
	"context"
	"log/slog"
	"sort"

	"github.com/heartmarshall/mog-workshop/internal/adapter/docstore"
	"github.com/heartmarshall/mog-workshop/internal/domain"
)

// List returns every item owned by clientID, most recently updated first.
// On failure the Result carries an empty list.
func (s *Service) List(ctx context.Context, clientID string) domain.Result[[]*domain.WorkItem] {
	empty := []*domain.WorkItem{}
	if clientID == "" {
		return fail(ctx, s, "list", clientID, empty, domain.ErrIdentityUnresolved)
	}

	items, err := s.query(ctx, docstore.Filter{keyClientID: clientID}, clientID)
	if err != nil {
		return fail(ctx, s, "list", clientID, empty, err)
	}
	s.recovered(ctx, clientID)

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].UpdatedAt.Equal(items[j].UpdatedAt) {
			return items[i].UpdatedAt.After(items[j].UpdatedAt)
		}
		return items[i].WorkID < items[j].WorkID
	})

	return domain.Ok(items)
}

// Get returns one item owned by clientID. The lookup is owner-scoped: an
// item with the same work id under another client is never returned.
func (s *Service) Get(ctx context.Context, clientID, workID string) domain.Result[*domain.WorkItem] {
	if err := validateOwner(clientID, workID); err != nil {
		return fail[*domain.WorkItem](ctx, s, "get", clientID, nil, err)
	}

	items, err := s.query(ctx, docstore.Filter{keyClientID: clientID, keyWorkID: workID}, clientID)
	if err != nil {
		return fail[*domain.WorkItem](ctx, s, "get", clientID, nil, err)
	}
	s.recovered(ctx, clientID)

	if len(items) == 0 {
		return fail[*domain.WorkItem](ctx, s, "get", clientID, nil, domain.ErrNotFound)
	}
	return domain.Ok(items[0])
}

// query runs filter and decodes the documents. Documents that fail to decode
// or belong to another client are skipped.
func (s *Service) query(ctx context.Context, filter docstore.Filter, clientID string) ([]*domain.WorkItem, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	docs, err := s.store.Query(ctx, s.collection, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.WorkItem, 0, len(docs))
	for _, doc := range docs {
		item, err := fromDocument(doc)
		if err != nil {
			s.log.WarnContext(ctx, "skipping malformed work document",
				slog.String("client_id", clientID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if item.ClientID != clientID {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
