package work

import (
	"context"
	"fmt"

	"github.com/heartmarshall/mog-workshop/internal/domain"
)

// Save upserts the whole item under its document key and stamps UpdatedAt.
// Concurrent writers to the same item are last-write-wins. On failure the
// Result carries the caller's item unchanged.
func (s *Service) Save(ctx context.Context, item *domain.WorkItem) domain.Result[*domain.WorkItem] {
	if item == nil {
		return fail[*domain.WorkItem](ctx, s, "save", "", nil, domain.NewValidationError("item", "required"))
	}
	if err := validateOwner(item.ClientID, item.WorkID); err != nil {
		return fail(ctx, s, "save", item.ClientID, item, err)
	}

	fields, err := normalizeFields(item.Fields)
	if err != nil {
		return fail(ctx, s, "save", item.ClientID, item, err)
	}
	for p, text := range item.GeneratedTexts {
		if len(text) > MaxGeneratedBytes {
			return fail(ctx, s, "save", item.ClientID, item,
				domain.NewValidationError("generated_texts."+string(p), fmt.Sprintf("max %d bytes", MaxGeneratedBytes)))
		}
	}

	next := item.Clone()
	next.Fields = fields
	next.UpdatedAt = s.now().UTC()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.store.Put(ctx, s.collection, next.DocKey(), toDocument(next)); err != nil {
		return fail(ctx, s, "save", item.ClientID, item, err)
	}
	s.recovered(ctx, item.ClientID)

	return domain.Ok(next)
}

// UpdateFields replaces the attribute map of an existing item.
func (s *Service) UpdateFields(ctx context.Context, clientID, workID string, fields map[string]string) domain.Result[*domain.WorkItem] {
	got := s.Get(ctx, clientID, workID)
	if !got.OK() {
		return got
	}

	item := got.Value
	item.Fields = fields
	return s.Save(ctx, item)
}

// SetGenerated stores text as the latest generated document for platform,
// replacing any previous one.
func (s *Service) SetGenerated(ctx context.Context, clientID, workID string, platform domain.Platform, text string) domain.Result[*domain.WorkItem] {
	if !platform.IsValid() {
		return fail[*domain.WorkItem](ctx, s, "set_generated", clientID, nil, domain.NewValidationError("platform", "unknown platform"))
	}

	got := s.Get(ctx, clientID, workID)
	if !got.OK() {
		return got
	}

	item := got.Value
	item.GeneratedTexts[platform] = text
	return s.Save(ctx, item)
}

// SetField stores a single attribute, keeping the others.
func (s *Service) SetField(ctx context.Context, clientID, workID, key, value string) domain.Result[*domain.WorkItem] {
	got := s.Get(ctx, clientID, workID)
	if !got.OK() {
		return got
	}

	item := got.Value
	item.Fields[key] = value
	return s.Save(ctx, item)
}
