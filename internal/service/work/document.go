package work

import (
	"fmt"
	"strings"
	"time"

	"github.com/heartmarshall/mog-workshop/internal/adapter/docstore"
	"github.com/heartmarshall/mog-workshop/internal/domain"
)

// Stored document keys. Attribute and generated-text maps are flattened into
// the document under the field. and text. prefixes.
const (
	keyClientID  = "client_id"
	keyWorkID    = "work_id"
	keyUpdatedAt = "updated_at"

	fieldPrefix = "field."
	textPrefix  = "text."
)

func toDocument(item *domain.WorkItem) docstore.Document {
	doc := docstore.Document{
		keyClientID:  item.ClientID,
		keyWorkID:    item.WorkID,
		keyUpdatedAt: item.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	for k, v := range item.Fields {
		doc[fieldPrefix+k] = v
	}
	for p, v := range item.GeneratedTexts {
		doc[textPrefix+string(p)] = v
	}
	return doc
}

func fromDocument(doc docstore.Document) (*domain.WorkItem, error) {
	clientID := doc.String(keyClientID)
	workID := doc.String(keyWorkID)
	if clientID == "" || workID == "" {
		return nil, fmt.Errorf("document missing %s or %s", keyClientID, keyWorkID)
	}

	item := domain.NewWorkItem(clientID, workID)

	if raw := doc.String(keyUpdatedAt); raw != "" {
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("document %s: parse %s: %w", item.DocKey(), keyUpdatedAt, err)
		}
		item.UpdatedAt = ts.UTC()
	}

	for k, v := range doc {
		s, ok := v.(string)
		if !ok {
			continue
		}
		switch {
		case strings.HasPrefix(k, fieldPrefix):
			item.Fields[strings.TrimPrefix(k, fieldPrefix)] = s
		case strings.HasPrefix(k, textPrefix):
			item.GeneratedTexts[domain.Platform(strings.TrimPrefix(k, textPrefix))] = s
		}
	}

	return item, nil
}
