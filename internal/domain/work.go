package domain

import "time"

// Recognised product attributes. Unknown attribute keys are kept as-is.
const (
	FieldName          = "name"
	FieldMaterial      = "material"
	FieldPeriod        = "period"
	FieldSize          = "size"
	FieldDetails       = "details"
	FieldImageAnalysis = "image_analysis"
)

// WorkItem is one in-progress product listing owned by a single client.
type WorkItem struct {
	WorkID         string
	ClientID       string
	Fields         map[string]string
	GeneratedTexts map[Platform]string
	UpdatedAt      time.Time
}

// NewWorkItem returns an empty item with initialized maps.
func NewWorkItem(clientID, workID string) *WorkItem {
	return &WorkItem{
		WorkID:         workID,
		ClientID:       clientID,
		Fields:         map[string]string{},
		GeneratedTexts: map[Platform]string{},
	}
}

// DocKey is the document store key of the item.
func (w *WorkItem) DocKey() string {
	return DocKey(w.ClientID, w.WorkID)
}

// DocKey composes the composite document key for (clientID, workID).
func DocKey(clientID, workID string) string {
	return clientID + "_" + workID
}

// Clone returns a deep copy of the item.
func (w *WorkItem) Clone() *WorkItem {
	c := *w
	c.Fields = make(map[string]string, len(w.Fields))
	for k, v := range w.Fields {
		c.Fields[k] = v
	}
	c.GeneratedTexts = make(map[Platform]string, len(w.GeneratedTexts))
	for k, v := range w.GeneratedTexts {
		c.GeneratedTexts[k] = v
	}
	return &c
}
