package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/mog-workshop/internal/domain"
	"github.com/heartmarshall/mog-workshop/internal/transport/middleware"
	"github.com/heartmarshall/mog-workshop/pkg/ctxutil"
)

type workService interface {
	Create(ctx context.Context, clientID string) domain.Result[*domain.WorkItem]
	Get(ctx context.Context, clientID, workID string) domain.Result[*domain.WorkItem]
	List(ctx context.Context, clientID string) domain.Result[[]*domain.WorkItem]
	Save(ctx context.Context, item *domain.WorkItem) domain.Result[*domain.WorkItem]
	Delete(ctx context.Context, clientID, workID string) domain.Result[struct{}]
}

// WorkHandler serves the saved-work endpoints. Every call is scoped to the
// identity on the request context.
type WorkHandler struct {
	works workService
	log   *slog.Logger
}

// NewWorkHandler creates a WorkHandler.
func NewWorkHandler(works workService, logger *slog.Logger) *WorkHandler {
	return &WorkHandler{works: works, log: logger.With("handler", "work")}
}

type workResponse struct {
	ID             string            `json:"id"`
	Fields         map[string]string `json:"fields"`
	GeneratedTexts map[string]string `json:"generated_texts"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type workListResponse struct {
	Works  []workResponse `json:"works"`
	Notice string         `json:"notice,omitempty"`
}

type updateWorkRequest struct {
	Fields         map[string]string `json:"fields"`
	GeneratedTexts map[string]string `json:"generated_texts"`
}

// List handles GET /api/works. A store outage is not an error for the
// page: it gets an empty list, the degraded header and, the first time, a
// notice to show.
func (h *WorkHandler) List(w http.ResponseWriter, r *http.Request) {
	clientID, ok := requireClient(w, r)
	if !ok {
		return
	}

	res := h.works.List(r.Context(), clientID)
	if !res.OK() {
		if res.Kind != domain.KindStoreUnavailable && res.Kind != domain.KindStoreMisconfigured {
			writeFailure(w, res)
			return
		}
		w.Header().Set(middleware.StoreDegradedHeader, "1")
		resp := workListResponse{Works: []workResponse{}}
		if res.Notify {
			resp.Notice = noticeFor(res.Kind)
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp := workListResponse{Works: make([]workResponse, 0, len(res.Value))}
	for _, item := range res.Value {
		resp.Works = append(resp.Works, toWorkResponse(item))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create handles POST /api/works.
func (h *WorkHandler) Create(w http.ResponseWriter, r *http.Request) {
	clientID, ok := requireClient(w, r)
	if !ok {
		return
	}

	res := h.works.Create(r.Context(), clientID)
	if !res.OK() {
		writeFailure(w, res)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkResponse(res.Value))
}

// Get handles GET /api/works/{id}.
func (h *WorkHandler) Get(w http.ResponseWriter, r *http.Request) {
	clientID, ok := requireClient(w, r)
	if !ok {
		return
	}

	res := h.works.Get(r.Context(), clientID, r.PathValue("id"))
	if !res.OK() {
		writeFailure(w, res)
		return
	}
	writeJSON(w, http.StatusOK, toWorkResponse(res.Value))
}

// Update handles PUT /api/works/{id}. Provided maps replace the stored ones
// wholesale; omitted maps are kept. Concurrent edits are last-write-wins.
func (h *WorkHandler) Update(w http.ResponseWriter, r *http.Request) {
	clientID, ok := requireClient(w, r)
	if !ok {
		return
	}

	var req updateWorkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	texts, err := parseGeneratedTexts(req.GeneratedTexts)
	if err != nil {
		writeFailure(w, domain.Fail[struct{}](struct{}{}, err))
		return
	}

	got := h.works.Get(r.Context(), clientID, r.PathValue("id"))
	if !got.OK() {
		writeFailure(w, got)
		return
	}

	item := got.Value
	if req.Fields != nil {
		item.Fields = req.Fields
	}
	if texts != nil {
		item.GeneratedTexts = texts
	}

	res := h.works.Save(r.Context(), item)
	if !res.OK() {
		writeFailure(w, res)
		return
	}
	writeJSON(w, http.StatusOK, toWorkResponse(res.Value))
}

// Delete handles DELETE /api/works/{id}. Deleting a missing item succeeds.
func (h *WorkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	clientID, ok := requireClient(w, r)
	if !ok {
		return
	}

	res := h.works.Delete(r.Context(), clientID, r.PathValue("id"))
	if !res.OK() {
		writeFailure(w, res)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireClient answers 409 identity_unresolved when the request carries no
// resolved identity.
func requireClient(w http.ResponseWriter, r *http.Request) (string, bool) {
	clientID, ok := ctxutil.ClientIDFromCtx(r.Context())
	if !ok {
		writeFailure(w, domain.Fail[struct{}](struct{}{}, domain.ErrIdentityUnresolved))
		return "", false
	}
	return clientID, true
}

func parseGeneratedTexts(in map[string]string) (map[domain.Platform]string, error) {
	if in == nil {
		return nil, nil
	}
	out := make(map[domain.Platform]string, len(in))
	for k, v := range in {
		p, ok := domain.ParsePlatform(k)
		if !ok {
			return nil, domain.NewValidationError("generated_texts."+k, "unknown platform")
		}
		out[p] = v
	}
	return out, nil
}

func toWorkResponse(item *domain.WorkItem) workResponse {
	texts := make(map[string]string, len(item.GeneratedTexts))
	for p, t := range item.GeneratedTexts {
		texts[string(p)] = t
	}
	fields := item.Fields
	if fields == nil {
		fields = map[string]string{}
	}
	return workResponse{
		ID:             item.WorkID,
		Fields:         fields,
		GeneratedTexts: texts,
		UpdatedAt:      item.UpdatedAt,
	}
}
