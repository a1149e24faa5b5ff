package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/mog-workshop/internal/domain"
)

type draftService interface {
	Draft(ctx context.Context, clientID, workID string, platform domain.Platform) domain.Result[*domain.WorkItem]
	Refine(ctx context.Context, clientID, workID string, platform domain.Platform, feedback string) domain.Result[*domain.WorkItem]
	AnalyzeImage(ctx context.Context, clientID, workID string, data []byte, mimeType string) domain.Result[*domain.WorkItem]
}

// DraftHandler serves copywriting and photo analysis for one work item.
type DraftHandler struct {
	gen            draftService
	maxUploadBytes int64
	log            *slog.Logger
}

// NewDraftHandler creates a DraftHandler.
func NewDraftHandler(gen draftService, maxUploadBytes int64, logger *slog.Logger) *DraftHandler {
	return &DraftHandler{gen: gen, maxUploadBytes: maxUploadBytes, log: logger.With("handler", "draft")}
}

type refineRequest struct {
	Feedback string `json:"feedback"`
}

// generationFailure keeps the unchanged item next to the error so the page
// can go on rendering it.
type generationFailure struct {
	errorResponse
	Work *workResponse `json:"work,omitempty"`
}

// Draft handles POST /api/works/{id}/drafts/{platform}.
func (h *DraftHandler) Draft(w http.ResponseWriter, r *http.Request) {
	clientID, ok := requireClient(w, r)
	if !ok {
		return
	}
	platform, ok := pathPlatform(w, r)
	if !ok {
		return
	}

	h.respond(w, h.gen.Draft(r.Context(), clientID, r.PathValue("id"), platform))
}

// Refine handles POST /api/works/{id}/drafts/{platform}/refine.
func (h *DraftHandler) Refine(w http.ResponseWriter, r *http.Request) {
	clientID, ok := requireClient(w, r)
	if !ok {
		return
	}
	platform, ok := pathPlatform(w, r)
	if !ok {
		return
	}

	var req refineRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	h.respond(w, h.gen.Refine(r.Context(), clientID, r.PathValue("id"), platform, req.Feedback))
}

// AnalyzeImage handles POST /api/works/{id}/image-analysis with a multipart
// "image" part.
func (h *DraftHandler) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	clientID, ok := requireClient(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "image too large")
			return
		}
		writeError(w, http.StatusBadRequest, "image is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.WarnContext(r.Context(), "read upload", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "could not read image")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}

	h.respond(w, h.gen.AnalyzeImage(r.Context(), clientID, r.PathValue("id"), data, mimeType))
}

func (h *DraftHandler) respond(w http.ResponseWriter, res domain.Result[*domain.WorkItem]) {
	if res.OK() {
		writeJSON(w, http.StatusOK, toWorkResponse(res.Value))
		return
	}

	status, body := failureBody(w, res)
	out := generationFailure{errorResponse: body}
	if res.Value != nil {
		item := toWorkResponse(res.Value)
		out.Work = &item
	}
	writeJSON(w, status, out)
}

func pathPlatform(w http.ResponseWriter, r *http.Request) (domain.Platform, bool) {
	p, ok := domain.ParsePlatform(r.PathValue("platform"))
	if !ok {
		writeFailure(w, domain.Fail[struct{}](struct{}{}, domain.NewValidationError("platform", "unknown platform")))
		return "", false
	}
	return p, true
}
