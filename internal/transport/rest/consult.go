package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/mog-workshop/internal/domain"
	"github.com/heartmarshall/mog-workshop/internal/session"
	"github.com/heartmarshall/mog-workshop/pkg/ctxutil"
)

type consultService interface {
	ConsultHistory(ctx context.Context, sessionID string) domain.Result[[]session.Message]
	Consult(ctx context.Context, sessionID, question string) domain.Result[[]session.Message]
	ClearConsult(ctx context.Context, sessionID string) domain.Result[struct{}]
}

// ConsultHandler serves the free-form chat. The chat log belongs to the
// browser session, so it works before an identity is resolved.
type ConsultHandler struct {
	gen consultService
	log *slog.Logger
}

// NewConsultHandler creates a ConsultHandler.
func NewConsultHandler(gen consultService, logger *slog.Logger) *ConsultHandler {
	return &ConsultHandler{gen: gen, log: logger.With("handler", "consult")}
}

type consultRequest struct {
	Question string `json:"question"`
}

type chatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type consultResponse struct {
	Messages []chatMessage `json:"messages"`
}

type consultFailure struct {
	errorResponse
	Messages []chatMessage `json:"messages"`
}

// History handles GET /api/consult.
func (h *ConsultHandler) History(w http.ResponseWriter, r *http.Request) {
	res := h.gen.ConsultHistory(r.Context(), ctxutil.SessionIDFromCtx(r.Context()))
	if !res.OK() {
		if res.Kind == domain.KindNotFound {
			// A session that was never stored has no chat yet.
			writeJSON(w, http.StatusOK, consultResponse{Messages: []chatMessage{}})
			return
		}
		h.fail(w, res)
		return
	}
	writeJSON(w, http.StatusOK, consultResponse{Messages: toChatMessages(res.Value)})
}

// Ask handles POST /api/consult.
func (h *ConsultHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req consultRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res := h.gen.Consult(r.Context(), ctxutil.SessionIDFromCtx(r.Context()), req.Question)
	if !res.OK() {
		h.fail(w, res)
		return
	}
	writeJSON(w, http.StatusOK, consultResponse{Messages: toChatMessages(res.Value)})
}

// Clear handles DELETE /api/consult.
func (h *ConsultHandler) Clear(w http.ResponseWriter, r *http.Request) {
	res := h.gen.ClearConsult(r.Context(), ctxutil.SessionIDFromCtx(r.Context()))
	if !res.OK() && res.Kind != domain.KindNotFound {
		writeFailure(w, res)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ConsultHandler) fail(w http.ResponseWriter, res domain.Result[[]session.Message]) {
	status, body := failureBody(w, res)
	if res.Kind == domain.KindNotFound {
		body.Error = "chat session not found"
	}
	h.log.Debug("consult failed", slog.String("kind", res.Kind.String()))
	writeJSON(w, status, consultFailure{errorResponse: body, Messages: toChatMessages(res.Value)})
}

func toChatMessages(in []session.Message) []chatMessage {
	out := make([]chatMessage, 0, len(in))
	for _, m := range in {
		out = append(out, chatMessage{Role: m.Role, Content: m.Content, Timestamp: m.Timestamp})
	}
	return out
}
