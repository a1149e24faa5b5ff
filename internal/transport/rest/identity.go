package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/mog-workshop/internal/config"
	"github.com/heartmarshall/mog-workshop/internal/identity"
	"github.com/heartmarshall/mog-workshop/internal/session"
	"github.com/heartmarshall/mog-workshop/internal/transport/middleware"
	"github.com/heartmarshall/mog-workshop/pkg/ctxutil"
)

type identityResolver interface {
	Resolve(ctx context.Context, sc *identity.SessionContext, src identity.Sources) identity.Resolution
	Confirm(ctx context.Context, sc *identity.SessionContext, src identity.Sources) identity.Resolution
}

type sessionStore interface {
	Create(ctx context.Context, data *session.SessionData) error
	Get(ctx context.Context, id string) (*session.SessionData, error)
	Update(ctx context.Context, data *session.SessionData) error
}

type resolveFunc func(ctx context.Context, sc *identity.SessionContext, src identity.Sources) identity.Resolution

// IdentityHandler serves client identity resolution.
type IdentityHandler struct {
	resolver identityResolver
	sessions sessionStore
	cfg      config.IdentityConfig
	secure   bool
	log      *slog.Logger
}

// NewIdentityHandler creates an IdentityHandler. secure marks the durable
// cookie Secure.
func NewIdentityHandler(
	resolver identityResolver,
	sessions sessionStore,
	cfg config.IdentityConfig,
	secure bool,
	logger *slog.Logger,
) *IdentityHandler {
	return &IdentityHandler{
		resolver: resolver,
		sessions: sessions,
		cfg:      cfg,
		secure:   secure,
		log:      logger.With("handler", "identity"),
	}
}

type identityResponse struct {
	State          string `json:"state"`
	ClientID       string `json:"client_id,omitempty"`
	Source         string `json:"source"`
	CanonicalQuery string `json:"canonical_query,omitempty"`
	Degraded       bool   `json:"degraded,omitempty"`
	DegradedReason string `json:"degraded_reason,omitempty"`
}

// Resolve handles GET /api/identity. It never mints an identity.
func (h *IdentityHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.resolver.Resolve)
}

// Confirm handles POST /api/identity/confirm, the explicit user action that
// mints an identity when none can be recovered.
func (h *IdentityHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.resolver.Confirm)
}

func (h *IdentityHandler) serve(w http.ResponseWriter, r *http.Request, resolve resolveFunc) {
	ctx := r.Context()
	sid := ctxutil.SessionIDFromCtx(ctx)
	if sid == "" {
		writeError(w, http.StatusInternalServerError, "session missing")
		return
	}

	data, persist := h.loadSession(ctx, sid)
	if !persist {
		// Session memory is unreachable; the id the page already holds
		// stands in for it.
		if id, ok := ctxutil.ClientIDFromCtx(ctx); ok {
			data.ClientID = id
		}
	}

	page := newPageURL(r, h.cfg.QueryParam, h.cfg.LegacyParams())
	durable := &cookieStore{
		r:      r,
		name:   h.cfg.DurableCookie,
		maxAge: h.cfg.DurableMaxAge,
		secure: h.secure,
	}
	src := identity.Sources{
		URL:     urlBindings(page),
		Durable: durable,
	}

	var res identity.Resolution
	for attempt := 0; attempt < 2; attempt++ {
		sc := &identity.SessionContext{ID: sid, ClientID: data.ClientID}
		res = resolve(ctx, sc, src)
		if !persist || sc.ClientID == data.ClientID {
			break
		}

		data.ClientID = sc.ClientID
		err := h.sessions.Update(ctx, data)
		if err == nil {
			break
		}
		if !errors.Is(err, session.ErrVersionConflict) {
			h.log.WarnContext(ctx, "session update failed",
				slog.String("session_id", sid),
				slog.String("error", err.Error()),
			)
			break
		}

		// A concurrent request changed the session. Resolve again against
		// the fresh copy so that an identity it stored wins.
		fresh, err := h.sessions.Get(ctx, sid)
		if err != nil || fresh == nil {
			break
		}
		data = fresh
	}

	durable.flush(w, res.ClientID)
	if res.Published {
		w.Header().Set(middleware.DeviceIDHeader, res.ClientID)
	}

	resp := identityResponse{
		State:          string(res.State),
		ClientID:       res.ClientID,
		Source:         string(res.Source),
		Degraded:       res.Degraded,
		DegradedReason: res.DegradedReason,
	}
	if res.Published {
		resp.CanonicalQuery = page.canonical
	}
	writeJSON(w, http.StatusOK, resp)
}

// loadSession returns the stored session, creating it when the middleware
// could not. persist is false when the session store is unreachable.
func (h *IdentityHandler) loadSession(ctx context.Context, sid string) (*session.SessionData, bool) {
	data, err := h.sessions.Get(ctx, sid)
	if err != nil {
		h.log.WarnContext(ctx, "session load failed",
			slog.String("session_id", sid),
			slog.String("error", err.Error()),
		)
		return &session.SessionData{ID: sid}, false
	}
	if data != nil {
		return data, true
	}

	data = &session.SessionData{ID: sid}
	err = h.sessions.Create(ctx, data)
	switch {
	case err == nil:
		return data, true
	case errors.Is(err, session.ErrAlreadyExists):
		// Lost a create race; use the stored copy.
		if stored, err := h.sessions.Get(ctx, sid); err == nil && stored != nil {
			return stored, true
		}
		return data, false
	default:
		h.log.WarnContext(ctx, "session create failed",
			slog.String("session_id", sid),
			slog.String("error", err.Error()),
		)
		return data, false
	}
}

func urlBindings(page *pageURL) []identity.URLBinding {
	var out []identity.URLBinding
	for _, b := range page.bindings() {
		out = append(out, b)
	}
	return out
}
