package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/mog-workshop/internal/config"
	"github.com/heartmarshall/mog-workshop/internal/session"
	"github.com/heartmarshall/mog-workshop/pkg/ctxutil"
)

// DeviceIDHeader carries the resolved client id between the page and the
// server. The server sets it when the identity is published; the page echoes
// it on later requests.
const DeviceIDHeader = "X-Device-Id"

type sessionLoader interface {
	Create(ctx context.Context, data *session.SessionData) error
	Get(ctx context.Context, id string) (*session.SessionData, error)
}

type idNormalizer interface {
	Normalize(raw string) (string, error)
}

// Session returns middleware that attaches the server-side session to the
// request. The session id travels in an HTTP-only cookie; a missing or
// expired session is replaced by a fresh one. The session's resolved client
// id, if any, is put on the context.
//
// When the session store cannot be reached the request still proceeds: the
// session id from the cookie is kept and the client id echoed by the page in
// X-Device-Id is accepted in place of session memory.
func Session(store sessionLoader, ids idNormalizer, cfg config.SessionConfig, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sid := ""
			if c, err := r.Cookie(cfg.CookieName); err == nil {
				sid = c.Value
			}

			var data *session.SessionData
			var loadErr error
			if sid != "" {
				data, loadErr = store.Get(ctx, sid)
			}

			switch {
			case loadErr != nil:
				logger.WarnContext(ctx, "session store unavailable",
					slog.String("session_id", sid),
					slog.String("error", loadErr.Error()),
				)
				if id, err := ids.Normalize(r.Header.Get(DeviceIDHeader)); err == nil {
					ctx = ctxutil.WithClientID(ctx, id)
				}
			case data == nil:
				data = newSession(ctx, store, logger)
				setSessionCookie(w, cfg, data.ID)
			default:
				ctx = ctxutil.WithStoredSession(ctx)
				if data.ClientID != "" {
					ctx = ctxutil.WithClientID(ctx, data.ClientID)
				}
			}

			if data != nil {
				sid = data.ID
			}
			ctx = ctxutil.WithSessionID(ctx, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// newSession creates and stores an empty session. A failed write is logged;
// the id is still handed to the client so the next request can retry.
func newSession(ctx context.Context, store sessionLoader, logger *slog.Logger) *session.SessionData {
	now := time.Now().UTC()
	data := &session.SessionData{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.Create(ctx, data); err != nil {
		logger.WarnContext(ctx, "session create failed",
			slog.String("session_id", data.ID),
			slog.String("error", err.Error()),
		)
	}
	return data
}

func setSessionCookie(w http.ResponseWriter, cfg config.SessionConfig, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
