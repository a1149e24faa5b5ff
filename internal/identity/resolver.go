package identity

import (
	"context"
	"errors"
	"log/slog"
)

var errNoBinding = errors.New("no url binding available")

// Resolver applies the identity precedence order to a SessionContext.
type Resolver struct {
	gen *Generator
	log *slog.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(log *slog.Logger, gen *Generator) *Resolver {
	return &Resolver{
		gen: gen,
		log: log.With("service", "identity"),
	}
}

// Resolve determines the session's identity without ever minting one.
// Precedence: session memory, then the URL bindings, then the durable store.
// When nothing is found the session stays UNRESOLVED and the caller must ask
// the user to Confirm.
func (r *Resolver) Resolve(ctx context.Context, sc *SessionContext, src Sources) Resolution {
	if sc.State() == StateResolved {
		res := Resolution{ClientID: sc.ClientID, State: StateResolved, Source: SourceSession}
		if id, idx, _ := r.lookupURL(ctx, src.URL); id != sc.ClientID || idx > 0 {
			// The URL is stale or uses an older shape. Session memory wins;
			// the URL is rewritten to match it.
			r.publish(ctx, sc.ClientID, src.URL, &res)
		}
		return res
	}

	if id, idx, ok := r.lookupURL(ctx, src.URL); ok {
		sc.adopt(id)
		res := Resolution{ClientID: sc.ClientID, State: StateResolved, Source: SourceURL}
		if idx > 0 {
			r.publish(ctx, sc.ClientID, src.URL, &res)
		}
		r.storeDurable(ctx, src.Durable, sc.ClientID)

		r.log.InfoContext(ctx, "identity adopted from url",
			slog.String("client_id", sc.ClientID),
			slog.String("session_id", sc.ID),
		)
		return res
	}

	if id, ok := r.loadDurable(ctx, src.Durable); ok {
		sc.adopt(id)
		res := Resolution{ClientID: sc.ClientID, State: StateResolved, Source: SourceDurable}
		r.publish(ctx, sc.ClientID, src.URL, &res)

		r.log.InfoContext(ctx, "identity adopted from durable store",
			slog.String("client_id", sc.ClientID),
			slog.String("session_id", sc.ID),
		)
		return res
	}

	return Resolution{State: StateUnresolved, Source: SourceNone}
}

// Confirm is the explicit user action that mints an identity. It runs the
// regular resolution first so that a session which already has (or can
// recover) an identity never gets a second one.
func (r *Resolver) Confirm(ctx context.Context, sc *SessionContext, src Sources) Resolution {
	res := r.Resolve(ctx, sc, src)
	if res.State == StateResolved {
		return res
	}

	sc.adopt(r.gen.New())
	res = Resolution{ClientID: sc.ClientID, State: StateResolved, Source: SourceMinted}
	r.publish(ctx, sc.ClientID, src.URL, &res)
	r.storeDurable(ctx, src.Durable, sc.ClientID)

	r.log.InfoContext(ctx, "identity minted",
		slog.String("client_id", sc.ClientID),
		slog.String("session_id", sc.ID),
		slog.Bool("degraded", res.Degraded),
	)
	return res
}

// lookupURL returns the first valid identity found in the bindings and the
// index of the binding that carried it.
func (r *Resolver) lookupURL(ctx context.Context, bindings []URLBinding) (string, int, bool) {
	for i, b := range bindings {
		raw, ok, err := b.Lookup()
		if err != nil {
			r.log.DebugContext(ctx, "url binding lookup failed",
				slog.Int("binding", i),
				slog.String("error", err.Error()),
			)
			continue
		}
		if !ok {
			continue
		}
		id, err := r.gen.Normalize(raw)
		if err != nil {
			r.log.DebugContext(ctx, "ignoring url identity", slog.String("error", err.Error()))
			continue
		}
		return id, i, true
	}
	return "", -1, false
}

// publish writes id through the first binding that accepts it. When none
// does, the resolution is flagged as session-only.
func (r *Resolver) publish(ctx context.Context, id string, bindings []URLBinding, res *Resolution) {
	err := errNoBinding
	for i, b := range bindings {
		if err = b.Publish(id); err == nil {
			res.Published = true
			return
		}
		r.log.DebugContext(ctx, "url binding publish failed",
			slog.Int("binding", i),
			slog.String("error", err.Error()),
		)
	}

	res.Degraded = true
	res.DegradedReason = DegradedSessionOnly
	r.log.WarnContext(ctx, "identity not published to url",
		slog.String("client_id", id),
		slog.String("reason", DegradedSessionOnly),
		slog.String("error", err.Error()),
	)
}

func (r *Resolver) loadDurable(ctx context.Context, store DurableStore) (string, bool) {
	if store == nil {
		return "", false
	}
	raw, ok, err := store.Load(ctx)
	if err != nil {
		r.log.WarnContext(ctx, "durable store load failed", slog.String("error", err.Error()))
		return "", false
	}
	if !ok {
		return "", false
	}
	id, err := r.gen.Normalize(raw)
	if err != nil {
		r.log.DebugContext(ctx, "ignoring durable identity", slog.String("error", err.Error()))
		return "", false
	}
	return id, true
}

// storeDurable is best effort.
func (r *Resolver) storeDurable(ctx context.Context, store DurableStore, id string) {
	if store == nil {
		return
	}
	if err := store.Store(ctx, id); err != nil {
		r.log.WarnContext(ctx, "durable store write failed",
			slog.String("client_id", id),
			slog.String("error", err.Error()),
		)
	}
}
