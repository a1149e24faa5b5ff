package rest

import (
	"net/http"

	"github.com/heartmarshall/mog-workshop/internal/transport/middleware"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Health   *HealthHandler
	Identity *IdentityHandler
	Works    *WorkHandler
	Drafts   *DraftHandler
	Consult  *ConsultHandler
}

// NewRouter mounts the probes at the root and the JSON API under /api.
// api wraps every /api route; limit additionally wraps the calls that reach
// the language model.
func NewRouter(h Handlers, api, limit middleware.Middleware) http.Handler {
	apiMux := http.NewServeMux()

	apiMux.HandleFunc("GET /api/identity", h.Identity.Resolve)
	apiMux.HandleFunc("POST /api/identity/confirm", h.Identity.Confirm)

	apiMux.HandleFunc("GET /api/works", h.Works.List)
	apiMux.HandleFunc("POST /api/works", h.Works.Create)
	apiMux.HandleFunc("GET /api/works/{id}", h.Works.Get)
	apiMux.HandleFunc("PUT /api/works/{id}", h.Works.Update)
	apiMux.HandleFunc("DELETE /api/works/{id}", h.Works.Delete)

	apiMux.Handle("POST /api/works/{id}/drafts/{platform}", limit(http.HandlerFunc(h.Drafts.Draft)))
	apiMux.Handle("POST /api/works/{id}/drafts/{platform}/refine", limit(http.HandlerFunc(h.Drafts.Refine)))
	apiMux.Handle("POST /api/works/{id}/image-analysis", limit(http.HandlerFunc(h.Drafts.AnalyzeImage)))

	apiMux.HandleFunc("GET /api/consult", h.Consult.History)
	apiMux.Handle("POST /api/consult", limit(http.HandlerFunc(h.Consult.Ask)))
	apiMux.HandleFunc("DELETE /api/consult", h.Consult.Clear)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)
	mux.Handle("/api/", api(apiMux))

	return mux
}
