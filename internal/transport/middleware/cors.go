package middleware

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/heartmarshall/mog-workshop/internal/config"
)

// CORS returns middleware for cross-origin pages. Only origins listed in
// cfg get Access-Control headers; with no list the API is same-origin only.
// The identity headers the page exchanges with the server are exposed so a
// cross-origin page can read X-Device-Id and X-Store-Degraded.
//
// Preflight OPTIONS requests are answered here and never reach the session
// layer.
func CORS(cfg config.CORSConfig) Middleware {
	origins := cfg.Origins()
	wildcard := slices.Contains(origins, "*")
	credentials := cfg.AllowCredentials && !wildcard
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			origin := r.Header.Get("Origin")
			allowed := origin != "" && (wildcard || slices.Contains(origins, origin))

			if origin != "" && !wildcard {
				h.Add("Vary", "Origin")
			}
			if allowed {
				if wildcard {
					h.Set("Access-Control-Allow-Origin", "*")
				} else {
					h.Set("Access-Control-Allow-Origin", origin)
				}
				if credentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				if cfg.ExposedHeaders != "" {
					h.Set("Access-Control-Expose-Headers", cfg.ExposedHeaders)
				}
			}

			if r.Method == http.MethodOptions {
				if allowed {
					h.Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
					h.Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)
					h.Set("Access-Control-Max-Age", maxAge)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
