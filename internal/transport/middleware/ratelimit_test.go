package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/heartmarshall/mog-workshop/internal/identity"
	"github.com/heartmarshall/mog-workshop/pkg/ctxutil"
	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func draftRequest(clientID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/works/w1/drafts/instagram", nil)
	req.RemoteAddr = "1.2.3.4:1234"
	ctx := ctxutil.WithStoredSession(req.Context())
	if clientID != "" {
		ctx = ctxutil.WithClientID(ctx, clientID)
	}
	return req.WithContext(ctx)
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	handler := rl.Limit(10)(okHandler())

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, draftRequest("mog_aaaaaaaaaaaa"))
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should be allowed", i)
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	handler := rl.Limit(5)(okHandler())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, draftRequest("mog_aaaaaaaaaaaa"))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, draftRequest("mog_aaaaaaaaaaaa"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimiter_DifferentClientsIndependent(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	handler := rl.Limit(2)(okHandler())

	// Same remote address, different identities.
	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), draftRequest("mog_aaaaaaaaaaaa"))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, draftRequest("mog_bbbbbbbbbbbb"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, draftRequest("mog_aaaaaaaaaaaa"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimiter_FallsBackToSessionThenAddress(t *testing.T) {
	bySession := httptest.NewRequest(http.MethodPost, "/api/consult", nil)
	bySession = bySession.WithContext(ctxutil.WithSessionID(ctxutil.WithStoredSession(bySession.Context()), "s-1"))
	assert.Equal(t, "session:s-1", limitKey(bySession))

	byAddr := httptest.NewRequest(http.MethodPost, "/api/consult", nil)
	byAddr.RemoteAddr = "9.9.9.9:80"
	assert.Equal(t, "addr:9.9.9.9:80", limitKey(byAddr))

	assert.Equal(t, "client:mog_aaaaaaaaaaaa", limitKey(draftRequest("mog_aaaaaaaaaaaa")))
}

func TestRateLimiter_UnstoredSessionKeyedByAddress(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/consult", nil)
	req.RemoteAddr = "9.9.9.9:80"
	ctx := ctxutil.WithSessionID(req.Context(), "fresh")
	ctx = ctxutil.WithClientID(ctx, "mog_aaaaaaaaaaaa")

	assert.Equal(t, "addr:9.9.9.9:80", limitKey(req.WithContext(ctx)))
}

func TestRateLimiter_DroppingCookiesDoesNotResetBucket(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	store := newSessionStore(t)
	handler := Chain(
		Session(store, identity.NewGenerator("mog", 12), sessionCfg(), discard()),
		rl.Limit(1),
	)(okHandler())

	var codes []int
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/consult", nil)
		req.RemoteAddr = "1.2.3.4:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{
		http.StatusOK,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
	}, codes)
}

func TestRateLimiter_StoredSessionGetsOwnBucket(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	store := newSessionStore(t)
	handler := Chain(
		Session(store, identity.NewGenerator("mog", 12), sessionCfg(), discard()),
		rl.Limit(1),
	)(okHandler())

	visit := httptest.NewRequest(http.MethodGet, "/api/identity", nil)
	visit.RemoteAddr = "5.6.7.8:1"
	first := httptest.NewRecorder()
	handler.ServeHTTP(first, visit)
	cookies := first.Result().Cookies()
	assert.Len(t, cookies, 1)

	// The cookieless visit spent the address bucket; the stored session has
	// its own.
	req := httptest.NewRequest(http.MethodPost, "/api/consult", nil)
	req.RemoteAddr = "5.6.7.8:1"
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_ZeroDisables(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	handler := rl.Limit(0)(okHandler())

	for i := 0; i < 100; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, draftRequest("mog_aaaaaaaaaaaa"))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimiter_TokenRefill(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	// 60 per minute = 1 per second
	handler := rl.Limit(60)(okHandler())

	for i := 0; i < 60; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), draftRequest("mog_cccccccccccc"))
	}

	time.Sleep(1100 * time.Millisecond)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, draftRequest("mog_cccccccccccc"))
	assert.Equal(t, http.StatusOK, rec.Code)
}
