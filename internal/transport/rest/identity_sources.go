package rest

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// URLWritableHeader lets the page report that it cannot rewrite its own
// address (for example inside a sandboxed frame without the history API).
const URLWritableHeader = "X-Url-Writable"

var (
	errURLNotWritable = errors.New("page url is not writable")
	errLegacyReadOnly = errors.New("legacy url parameter is read-only")
)

// pageURL is the query string of the page that asked for resolution. The
// page forwards its own location.search on GET/POST /api/identity.
type pageURL struct {
	query    url.Values
	writable bool
	param    string
	legacy   []string

	// canonical is the rewritten query after a successful publish.
	canonical string
}

func newPageURL(r *http.Request, param string, legacy []string) *pageURL {
	return &pageURL{
		query:    r.URL.Query(),
		writable: !strings.EqualFold(r.Header.Get(URLWritableHeader), "false"),
		param:    param,
		legacy:   legacy,
	}
}

// bindings returns the current parameter first and the legacy ones after it.
func (p *pageURL) bindings() []queryBinding {
	out := []queryBinding{{page: p, param: p.param}}
	for _, name := range p.legacy {
		out = append(out, queryBinding{page: p, param: name, readOnly: true})
	}
	return out
}

// queryBinding reads one query parameter of the page URL.
type queryBinding struct {
	page     *pageURL
	param    string
	readOnly bool
}

func (b queryBinding) Lookup() (string, bool, error) {
	v := b.page.query.Get(b.param)
	return v, v != "", nil
}

// Publish records the canonical query: the current parameter set to id and
// every legacy parameter removed. Other query parameters are kept.
func (b queryBinding) Publish(id string) error {
	if b.readOnly {
		return errLegacyReadOnly
	}
	if !b.page.writable {
		return errURLNotWritable
	}
	q := url.Values{}
	for k, v := range b.page.query {
		q[k] = v
	}
	for _, name := range b.page.legacy {
		q.Del(name)
	}
	q.Set(b.page.param, id)
	b.page.canonical = q.Encode()
	return nil
}

// cookieStore is the durable client-side store: a long-lived cookie. Store
// only records the id; flush writes the cookie once the session update that
// decides the final identity has gone through.
type cookieStore struct {
	r       *http.Request
	name    string
	maxAge  time.Duration
	secure  bool
	pending string
}

func (c *cookieStore) Load(context.Context) (string, bool, error) {
	ck, err := c.r.Cookie(c.name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return ck.Value, ck.Value != "", nil
}

func (c *cookieStore) Store(_ context.Context, id string) error {
	c.pending = id
	return nil
}

// flush writes clientID to the cookie if any resolve attempt stored one.
// clientID is the identity the session settled on, which may differ from
// what an earlier attempt stored.
func (c *cookieStore) flush(w http.ResponseWriter, clientID string) {
	if c.pending == "" || clientID == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    clientID,
		Path:     "/",
		MaxAge:   int(c.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
