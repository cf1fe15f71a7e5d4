package testutil

import (
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"karangjaladri.id/mangrove-web/internal/carousel"
	"karangjaladri.id/mangrove-web/internal/content"
	"karangjaladri.id/mangrove-web/internal/httpserver"
	"karangjaladri.id/mangrove-web/internal/i18n"
	"karangjaladri.id/mangrove-web/internal/live"
	"karangjaladri.id/mangrove-web/internal/session"
	"karangjaladri.id/mangrove-web/public"
)

// Setup is what a ServerOption can change before the server is built.
type Setup struct {
	Server   httpserver.Config
	Sessions httpserver.SessionsConfig
}

// ServerOption customises the test server.
type ServerOption func(*Setup)

// WithNegotiation makes new visitors start in their Accept-Language.
func WithNegotiation() ServerOption {
	return func(s *Setup) { s.Server.Negotiate = true }
}

// WithAllowedOrigins sets the CORS origins of the JSON feed.
func WithAllowedOrigins(origins ...string) ServerOption {
	return func(s *Setup) { s.Server.AllowedOrigins = origins }
}

// WithInterval overrides the carousel interval.
func WithInterval(d time.Duration) ServerOption {
	return func(s *Setup) { s.Sessions.State.Interval = d }
}

// WithTrackMouse toggles mouse swipes in the lightbox.
func WithTrackMouse(on bool) ServerOption {
	return func(s *Setup) { s.Server.TrackMouse = on }
}

// WithMaxSessions bounds the session store.
func WithMaxSessions(n int) ServerOption {
	return func(s *Setup) { s.Sessions.MaxSessions = n }
}

// WithMedia serves /images/* and the background video from fsys.
func WithMedia(fsys fs.FS) ServerOption {
	return func(s *Setup) { s.Server.Media = fsys }
}

// Server is a running test stack with its fake clock and collaborators.
type Server struct {
	*httptest.Server
	Clock    *carousel.FakeClock
	Sessions *session.Store
	Hub      *live.Hub
	Codec    *session.Codec
}

// NewServer constructs an httptest server running the full HTTP stack with
// embedded templates, content and dictionaries and a fake carousel clock.
func NewServer(t testing.TB, opts ...ServerOption) *Server {
	t.Helper()

	logger := zap.NewNop()
	bundle, err := i18n.Load(i18n.Embedded(), "id", []string{"id", "en"})
	if err != nil {
		t.Fatalf("load dictionaries: %v", err)
	}
	store, err := content.Load(content.Embedded())
	if err != nil {
		t.Fatalf("load content: %v", err)
	}
	renderer, err := httpserver.NewRenderer(nil, false)
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	assets, err := public.StaticFS()
	if err != nil {
		t.Fatalf("static assets: %v", err)
	}
	codec, _ := session.NewCodec([]byte("test-signing-key"), false, time.Hour)
	hub := live.NewHub(logger)
	clock := carousel.NewFakeClock(time.Unix(0, 0))

	setup := Setup{
		Server: httpserver.Config{
			Address:        ":0",
			Renderer:       renderer,
			Assets:         assets,
			Bundle:         bundle,
			Content:        store,
			Codec:          codec,
			Hub:            hub,
			TrackMouse:     true,
			AllowedOrigins: []string{"https://www.karangjaladri.desa.id"},
			Logger:         logger,
		},
		Sessions: httpserver.SessionsConfig{
			TTL:      time.Hour,
			Content:  store,
			Bundle:   bundle,
			Renderer: renderer,
			Hub:      hub,
			Logger:   logger,
		},
	}
	setup.Sessions.State.Clock = clock
	for _, opt := range opts {
		opt(&setup)
	}

	sessions := httpserver.NewSessions(setup.Sessions)
	setup.Server.Sessions = sessions
	srv := httpserver.New(setup.Server)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(func() {
		ts.Close()
		hub.Close()
		sessions.Close()
	})
	return &Server{Server: ts, Clock: clock, Sessions: sessions, Hub: hub, Codec: codec}
}

// NewClient returns a client that keeps the session cookie.
func NewClient(t testing.TB) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

// Visitor is a browser-like client with an established session.
type Visitor struct {
	t      testing.TB
	base   string
	Client *http.Client
	CSRF   string
}

// Visit loads the home page with a fresh client and keeps its CSRF token.
func (s *Server) Visit(t testing.TB) (*Visitor, *goquery.Document) {
	t.Helper()
	v := &Visitor{t: t, base: s.URL, Client: NewClient(t)}
	return v, v.Home()
}

// Home fetches the page and refreshes the CSRF token from its meta tag.
func (v *Visitor) Home() *goquery.Document {
	v.t.Helper()
	resp := v.Get("/")
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		v.t.Fatalf("get /: status %d", resp.StatusCode)
	}
	doc := ReadHTML(v.t, resp)
	v.CSRF = doc.Find(`meta[name="csrf-token"]`).AttrOr("content", "")
	return doc
}

// Get issues a GET with the visitor's cookies.
func (v *Visitor) Get(path string) *http.Response {
	v.t.Helper()
	resp, err := v.Client.Get(v.base + path)
	if err != nil {
		v.t.Fatalf("get %s: %v", path, err)
	}
	return resp
}

// Post sends an htmx form post carrying the CSRF header.
func (v *Visitor) Post(path string, form url.Values) *http.Response {
	v.t.Helper()
	req, err := http.NewRequest(http.MethodPost, v.base+path, strings.NewReader(form.Encode()))
	if err != nil {
		v.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	req.Header.Set("X-CSRF-Token", v.CSRF)
	resp, err := v.Client.Do(req)
	if err != nil {
		v.t.Fatalf("post %s: %v", path, err)
	}
	return resp
}

// SessionID returns the visitor's session id from the cookie jar.
func (v *Visitor) SessionID(codec *session.Codec) string {
	v.t.Helper()
	u, _ := url.Parse(v.base)
	for _, c := range v.Client.Jar.Cookies(u) {
		if c.Name == session.CookieName {
			tok, err := codec.Decode(c.Value)
			if err != nil {
				v.t.Fatalf("decode session cookie: %v", err)
			}
			return tok.ID
		}
	}
	v.t.Fatalf("no session cookie")
	return ""
}
