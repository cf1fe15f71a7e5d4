package httpserver_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"karangjaladri.id/mangrove-web/internal/httpx"
	"karangjaladri.id/mangrove-web/internal/session"
	"karangjaladri.id/mangrove-web/internal/testutil"
)

func TestHealthzOK(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", strings.TrimSpace(string(body)))
}

func TestHomeRendersDefaultState(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t)

	v, doc := ts.Visit(t)
	require.NotEmpty(t, v.CSRF)

	require.Equal(t, "id", doc.Find("html").AttrOr("lang", ""))
	app := doc.Find("#app")
	require.Equal(t, "id", app.AttrOr("data-lang", ""))
	require.False(t, app.HasClass("dark"))
	require.Equal(t, "Wisata Mangrove Karangjaladri", doc.Find(".site-title").Text())
	require.Equal(t, 4, doc.Find("#site-header nav .nav-link").Length())
	require.Zero(t, doc.Find("#mobile-menu").Length())

	require.Equal(t, 5, doc.Find("#carousel .card").Length())
	require.True(t, doc.Find("#card-1").HasClass("card-active"))
	require.False(t, doc.Find("#card-2").HasClass("card-active"))
	require.Equal(t, "/images/avicennia1.jpeg", doc.Find("#card-image-1 img").AttrOr("src", ""))
	require.Equal(t, "1 / 3", doc.Find("#card-image-1 .image-counter").Text())

	_, hidden := doc.Find("#detail-overlay").Attr("hidden")
	require.True(t, hidden)
	_, hidden = doc.Find("#lightbox").Attr("hidden")
	require.True(t, hidden)
	require.True(t, doc.Find("#scroll-top").HasClass("hidden"))
	require.Contains(t, doc.Find("#scroll-progress .progress-bar").AttrOr("style", ""), "0.00%")

	require.Equal(t, 3, doc.Find(`link[rel="alternate"]`).Length())
	require.Equal(t, 4, doc.Find(`script[type="application/ld+json"]`).Length())
	require.Contains(t, doc.Find(`script[type="application/ld+json"]`).First().Text(), "TouristAttraction")
	require.Equal(t, "/ws", doc.Find("body").AttrOr("ws-connect", ""))
	require.Contains(t, doc.Find("body").AttrOr("hx-headers", ""), v.CSRF)
	require.Equal(t, 5, doc.Find(".activity-list li").Length())
	require.Equal(t, 4, doc.Find(".legend li").Length())
}

func TestHomeHonoursLanguageOverride(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t)

	resp, err := testutil.NewClient(t).Get(ts.URL + "/?hl=en")
	require.NoError(t, err)
	require.Equal(t, "en", resp.Header.Get("Content-Language"))
	doc := testutil.ReadHTML(t, resp)
	require.Equal(t, "en", doc.Find("html").AttrOr("lang", ""))
	require.Equal(t, "Karangjaladri Mangrove Tourism", doc.Find(".site-title").Text())
}

func TestNegotiatedLanguageForNewVisitor(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t, testutil.WithNegotiation())

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/", nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	resp, err := testutil.NewClient(t).Do(req)
	require.NoError(t, err)
	doc := testutil.ReadHTML(t, resp)
	require.Equal(t, "en", doc.Find("html").AttrOr("lang", ""))
}

func TestLanguageToggleTwiceRestoresText(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t)
	v, doc := ts.Visit(t)
	before := doc.Find("#app h1").Text()

	resp := v.Post("/ui/lang", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "en", resp.Header.Get("Content-Language"))
	frag := testutil.ReadHTML(t, resp)
	require.Equal(t, "en", frag.Find("#app").AttrOr("data-lang", ""))
	require.Contains(t, frag.Find("#app h1").Text(), "Mangrove Tourism")

	frag = testutil.ReadHTML(t, v.Post("/ui/lang", nil))
	require.Equal(t, "id", frag.Find("#app").AttrOr("data-lang", ""))
	require.Equal(t, before, frag.Find("#app h1").Text())

	// the session remembers the language across full page loads
	require.Equal(t, "id", v.Home().Find("html").AttrOr("lang", ""))
}

func TestThemeToggle(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t)
	v, _ := ts.Visit(t)

	frag := testutil.ReadHTML(t, v.Post("/ui/theme", nil))
	require.True(t, frag.Find("#app").HasClass("dark"))
	require.Equal(t, "dark", frag.Find("#app").AttrOr("data-theme", ""))

	frag = testutil.ReadHTML(t, v.Post("/ui/theme", nil))
	require.False(t, frag.Find("#app").HasClass("dark"))
}

func TestMenuToggle(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t)
	v, _ := ts.Visit(t)

	frag := testutil.ReadHTML(t, v.Post("/ui/menu", nil))
	require.Equal(t, 1, frag.Find("#mobile-menu").Length())
	require.Equal(t, "true", frag.Find("#menu-toggle").AttrOr("aria-expanded", ""))

	frag = testutil.ReadHTML(t, v.Post("/ui/menu/close", nil))
	require.Zero(t, frag.Find("#mobile-menu").Length())
}

func TestLightboxFromSecondCardCyclesBack(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t)
	v, _ := ts.Visit(t)

	frag := testutil.ReadHTML(t, v.Post("/ui/gallery/open", url.Values{"plant": {"2"}, "index": {"1"}}))
	require.Equal(t, "/images/brugeir2.jpeg", frag.Find("#lightbox-image").AttrOr("src", ""))
	require.Equal(t, "2 / 3", frag.Find(".lightbox-counter").Text())

	for i := 0; i < 3; i++ {
		frag = testutil.ReadHTML(t, v.Post("/ui/gallery/next", nil))
	}
	require.Equal(t, "/images/brugeir2.jpeg", frag.Find("#lightbox-image").AttrOr("src", ""))
	require.Equal(t, "1", frag.Find("#lightbox").AttrOr("data-index", ""))

	frag = testutil.ReadHTML(t, v.Post("/ui/gallery/prev", nil))
	frag = testutil.ReadHTML(t, v.Post("/ui/gallery/prev", nil))
	require.Equal(t, "/images/brugeir3.jpeg", frag.Find("#lightbox-image").AttrOr("src", ""), "prev wraps from the first image")

	frag = testutil.ReadHTML(t, v.Post("/ui/gallery/close", nil))
	_, hidden := frag.Find("#lightbox").Attr("hidden")
	require.True(t, hidden)
}

func TestInactiveCardImageOpensLightbox(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t)
	v, doc := ts.Visit(t)
	require.True(t, doc.Find("#card-1").HasClass("card-active"))
	require.False(t, doc.Find("#card-2").HasClass("card-active"))

	image := doc.Find("#card-image-2")
	for _, sel := range []string{"button", ".card-camera"} {
		btn := image.Find(sel).First()
		require.Equal(t, "/ui/gallery/open", btn.AttrOr("hx-post", ""), sel)
		require.Equal(t, "#lightbox", btn.AttrOr("hx-target", ""), sel)

		vals := map[string]string{}
		require.NoError(t, json.Unmarshal([]byte(btn.AttrOr("hx-vals", "")), &vals), sel)
		form := url.Values{}
		for k, val := range vals {
			form.Set(k, val)
		}
		frag := testutil.ReadHTML(t, v.Post("/ui/gallery/open", form))
		require.Equal(t, "/images/brugeir1.jpeg", frag.Find("#lightbox-image").AttrOr("src", ""), sel)
		require.Equal(t, "2", frag.Find("#lightbox").AttrOr("data-plant", ""), sel)
		testutil.ReadHTML(t, v.Post("/ui/gallery/close", nil))
	}

	focus := image.Find(".card-focus")
	require.Equal(t, 1, focus.Length(), "inactive cards keep a separate centering control")
	require.Equal(t, "/ui/carousel/active", focus.AttrOr("hx-post", ""))
	require.Zero(t, doc.Find("#card-image-1 .card-focus").Length())

	frag := testutil.ReadHTML(t, v.Post("/ui/carousel/active", url.Values{"plant": {"2"}}))
	require.True(t, frag.Find("#card-2").HasClass("card-active"))
}

func TestOpenGalleryWithoutIndexUsesCardImage(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t)
	v, _ := ts.Visit(t)

	resp := v.Post("/ui/carousel/3/image/2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	frag := testutil.ReadHTML(t, v.Post("/ui/gallery/open", url.Values{"plant": {"3"}}))
	require.Equal(t, "/images/nypa3.jpeg", frag.Find("#lightbox-image").AttrOr("src", ""))
}

func TestSwipeStepsLightbox(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t)
	v, _ := ts.Visit(t)
	testutil.ReadHTML(t, v.Post("/ui/gallery/open", url.Values{"plant": {"1"}, "index": {"0"}}))

	left := `[{"x":200,"y":100},{"x":150,"y":102},{"x":100,"y":105}]`
	frag := testutil.ReadHTML(t, v.Post("/ui/gallery/swipe", url.Values{"pointer": {"touch"}, "points": {left}}))
	require.Equal(t, "/images/avicennia2.jpeg", frag.Find("#lightbox-image").AttrOr("src", ""))

	right := `[{"x":100,"y":100},{"x":180,"y":100}]`
	frag = testutil.ReadHTML(t, v.Post("/ui/gallery/swipe", url.Values{"pointer": {"mouse"}, "points": {right}}))
	require.Equal(t, "/images/avicennia1.jpeg", frag.Find("#lightbox-image").AttrOr("src", ""))

	tap := `[{"x":100,"y":100},{"x":104,"y":100}]`
	frag = testutil.ReadHTML(t, v.Post("/ui/gallery/swipe", url.Values{"pointer": {"touch"}, "points": {tap}}))
	require.Equal(t, "/images/avicennia1.jpeg", frag.Find("#lightbox-image").AttrOr("src", ""), "below threshold is not a swipe")
}

func TestSwipeIgnoresMouseWhenDisabled(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t, testutil.WithTrackMouse(false))
	v, _ := ts.Visit(t)
	testutil.ReadHTML(t, v.Post("/ui/gallery/open", url.Values{"plant": {"1"}, "index": {"0"}}))

	left := `[{"x":200,"y":100},{"x":100,"y":100}]`
	frag := testutil.ReadHTML(t, v.Post("/ui/gallery/swipe", url.Values{"pointer": {"mouse"}, "points": {left}}))
	require.Equal(t, "/images/avicennia1.jpeg", frag.Find("#lightbox-image").AttrOr("src", ""))
}

func TestScrollTogglesScrollTop(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t)
	v, _ := ts.Visit(t)

	metrics := func(offset string) url.Values {
		return url.Values{
			"offset":         {offset},
			"scrollHeight":   {"2200"},
			"clientHeight":   {"1000"},
			"viewportHeight": {"800"},
		}
	}

	frag := testutil.ReadHTML(t, v.Post("/ui/scroll", metrics("600")))
	top := frag.Find("#scroll-top")
	require.Equal(t, "true", top.AttrOr("hx-swap-oob", ""))
	require.False(t, top.HasClass("hidden"))
	require.Contains(t, frag.Find("#scroll-progress .progress-bar").AttrOr("style", ""), "50.00%")
	require.Contains(t, frag.Find("#parallax-style").Text(), "translateY(240.00px)")

	frag = testutil.ReadHTML(t, v.Post("/ui/scroll", metrics("900")))
	require.Contains(t, frag.Find("#parallax-style").Text(), "translateY(240.00px)", "parallax freezes past the viewport")

	frag = testutil.ReadHTML(t, v.Post("/ui/scroll", metrics("0")))
	require.True(t, frag.Find("#scroll-top").HasClass("hidden"))
	require.Contains(t, frag.Find("#parallax-style").Text(), "translateY(0.00px)")
}

func TestCarouselNavigationAndDots(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t)
	v, _ := ts.Visit(t)

	frag := testutil.ReadHTML(t, v.Post("/ui/carousel/next", nil))
	require.True(t, frag.Find("#card-2").HasClass("card-active"))
	require.False(t, frag.Find("#card-1").HasClass("card-active"))

	frag = testutil.ReadHTML(t, v.Post("/ui/carousel/prev", nil))
	frag = testutil.ReadHTML(t, v.Post("/ui/carousel/prev", nil))
	require.True(t, frag.Find("#card-5").HasClass("card-active"), "prev wraps to the last card")

	frag = testutil.ReadHTML(t, v.Post("/ui/carousel/active", url.Values{"plant": {"4"}}))
	require.Equal(t, "4", frag.Find("#carousel").AttrOr("data-active", ""))

	frag = testutil.ReadHTML(t, v.Post("/ui/carousel/1/image/2", nil))
	require.Equal(t, "/images/avicennia3.jpeg", frag.Find("#card-image-1 img").AttrOr("src", ""))
	require.True(t, frag.Find(`#card-image-1 .dot[data-index="2"]`).HasClass("active"))
}

func TestCarouselAdvancesOnTimer(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t)
	v, _ := ts.Visit(t)

	ts.Clock.Advance(3500 * time.Millisecond)
	require.Equal(t, "/images/avicennia1.jpeg", v.Home().Find("#card-image-1 img").AttrOr("src", ""),
		"cycling waits until the page reports it is visible")

	resp := v.Post("/ui/carousel/resume", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
	ts.Clock.Advance(3500 * time.Millisecond)
	doc := v.Home()
	require.Equal(t, "/images/avicennia2.jpeg", doc.Find("#card-image-1 img").AttrOr("src", ""))
	require.Equal(t, "/images/brugeir1.jpeg", doc.Find("#card-image-2 img").AttrOr("src", ""), "inactive cards never advance")

	resp = v.Post("/ui/carousel/pause", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
	ts.Clock.Advance(10 * time.Second)
	require.Equal(t, "/images/avicennia2.jpeg", v.Home().Find("#card-image-1 img").AttrOr("src", ""))

	resp = v.Post("/ui/carousel/resume", url.Values{"plant": {"1"}})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
	ts.Clock.Advance(3500 * time.Millisecond)
	require.Equal(t, "/images/avicennia3.jpeg", v.Home().Find("#card-image-1 img").AttrOr("src", ""))
}

func TestCookielessVisitsStartNoTimers(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t, testutil.WithMaxSessions(50))

	for i := 0; i < 200; i++ {
		resp, err := http.Get(ts.URL + "/")
		require.NoError(t, err)
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	require.Zero(t, ts.Clock.Pending())
	require.Equal(t, 50, ts.Sessions.Len())

	v, _ := ts.Visit(t)
	require.Zero(t, ts.Clock.Pending())
	resp := v.Post("/ui/carousel/resume", url.Values{"plant": {"1"}})
	resp.Body.Close()
	require.Equal(t, 1, ts.Clock.Pending())
	require.Equal(t, 50, ts.Sessions.Len())
}

func TestDetailOverlay(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t)
	v, _ := ts.Visit(t)

	frag := testutil.ReadHTML(t, v.Post("/ui/plants/2/select", nil))
	overlay := frag.Find("#detail-overlay")
	require.Equal(t, "2", overlay.AttrOr("data-plant", ""))
	require.Equal(t, "Bruguiera sp.", overlay.Find("h2").Text())
	require.Equal(t, 1, overlay.Find(".description strong").Length())
	require.Equal(t, 3, overlay.Find(".image-grid .grid-image").Length())
	require.Equal(t, 3, overlay.Find(".characteristics li").Length())

	frag = testutil.ReadHTML(t, v.Post("/ui/plants/close", nil))
	_, hidden := frag.Find("#detail-overlay").Attr("hidden")
	require.True(t, hidden)
}

func TestMapZoomPanReset(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t)
	v, _ := ts.Visit(t)

	frag := testutil.ReadHTML(t, v.Post("/ui/map/zoom", url.Values{
		"steps": {"1"}, "x": {"0"}, "y": {"0"}, "width": {"800"}, "height": {"600"},
	}))
	vp := frag.Find("#map-viewport")
	require.True(t, vp.HasClass("zoomed"))
	require.Contains(t, frag.Find("#map-image").AttrOr("style", ""), "scale(1.200)")

	frag = testutil.ReadHTML(t, v.Post("/ui/map/pan", url.Values{
		"dx": {"10000"}, "dy": {"0"}, "width": {"800"}, "height": {"600"},
	}))
	require.Contains(t, frag.Find("#map-image").AttrOr("style", ""), "translate(0.00px", "pan is clamped to the frame")

	frag = testutil.ReadHTML(t, v.Post("/ui/map/reset", nil))
	require.False(t, frag.Find("#map-viewport").HasClass("zoomed"))
}

func TestErrorResponses(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t)
	v, _ := ts.Visit(t)

	cases := []struct {
		name   string
		path   string
		form   url.Values
		status int
		code   string
	}{
		{"unknown plant", "/ui/plants/99/select", nil, http.StatusNotFound, "not_found"},
		{"unknown card", "/ui/carousel/99/image/0", nil, http.StatusNotFound, "not_found"},
		{"malformed plant id", "/ui/carousel/abc/image/1", nil, http.StatusBadRequest, "bad_request"},
		{"unknown gallery plant", "/ui/gallery/open", url.Values{"plant": {"42"}}, http.StatusNotFound, "not_found"},
		{"missing gallery plant", "/ui/gallery/open", nil, http.StatusBadRequest, "bad_request"},
		{"malformed scroll", "/ui/scroll", url.Values{"offset": {"abc"}}, http.StatusBadRequest, "bad_request"},
		{"negative scroll", "/ui/scroll", url.Values{"offset": {"-1"}, "scrollHeight": {"1"}, "clientHeight": {"1"}, "viewportHeight": {"1"}}, http.StatusBadRequest, "bad_request"},
		{"malformed swipe", "/ui/gallery/swipe", url.Values{"points": {"nope"}}, http.StatusBadRequest, "bad_request"},
		{"unknown pointer", "/ui/gallery/swipe", url.Values{"pointer": {"laser"}, "points": {"[]"}}, http.StatusBadRequest, "bad_request"},
		{"malformed zoom", "/ui/map/zoom", url.Values{"steps": {"1"}}, http.StatusBadRequest, "bad_request"},
	}
	for _, tc := range cases {
		resp := v.Post(tc.path, tc.form)
		var e httpx.Error
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&e), tc.name)
		resp.Body.Close()
		require.Equal(t, tc.status, resp.StatusCode, tc.name)
		require.Equal(t, tc.code, e.Code, tc.name)
	}
}

func TestUnsafeRequestsNeedCSRF(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t)
	v, _ := ts.Visit(t)

	token := v.CSRF
	v.CSRF = ""
	resp := v.Post("/ui/lang", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	v.CSRF = "forged"
	resp = v.Post("/ui/lang", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	v.CSRF = token
	resp = v.Post("/ui/lang", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAssetsCarryETag(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t)

	resp, err := http.Get(ts.URL + "/assets/app.js")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	etag := resp.Header.Get("ETag")
	require.NotEmpty(t, etag)
	require.Contains(t, resp.Header.Get("Cache-Control"), "max-age")

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/assets/app.js", nil)
	require.NoError(t, err)
	req.Header.Set("If-None-Match", etag)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotModified, resp.StatusCode)
}

func TestMediaDirLayersOverEmbeddedAssets(t *testing.T) {
	t.Parallel()
	media := fstest.MapFS{
		"images/avicennia1.jpeg": {Data: []byte("jpeg")},
		"mangrove-bg.mp4":        {Data: []byte("mp4")},
	}
	ts := testutil.NewServer(t, testutil.WithMedia(media))

	for path, status := range map[string]int{
		"/assets/app.js":          http.StatusOK,
		"/images/avicennia1.jpeg": http.StatusOK,
		"/mangrove-bg.mp4":        http.StatusOK,
		"/images/app.js":          http.StatusNotFound,
		"/assets/mangrove-bg.mp4": http.StatusNotFound,
	} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, status, resp.StatusCode, path)
	}
}

func TestPlantsFeed(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/plants?lang=en", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://www.karangjaladri.desa.id")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "https://www.karangjaladri.desa.id", resp.Header.Get("Access-Control-Allow-Origin"))

	var feed struct {
		Language string `json:"language"`
		Plants   []struct {
			ID         int      `json:"id"`
			CommonName string   `json:"commonName"`
			Images     []string `json:"images"`
		} `json:"plants"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&feed))
	require.Equal(t, "en", feed.Language)
	require.Len(t, feed.Plants, 5)
	require.Equal(t, "Nipah Palm", feed.Plants[2].CommonName)
	require.Len(t, feed.Plants[0].Images, 3)

	other, err := http.NewRequest(http.MethodGet, ts.URL+"/api/plants", nil)
	require.NoError(t, err)
	other.Header.Set("Origin", "https://evil.example")
	resp2, err := http.DefaultClient.Do(other)
	require.NoError(t, err)
	resp2.Body.Close()
	require.Empty(t, resp2.Header.Get("Access-Control-Allow-Origin"))

	for path, status := range map[string]int{
		"/api/plants?lang=fr": http.StatusBadRequest,
		"/api/plants/99":      http.StatusNotFound,
		"/api/plants/x":       http.StatusBadRequest,
		"/api/plants/1":       http.StatusOK,
	} {
		r, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		r.Body.Close()
		require.Equal(t, status, r.StatusCode, path)
	}
}

func TestLivePushDeliversCardImage(t *testing.T) {
	t.Parallel()
	ts := testutil.NewServer(t)
	v, _ := ts.Visit(t)
	sid := v.SessionID(ts.Codec)

	u, err := url.Parse(ts.URL)
	require.NoError(t, err)
	header := http.Header{}
	for _, c := range v.Client.Jar.Cookies(u) {
		if c.Name == session.CookieName {
			header.Set("Cookie", c.Name+"="+c.Value)
		}
	}
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", header)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.Eventually(t, func() bool { return ts.Hub.Count(sid) == 1 }, 2*time.Second, 5*time.Millisecond)

	ts.Clock.Advance(3500 * time.Millisecond)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	frag := testutil.ParseHTML(t, msg)
	img := frag.Find("#card-image-1")
	require.Equal(t, "true", img.AttrOr("hx-swap-oob", ""))
	require.Equal(t, "/images/avicennia2.jpeg", img.Find("img").AttrOr("src", ""))
}
