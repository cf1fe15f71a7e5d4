// Package httpserver wires the router, middleware stack and handlers of the
// mangrove site.
package httpserver

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"karangjaladri.id/mangrove-web/internal/content"
	"karangjaladri.id/mangrove-web/internal/gesture"
	"karangjaladri.id/mangrove-web/internal/i18n"
	"karangjaladri.id/mangrove-web/internal/live"
	custommw "karangjaladri.id/mangrove-web/internal/middleware"
	"karangjaladri.id/mangrove-web/internal/observability"
	"karangjaladri.id/mangrove-web/internal/session"
)

// Config holds runtime options and collaborators for the HTTP server.
type Config struct {
	Address        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration

	Renderer *Renderer
	// Assets serves /assets/*. Media, when set, serves /images/* and the
	// background video instead of Assets.
	Assets   fs.FS
	Media    fs.FS
	Bundle   *i18n.Bundle
	Content  *content.Store
	Sessions *session.Store
	Codec    *session.Codec
	Hub      *live.Hub

	// Negotiate picks a new visitor's language from Accept-Language.
	Negotiate      bool
	SwipeThreshold float64
	TrackMouse     bool
	AllowedOrigins []string
	LiveURL        string

	Logger *zap.Logger
}

// New constructs the HTTP server with the middleware stack and all routes.
func New(cfg Config) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.LiveURL == "" {
		cfg.LiveURL = "/ws"
	}
	if cfg.SwipeThreshold <= 0 {
		cfg.SwipeThreshold = gesture.DefaultThreshold
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	// RealIP trusts X-Forwarded-For; deploy behind a proxy that sets it.
	router.Use(chimw.RealIP)
	router.Use(observability.TraceMiddleware)
	router.Use(observability.RequestLogger(logger))
	router.Use(observability.Recoverer(logger))
	router.Use(custommw.HTMX)

	h := &site{
		renderer:       cfg.Renderer,
		bundle:         cfg.Bundle,
		content:        cfg.Content,
		hub:            cfg.Hub,
		swipeThreshold: cfg.SwipeThreshold,
		trackMouse:     cfg.TrackMouse,
		liveURL:        cfg.LiveURL,
	}
	mountRoutes(router, cfg, h)

	return &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

func mountRoutes(router chi.Router, cfg Config, h *site) {
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.Assets != nil {
		router.Handle("/assets/*", custommw.AssetsWithCache(cfg.Assets))
	}
	media := cfg.Media
	if media == nil {
		media = cfg.Assets
	}
	if media != nil {
		h := custommw.AssetsWithCache(media)
		router.Handle("/images/*", h)
		router.Handle("/mangrove-bg.mp4", h)
	}

	visitor := chi.Chain(
		custommw.Session(cfg.Sessions, cfg.Codec),
		custommw.Locale(cfg.Bundle, cfg.Negotiate),
	)

	// The live channel is long-lived: no compression or request timeout.
	router.With(visitor...).Get(cfg.LiveURL, h.Live)

	router.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.Use(chimw.Timeout(cfg.RequestTimeout))

		r.Group(func(r chi.Router) {
			r.Use(visitor...)
			r.Use(custommw.CSRF(cfg.Codec))
			r.Use(custommw.VaryLocale)
			r.Use(custommw.NoStore)

			r.Get("/", h.Home)

			r.Route("/ui", func(r chi.Router) {
				r.Post("/lang", h.ToggleLanguage)
				r.Post("/theme", h.ToggleTheme)
				r.Post("/menu", h.ToggleMenu)
				r.Post("/menu/close", h.CloseMenu)
				r.Post("/scroll", h.Scroll)

				r.Post("/carousel/next", h.NextCard)
				r.Post("/carousel/prev", h.PrevCard)
				r.Post("/carousel/active", h.SetActiveCard)
				r.Post("/carousel/pause", h.PauseCarousel)
				r.Post("/carousel/resume", h.ResumeCarousel)
				r.Post("/carousel/{plantID}/image/{index}", h.JumpImage)

				r.Post("/plants/{plantID}/select", h.SelectPlant)
				r.Post("/plants/close", h.ClosePlant)

				r.Post("/gallery/open", h.OpenGallery)
				r.Post("/gallery/next", h.GalleryNext)
				r.Post("/gallery/prev", h.GalleryPrev)
				r.Post("/gallery/close", h.CloseGallery)
				r.Post("/gallery/swipe", h.Swipe)

				r.Post("/map/zoom", h.ZoomMap)
				r.Post("/map/pan", h.PanMap)
				r.Post("/map/reset", h.ResetMap)
			})
		})

		r.Route("/api", func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: cfg.AllowedOrigins,
				AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
				AllowedHeaders: []string{"Accept", "Accept-Language"},
				MaxAge:         300,
			}))
			r.Get("/plants", h.Plants)
			r.Get("/plants/{plantID}", h.Plant)
		})
	})
}
