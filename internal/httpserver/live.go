package httpserver

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"karangjaladri.id/mangrove-web/internal/content"
	"karangjaladri.id/mangrove-web/internal/handlers"
	"karangjaladri.id/mangrove-web/internal/i18n"
	"karangjaladri.id/mangrove-web/internal/live"
	custommw "karangjaladri.id/mangrove-web/internal/middleware"
	"karangjaladri.id/mangrove-web/internal/observability"
	"karangjaladri.id/mangrove-web/internal/session"
	"karangjaladri.id/mangrove-web/internal/ui"
)

// Live upgrades the request to the visitor's push channel. A page that
// connects is running, so the carousel starts cycling before the connection
// is registered.
func (h *site) Live(w http.ResponseWriter, r *http.Request) {
	v, ok := custommw.VisitorFromContext(r.Context())
	if !ok || h.hub == nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	v.State.ResumeCarousel(0)
	if err := h.hub.Serve(w, r, v.ID); err != nil {
		// the upgrader has already answered the client
		observability.FromContext(r.Context()).Warn("live upgrade failed", zap.Error(err))
	}
}

// SessionsConfig collects what NewSessions needs to build visitor states.
type SessionsConfig struct {
	TTL          time.Duration
	ProbationTTL time.Duration
	MaxSessions  int
	Content      *content.Store
	Bundle       *i18n.Bundle
	Renderer     *Renderer
	Hub          *live.Hub
	State        ui.Options
	Logger       *zap.Logger
}

// NewSessions returns a session store whose states push each automatic card
// image change to the visitor's live connections as an out-of-band fragment.
// Evicted sessions lose their connections.
func NewSessions(cfg SessionsConfig) *session.Store {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := cfg.State
	if opts.Logger == nil {
		opts.Logger = logger
	}
	factory := func(id string) *ui.State {
		st := ui.New(cfg.Content, cfg.Bundle, opts)
		if cfg.Hub != nil && cfg.Renderer != nil {
			st.OnAdvance(func(plantID, _ int) {
				pushCard(cfg, logger, id, st, plantID)
			})
		}
		return st
	}
	store := session.NewStore(cfg.TTL, factory, logger,
		session.WithProbation(cfg.ProbationTTL),
		session.WithMaxSessions(cfg.MaxSessions))
	if cfg.Hub != nil {
		store.OnEvict(cfg.Hub.Drop)
	}
	return store
}

func pushCard(cfg SessionsConfig, logger *zap.Logger, sid string, st *ui.State, plantID int) {
	if cfg.Hub.Count(sid) == 0 {
		return
	}
	snap := st.Snapshot()
	card, err := handlers.BuildCard(handlers.NewView(cfg.Bundle, snap.Language), cfg.Content, snap, plantID)
	if err != nil {
		logger.Warn("build pushed card", zap.Int("plant_id", plantID), zap.Error(err))
		return
	}
	card.OOB = true
	html, err := cfg.Renderer.Bytes(context.Background(), "card_image", card)
	if err != nil {
		logger.Error("render pushed card", zap.Int("plant_id", plantID), zap.Error(err))
		return
	}
	cfg.Hub.Send(sid, html)
}
