package httpserver

import (
	"net/http"

	"karangjaladri.id/mangrove-web/internal/content"
	"karangjaladri.id/mangrove-web/internal/httpx"
)

// PlantJSON is the public feed shape of a plant. With a language it carries
// only that language's text.
type PlantJSON struct {
	ID              int      `json:"id"`
	Slug            string   `json:"slug"`
	Name            string   `json:"name"`
	CommonName      any      `json:"commonName"`
	Description     any      `json:"description"`
	Characteristics any      `json:"characteristics"`
	Images          []string `json:"images"`
}

// PlantsJSON is the feed envelope.
type PlantsJSON struct {
	Language string      `json:"language,omitempty"`
	Plants   []PlantJSON `json:"plants"`
}

func plantJSON(p content.Plant, lang string) PlantJSON {
	out := PlantJSON{ID: p.ID, Slug: p.Slug, Name: p.Name, Images: p.Images}
	if lang == "" {
		out.CommonName = p.CommonName
		out.Description = p.Description
		out.Characteristics = p.Characteristics
		return out
	}
	out.CommonName = p.CommonNameIn(lang)
	out.Description = p.Summary(lang)
	out.Characteristics = p.CharacteristicsIn(lang)
	return out
}

// feedLang validates the optional lang query value.
func (h *site) feedLang(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := r.URL.Query().Get("lang")
	if raw == "" {
		return "", true
	}
	lang := h.bundle.Normalize(raw)
	if lang == "" {
		httpx.BadRequest(w, r, "unsupported language")
		return "", false
	}
	return lang, true
}

// Plants serves the flora catalogue as JSON.
func (h *site) Plants(w http.ResponseWriter, r *http.Request) {
	lang, ok := h.feedLang(w, r)
	if !ok {
		return
	}
	resp := PlantsJSON{Language: lang}
	for _, p := range h.content.Plants() {
		resp.Plants = append(resp.Plants, plantJSON(p, lang))
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// Plant serves one plant as JSON.
func (h *site) Plant(w http.ResponseWriter, r *http.Request) {
	lang, ok := h.feedLang(w, r)
	if !ok {
		return
	}
	id, err := pathInt(r, "plantID")
	if err != nil {
		httpx.BadRequest(w, r, "plant id must be an integer")
		return
	}
	p, err := h.content.Plant(id)
	if err != nil {
		writeStateError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	httpx.WriteJSON(w, http.StatusOK, plantJSON(p, lang))
}
