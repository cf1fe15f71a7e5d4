package handlers

import (
	"fmt"
	"html/template"

	"karangjaladri.id/mangrove-web/internal/carousel"
	"karangjaladri.id/mangrove-web/internal/content"
	"karangjaladri.id/mangrove-web/internal/format"
	"karangjaladri.id/mangrove-web/internal/mapview"
	"karangjaladri.id/mangrove-web/internal/nav"
	"karangjaladri.id/mangrove-web/internal/scroll"
	"karangjaladri.id/mangrove-web/internal/ui"
)

// HeaderData renders the sticky header and the mobile menu.
type HeaderData struct {
	V          View
	Title      string
	Logo       string
	Nav        []nav.RenderedItem
	MenuOpen   bool
	Dark       bool
	ThemeLabel string
	LangLabel  string
	LangShort  string
}

// Dot is one pagination dot of a card.
type Dot struct {
	PlantID int
	Index   int
	Active  bool
}

// CardView renders one carousel card.
type CardView struct {
	V               View
	PlantID         int
	Name            string
	CommonName      string
	Summary         string
	Characteristics []string
	Image           string
	Index           int
	Count           int
	Counter         string
	Active          bool
	Cycling         bool
	Dots            []Dot
	// OOB marks the card image for an out-of-band swap.
	OOB bool
}

// CarouselData renders the flora section.
type CarouselData struct {
	V      View
	Active int
	Cards  []CardView
}

// ImageView is one thumbnail of the detail grid.
type ImageView struct {
	PlantID int
	Src     string
	Index   int
	Alt     string
}

// DetailView renders the detail overlay. Open is false when nothing is selected.
type DetailView struct {
	V               View
	Open            bool
	PlantID         int
	Name            string
	CommonName      string
	Description     template.HTML
	Characteristics []string
	Images          []ImageView
}

// GalleryData renders the lightbox.
type GalleryData struct {
	V       View
	Open    bool
	PlantID int
	Current string
	Index   int
	Count   int
	Counter string
	Alt     string
}

// LegendItem is one coloured entry of the map legend.
type LegendItem struct {
	Key   string
	Label string
	Color string
}

// MapData renders the zoomable map.
type MapData struct {
	V         View
	Image     string
	Transform template.CSS
	Scale     float64
	Zoomed    bool
	Legend    []LegendItem
	Types     []content.Swatch
}

// ScrollData renders the progress bar, the scroll-to-top button and the hero
// parallax offset.
type ScrollData struct {
	V             View
	Width         template.CSS
	ProgressLabel string
	ShowTop       bool
	Parallax      template.CSS
	HeroVideo     string
	OOB           bool
}

func buildCard(v View, p content.Plant, st carousel.CardState) CardView {
	cv := CardView{
		V:               v,
		PlantID:         p.ID,
		Name:            p.Name,
		CommonName:      p.CommonNameIn(v.Lang),
		Summary:         p.Summary(v.Lang),
		Characteristics: p.CharacteristicsIn(v.Lang),
		Image:           p.Image(st.Index),
		Index:           st.Index,
		Count:           p.ImageCount(),
		Counter:         format.Counter(st.Index, p.ImageCount()),
		Active:          st.Active,
		Cycling:         st.Cycling,
	}
	if cv.Count > 1 {
		cv.Dots = make([]Dot, cv.Count)
		for i := range cv.Dots {
			cv.Dots[i] = Dot{PlantID: p.ID, Index: i, Active: i == st.Index}
		}
	}
	return cv
}

func buildCarousel(v View, store *content.Store, snap ui.Snapshot) CarouselData {
	plants := store.Plants()
	d := CarouselData{V: v, Active: snap.ActiveCard, Cards: make([]CardView, 0, len(plants))}
	for _, p := range plants {
		st, _ := snap.Card(p.ID)
		d.Cards = append(d.Cards, buildCard(v, p, st))
	}
	return d
}

// BuildCard renders the card of plantID from snap.
func BuildCard(v View, store *content.Store, snap ui.Snapshot, plantID int) (CardView, error) {
	p, err := store.Plant(plantID)
	if err != nil {
		return CardView{}, err
	}
	st, ok := snap.Card(plantID)
	if !ok {
		return CardView{}, fmt.Errorf("card %d: %w", plantID, carousel.ErrUnknownCard)
	}
	return buildCard(v, p, st), nil
}

func buildDetail(v View, store *content.Store, snap ui.Snapshot) DetailView {
	if !snap.HasSelection {
		return DetailView{V: v}
	}
	p, err := store.Plant(snap.Selected)
	if err != nil {
		return DetailView{V: v}
	}
	d := DetailView{
		V:               v,
		Open:            true,
		PlantID:         p.ID,
		Name:            p.Name,
		CommonName:      p.CommonNameIn(v.Lang),
		Description:     p.DescriptionHTML(v.Lang),
		Characteristics: p.CharacteristicsIn(v.Lang),
	}
	for i, src := range p.Images {
		d.Images = append(d.Images, ImageView{
			PlantID: p.ID,
			Src:     src,
			Index:   i,
			Alt:     fmt.Sprintf("%s %d", p.Name, i+1),
		})
	}
	return d
}

func buildGallery(v View, g ui.GalleryView) GalleryData {
	if !g.Open {
		return GalleryData{V: v}
	}
	return GalleryData{
		V:       v,
		Open:    true,
		PlantID: g.PlantID,
		Current: g.Current,
		Index:   g.Index,
		Count:   len(g.Images),
		Counter: format.Counter(g.Index, len(g.Images)),
		Alt:     v.T("gallery.imageAlt"),
	}
}

func buildMap(v View, site content.SiteInfo, vp mapview.Viewport) MapData {
	d := MapData{
		V:         v,
		Image:     site.MapImage,
		Transform: template.CSS(vp.CSS()),
		Scale:     vp.Scale,
		Zoomed:    vp.Zoomed(),
		Types:     site.MangroveTypes,
	}
	if v.bundle != nil {
		for _, e := range v.bundle.Entries(v.Lang, "map.legendItems") {
			d.Legend = append(d.Legend, LegendItem{
				Key:   e.Key,
				Label: e.Value.Text,
				Color: site.LegendColors[e.Key],
			})
		}
	}
	return d
}

func buildScroll(v View, site content.SiteInfo, pos scroll.Position) ScrollData {
	return ScrollData{
		V:             v,
		Width:         template.CSS(format.CSSPercent(pos.Progress)),
		ProgressLabel: format.Percent(pos.Progress, v.Lang),
		ShowTop:       pos.ShowTop,
		Parallax:      template.CSS("translateY(" + format.Pixels(pos.Parallax) + ")"),
		HeroVideo:     site.HeroVideo,
	}
}

// BuildScroll renders the scroll-driven fragments for pos.
func BuildScroll(v View, store *content.Store, pos scroll.Position) ScrollData {
	return buildScroll(v, store.Site(), pos)
}

func buildHeader(v View, site content.SiteInfo, snap ui.Snapshot) HeaderData {
	theme := v.T("header.toggleTheme.dark")
	if snap.Dark {
		theme = v.T("header.toggleTheme.light")
	}
	return HeaderData{
		V:          v,
		Title:      v.T("header.title"),
		Logo:       site.Logo,
		Nav:        nav.Sections(v.bundle, v.Lang, "home"),
		MenuOpen:   snap.MenuOpen,
		Dark:       snap.Dark,
		ThemeLabel: theme,
		LangLabel:  v.T("header.toggleLanguage"),
		LangShort:  v.T("header.toggleLanguageShort"),
	}
}
