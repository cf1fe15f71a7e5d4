package handlers

import (
	"karangjaladri.id/mangrove-web/internal/content"
	"karangjaladri.id/mangrove-web/internal/i18n"
	"karangjaladri.id/mangrove-web/internal/seo"
	"karangjaladri.id/mangrove-web/internal/ui"
)

// HomeData is the view model for the page and every fragment cut from it.
type HomeData struct {
	V          View
	Lang       string
	Dark       bool
	CSRF       string
	LiveURL    string
	SEO        seo.Meta
	Site       content.SiteInfo
	Header     HeaderData
	Highlights []HighlightView
	Carousel   CarouselData
	Detail     DetailView
	Gallery    GalleryData
	Map        MapData
	Scroll     ScrollData
}

// HighlightView is one tile of the about section.
type HighlightView struct {
	Emoji string
	Title string
	Desc  string
}

// Input collects what BuildHomeData needs.
type Input struct {
	Bundle   *i18n.Bundle
	Store    *content.Store
	Snapshot ui.Snapshot
	CSRF     string
	LiveURL  string
}

// BuildHomeData constructs the landing page view model from a state snapshot.
func BuildHomeData(in Input) HomeData {
	v := NewView(in.Bundle, in.Snapshot.Language)
	site := in.Store.Site()
	d := HomeData{
		V:        v,
		Lang:     v.Lang,
		Dark:     in.Snapshot.Dark,
		CSRF:     in.CSRF,
		LiveURL:  in.LiveURL,
		SEO:      BuildSEO(v, in.Store),
		Site:     site,
		Header:   buildHeader(v, site, in.Snapshot),
		Carousel: buildCarousel(v, in.Store, in.Snapshot),
		Detail:   buildDetail(v, in.Store, in.Snapshot),
		Gallery:  buildGallery(v, in.Snapshot.Gallery),
		Map:      buildMap(v, site, in.Snapshot.Map),
		Scroll:   buildScroll(v, site, in.Snapshot.Scroll),
	}
	for _, h := range site.Highlights {
		d.Highlights = append(d.Highlights, HighlightView{
			Emoji: h.Emoji,
			Title: v.T(h.TitleKey),
			Desc:  v.T(h.DescKey),
		})
	}
	return d
}
