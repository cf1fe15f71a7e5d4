package handlers

import (
	"karangjaladri.id/mangrove-web/internal/content"
	"karangjaladri.id/mangrove-web/internal/seo"
)

// BuildSEO fills head metadata for the page in v's language.
func BuildSEO(v View, store *content.Store) seo.Meta {
	site := store.Site()
	title := v.T("header.title")
	desc := v.T("hero.description")
	image := ""
	if plants := store.Plants(); len(plants) > 0 && len(plants[0].Images) > 0 {
		image = seo.Absolute(site.BaseURL, plants[0].Images[0])
	}
	canonical := seo.Absolute(site.BaseURL, "/?hl="+v.Lang)

	m := seo.Meta{
		Title:       title,
		Description: desc,
		Canonical:   canonical,
		Robots:      "index,follow",
		OG: seo.OpenGraph{
			Title:       title,
			Description: desc,
			Image:       image,
			Type:        "website",
			URL:         canonical,
			SiteName:    site.Name,
			Locale:      seo.OGLocale(v.Lang),
		},
		Twitter: seo.Twitter{Card: "summary_large_image", Image: image},
	}
	if v.bundle != nil {
		m.Alternates = seo.Alternates(site.BaseURL, v.bundle.Supported(), v.bundle.Primary())
	}

	sameAs := make([]string, 0, len(site.Social))
	for _, l := range site.Social {
		sameAs = append(sameAs, l.URL)
	}
	taxa := make([]seo.Taxon, 0, store.Len())
	for _, p := range store.Plants() {
		taxa = append(taxa, seo.Taxon{
			Name:        p.Name,
			CommonName:  p.CommonNameIn(v.Lang),
			Description: p.Summary(v.Lang),
			Image:       seo.Absolute(site.BaseURL, p.Image(0)),
		})
	}
	m.JSONLD = append(m.JSONLD,
		seo.Script(seo.TouristAttraction(seo.Attraction{
			Name:        site.Name,
			Description: desc,
			URL:         seo.Absolute(site.BaseURL, "/"),
			Image:       image,
			Address:     site.Contact.Address,
			MapURL:      site.Contact.MapsURL,
			Activities:  v.L("activities.list"),
			Lang:        v.Lang,
		})),
		seo.Script(seo.Organization(site.Name, site.Contact.Website, seo.Absolute(site.BaseURL, site.Logo), site.Contact.Email, sameAs)),
		seo.Script(seo.WebSite(site.Name, seo.Absolute(site.BaseURL, "/"), v.Lang)),
		seo.Script(seo.FloraList(v.T("flora.title"), taxa)),
	)
	return m
}
