package seo

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlternatesIncludeXDefault(t *testing.T) {
	alts := Alternates("https://mangrove.example.id/", []string{"id", "en"}, "id")
	require.Equal(t, []Alternate{
		{Href: "https://mangrove.example.id/?hl=id", Hreflang: "id"},
		{Href: "https://mangrove.example.id/?hl=en", Hreflang: "en"},
		{Href: "https://mangrove.example.id/?hl=id", Hreflang: "x-default"},
	}, alts)
}

func TestAbsolute(t *testing.T) {
	require.Equal(t, "https://a.example/images/x.jpeg", Absolute("https://a.example", "/images/x.jpeg"))
	require.Equal(t, "/images/x.jpeg", Absolute("", "/images/x.jpeg"))
	require.Equal(t, "https://cdn.example/x", Absolute("https://a.example", "https://cdn.example/x"))
}

func TestTouristAttractionPayload(t *testing.T) {
	m := TouristAttraction(Attraction{
		Name:        "Wisata Mangrove",
		Description: "desc",
		Address:     "Desa Karangjaladri",
		Activities:  []string{"Trekking"},
		Lang:        "id",
	})
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(JSON(m)), &got))
	require.Equal(t, "TouristAttraction", got["@type"])
	require.Equal(t, true, got["isAccessibleForFree"])
	addr := got["address"].(map[string]any)
	require.Equal(t, "PostalAddress", addr["@type"])
	require.NotContains(t, got, "url")
}

func TestScriptEscapesClosingTags(t *testing.T) {
	s := string(Script(map[string]string{"name": "</script><b>"}))
	require.False(t, strings.Contains(s, "</script>"))
	require.Contains(t, s, `\u003c/script\u003e`)
}

func TestFloraListPositions(t *testing.T) {
	m := FloraList("Flora", []Taxon{{Name: "Avicennia sp."}, {Name: "Nypa fruticans", CommonName: "Nipah"}})
	items := m["itemListElement"].([]map[string]any)
	require.Len(t, items, 2)
	require.Equal(t, 2, items[1]["position"])
	require.Equal(t, "Nipah", items[1]["item"].(map[string]any)["alternateName"])
}
