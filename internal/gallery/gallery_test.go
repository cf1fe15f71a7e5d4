package gallery

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func images(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = string(rune('a' + i))
	}
	return out
}

func TestNextPrevAreInverse(t *testing.T) {
	for n := 1; n <= 5; n++ {
		for start := 0; start < n; start++ {
			var g Gallery
			g.Open(images(n), start)

			g.Next()
			g.Prev()
			require.Equal(t, start, g.Index(), "prev(next(%d)) with len %d", start, n)

			g.Prev()
			g.Next()
			require.Equal(t, start, g.Index(), "next(prev(%d)) with len %d", start, n)
		}
	}
}

func TestWrapAround(t *testing.T) {
	var g Gallery
	g.Open(images(3), 2)
	g.Next()
	require.Equal(t, 0, g.Index())
	g.Prev()
	require.Equal(t, 2, g.Index())
	require.Equal(t, "c", g.Current())
}

func TestFullCycleReturnsToStart(t *testing.T) {
	var g Gallery
	g.Open(images(3), 1)
	for i := 0; i < 3; i++ {
		g.Next()
	}
	require.Equal(t, 1, g.Index())
	require.Equal(t, "b", g.Current())
}

func TestOpenNormalizesStart(t *testing.T) {
	var g Gallery
	g.Open(images(3), 7)
	require.Equal(t, 1, g.Index())
	g.Open(images(3), -1)
	require.Equal(t, 2, g.Index())
}

func TestOpenCopiesList(t *testing.T) {
	src := images(2)
	var g Gallery
	g.Open(src, 0)
	src[0] = "changed"
	require.Equal(t, "a", g.Current())
}

func TestClosedGalleryIgnoresNavigation(t *testing.T) {
	var g Gallery
	g.Next()
	g.Prev()
	require.False(t, g.IsOpen())
	require.Equal(t, 0, g.Index())
	require.Equal(t, "", g.Current())

	g.Open(nil, 3)
	require.False(t, g.IsOpen())
}

func TestCloseDiscardsState(t *testing.T) {
	var g Gallery
	g.Open(images(4), 3)
	g.Close()
	require.False(t, g.IsOpen())
	require.Zero(t, g.Len())
	require.Zero(t, g.Index())
	require.Empty(t, g.Images())
}
