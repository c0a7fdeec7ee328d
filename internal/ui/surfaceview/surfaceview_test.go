package surfaceview

import (
	"context"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/surfaces/internal/cachemanager"
	"github.com/zjrosen/surfaces/internal/deck"
	"github.com/zjrosen/surfaces/internal/surface"
	"github.com/zjrosen/surfaces/internal/surface/binder"
	"github.com/zjrosen/surfaces/internal/surface/focus"
	"github.com/zjrosen/surfaces/internal/ui/markdown"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.ANSI256)
	m.Run()
}

func newRenderer() *Renderer {
	cache := cachemanager.NewInMemoryCacheManager[string, string](
		"surfaceview-test", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	return New(markdown.NewCached("dark", cache))
}

func cardOcc() binder.Occurrence {
	return binder.Occurrence{
		Position: "0",
		Coord:    surface.Coordinate{ID: 1, Instance: 0},
	}
}

func TestRender_CardShowsTitleAndBody(t *testing.T) {
	r := newRenderer()
	node := deck.Node{ID: 1, Kind: deck.KindCard, Title: "Hello", Body: "card body text"}

	out, err := r.Render(context.Background(), node, cardOcc(), focus.State{}, 60, nil)
	require.NoError(t, err)

	plain := ansi.Strip(out)
	require.Contains(t, plain, "Hello")
	require.Contains(t, plain, "card body text")
}

func TestRender_UntitledCardFallsBackToID(t *testing.T) {
	r := newRenderer()
	node := deck.Node{ID: 7, Kind: deck.KindCard}

	out, err := r.Render(context.Background(), node, cardOcc(), focus.State{}, 60, nil)
	require.NoError(t, err)
	require.Contains(t, ansi.Strip(out), "surface 7")
}

func TestRender_OverlayBadgeShowsCoordinate(t *testing.T) {
	r := newRenderer()
	node := deck.Node{ID: 1, Kind: deck.KindCard, Title: "Hello"}
	parent := surface.Coordinate{ID: 2, Instance: 0}
	occ := binder.Occurrence{
		Position: "1/0",
		Coord:    surface.Coordinate{ID: 1, Instance: 1},
		Parent:   &parent,
	}

	out, err := r.Render(context.Background(), node, occ, focus.State{OverlaysVisible: true}, 60, nil)
	require.NoError(t, err)

	plain := ansi.Strip(out)
	require.Contains(t, plain, "1/1")
	require.Contains(t, plain, "2/0")
}

func TestRender_OverlayHiddenByDefault(t *testing.T) {
	r := newRenderer()
	node := deck.Node{ID: 1, Kind: deck.KindCard, Title: "Hello"}

	out, err := r.Render(context.Background(), node, cardOcc(), focus.State{}, 60, nil)
	require.NoError(t, err)
	require.NotContains(t, ansi.Strip(out), "1/0")
}

func TestRender_FocusedFrameDiffers(t *testing.T) {
	r := newRenderer()
	node := deck.Node{ID: 1, Kind: deck.KindCard, Title: "Hello", Body: "body"}
	occ := cardOcc()

	unfocused, err := r.Render(context.Background(), node, occ, focus.State{}, 60, nil)
	require.NoError(t, err)

	st := focus.State{Focused: true, Focus: occ.Coord}
	focused, err := r.Render(context.Background(), node, occ, st, 60, nil)
	require.NoError(t, err)

	require.NotEqual(t, unfocused, focused, "focus should change the frame styling")
	require.Equal(t, ansi.Strip(unfocused), ansi.Strip(focused), "content must be identical")
}

func TestRender_FocusOnOtherInstanceDoesNotFrame(t *testing.T) {
	r := newRenderer()
	node := deck.Node{ID: 1, Kind: deck.KindCard, Title: "Hello"}
	occ := cardOcc() // instance 0

	st := focus.State{Focused: true, Focus: surface.Coordinate{ID: 1, Instance: 1}}
	other, err := r.Render(context.Background(), node, occ, st, 60, nil)
	require.NoError(t, err)

	plain, err := r.Render(context.Background(), node, occ, focus.State{}, 60, nil)
	require.NoError(t, err)

	require.Equal(t, plain, other, "a sibling instance's focus must not highlight this one")
}

func TestRender_RowJoinsChildrenHorizontally(t *testing.T) {
	r := newRenderer()
	node := deck.Node{ID: 2, Kind: deck.KindRow, Title: "Row"}

	out, err := r.Render(context.Background(), node, cardOcc(), focus.State{}, 80,
		[]string{"left", "right"})
	require.NoError(t, err)

	plain := ansi.Strip(out)
	require.Contains(t, plain, "leftright")
}

func TestRender_StackJoinsChildrenVertically(t *testing.T) {
	r := newRenderer()
	node := deck.Node{ID: 4, Kind: deck.KindStack, Title: "Stack"}

	out, err := r.Render(context.Background(), node, cardOcc(), focus.State{}, 80,
		[]string{"top", "bottom"})
	require.NoError(t, err)

	plain := ansi.Strip(out)
	require.Contains(t, plain, "top")
	require.Contains(t, plain, "bottom")
	require.NotContains(t, plain, "topbottom")
}

func TestRender_UnknownKindIsError(t *testing.T) {
	r := newRenderer()
	node := deck.Node{ID: 9, Kind: deck.Kind(42)}

	_, err := r.Render(context.Background(), node, cardOcc(), focus.State{}, 60, nil)

	var ukerr *deck.UnknownKindError
	require.ErrorAs(t, err, &ukerr)
	require.Equal(t, deck.Kind(42), ukerr.Kind)
}

func TestRender_TruncatesLongTitle(t *testing.T) {
	r := newRenderer()
	long := "this title is much longer than the frame it must fit into, by far"
	node := deck.Node{ID: 1, Kind: deck.KindCard, Title: long}

	out, err := r.Render(context.Background(), node, cardOcc(), focus.State{}, 30, nil)
	require.NoError(t, err)

	plain := ansi.Strip(out)
	require.NotContains(t, plain, long)
	require.Contains(t, plain, "…")
}
