package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/surfaces/internal/config"
	"github.com/zjrosen/surfaces/internal/deck"
	"github.com/zjrosen/surfaces/internal/surface"
	"github.com/zjrosen/surfaces/internal/surface/binder"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.ANSI256)
	zone.NewGlobal()
	m.Run()
}

func newDemoModel(t *testing.T) *Model {
	t.Helper()
	m := New(config.Defaults(), "", deck.Demo(), nil, nil)
	t.Cleanup(func() { _ = m.Close() })

	_, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func pressKey(m *Model, r rune) {
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func TestNew_DemoDeckRegistersSharedOccurrences(t *testing.T) {
	m := newDemoModel(t)

	// Card 1 renders at three positions; all register on first layout.
	require.Equal(t, []int{0, 1, 2}, m.reg.Instances(1))
	require.Equal(t, []int{0}, m.reg.Instances(2))
	require.Equal(t, []surface.ID{1, 2, 3, 4, 5}, m.ids)
}

func TestView_ShowsToolbarAndHelpBar(t *testing.T) {
	m := newDemoModel(t)

	plain := ansi.Strip(m.View())
	require.Contains(t, plain, "Demo deck")
	require.Contains(t, plain, "1:1")
	require.Contains(t, plain, "tab cycle")
}

func TestView_BeforeFirstSize(t *testing.T) {
	m := New(config.Defaults(), "", deck.Demo(), nil, nil)
	t.Cleanup(func() { _ = m.Close() })

	require.Equal(t, "loading…", m.View())
}

func TestHandleKey_DigitFocusesSurface(t *testing.T) {
	m := newDemoModel(t)

	pressKey(m, '1')

	st := m.store.State()
	require.True(t, st.Focused)
	require.Equal(t, surface.Coordinate{ID: 1, Instance: 0}, st.Focus)
}

func TestHandleKey_RepeatedDigitCyclesInstances(t *testing.T) {
	m := newDemoModel(t)

	pressKey(m, '1')
	pressKey(m, '1')
	require.Equal(t, 1, m.store.State().Focus.Instance)

	pressKey(m, '1')
	pressKey(m, '1')
	require.Equal(t, 0, m.store.State().Focus.Instance, "three occurrences wrap after the third")
}

func TestHandleKey_TabCyclesFocusedID(t *testing.T) {
	m := newDemoModel(t)

	pressKey(m, '1')
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})

	require.Equal(t, surface.Coordinate{ID: 1, Instance: 1}, m.store.State().Focus)
}

func TestHandleKey_TabWithoutFocusIsNoOp(t *testing.T) {
	m := newDemoModel(t)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.False(t, m.store.State().Focused)
}

func TestHandleKey_DigitBeyondIDsIsNoOp(t *testing.T) {
	m := newDemoModel(t)

	pressKey(m, '9')
	require.False(t, m.store.State().Focused)
}

func TestHandleKey_ToggleOverlays(t *testing.T) {
	m := newDemoModel(t)

	pressKey(m, 'o')
	require.True(t, m.store.State().OverlaysVisible)

	pressKey(m, 'o')
	require.False(t, m.store.State().OverlaysVisible)
}

func TestHandleKey_CollapseUnmountsChildren(t *testing.T) {
	m := newDemoModel(t)

	// Focus the stack (ID 4, fourth toolbar slot) and collapse it. Its
	// nested copy of card 1 unmounts; the exact instance goes away.
	pressKey(m, '4')
	pressKey(m, 'c')

	require.Equal(t, []int{0, 1}, m.reg.Instances(1))
	require.Empty(t, m.reg.Instances(5))

	// Expanding remounts the nested copy with a fresh number.
	pressKey(m, 'c')
	require.Equal(t, []int{0, 1, 2}, m.reg.Instances(1))
}

func TestHandleKey_CollapseOnCardIsNoOp(t *testing.T) {
	m := newDemoModel(t)

	pressKey(m, '1') // card 1
	pressKey(m, 'c')

	require.Equal(t, []int{0, 1, 2}, m.reg.Instances(1))
	require.Empty(t, m.collapsed)
}

func TestHandleKey_QuitTearsDown(t *testing.T) {
	m := New(config.Defaults(), "", deck.Demo(), nil, nil)
	_, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	require.Equal(t, tea.Quit(), cmd())
	require.Empty(t, m.reg.Instances(1), "quit should unmount everything")
}

func TestApplyReload_ErrorKeepsDeckAndShowsStatus(t *testing.T) {
	m := newDemoModel(t)
	before := m.reg.Instances(1)

	_, _ = m.Update(deckReloadedMsg{err: &deck.ValidationError{Path: "0", Reason: "missing id"}})

	require.Contains(t, m.statusErr, "missing id")
	require.Equal(t, before, m.reg.Instances(1), "failed reload must not disturb mounts")
	require.Contains(t, ansi.Strip(m.View()), "missing id")
}

func TestApplyReload_SwapsDeck(t *testing.T) {
	m := newDemoModel(t)

	next := &deck.Deck{
		Title: "Replaced",
		Roots: []deck.Node{
			{ID: 7, Kind: deck.KindCard, Title: "New card", Body: "hi"},
		},
	}
	_, _ = m.Update(deckReloadedMsg{deck: next, source: []byte("title: Replaced\n")})

	require.Empty(t, m.reg.Instances(1), "old occurrences unmount")
	require.Equal(t, []int{0}, m.reg.Instances(7))
	require.Equal(t, []surface.ID{7}, m.ids)
	require.Contains(t, ansi.Strip(m.View()), "Replaced")
}

func TestOverlays_ConfigStartsVisible(t *testing.T) {
	cfg := config.Defaults()
	cfg.UI.Overlays = true

	m := New(cfg, "", deck.Demo(), nil, nil)
	t.Cleanup(func() { _ = m.Close() })

	require.True(t, m.store.State().OverlaysVisible)
}

func TestDesiredMounts_PreorderWithParents(t *testing.T) {
	roots := deck.Demo().Roots

	mounts := desiredMounts(roots, nil)

	require.Equal(t, []binder.Mount{
		{Position: "0", ID: 1, Parent: ""},
		{Position: "1", ID: 2, Parent: ""},
		{Position: "1/0", ID: 1, Parent: "1"},
		{Position: "1/1", ID: 3, Parent: "1"},
		{Position: "2", ID: 4, Parent: ""},
		{Position: "2/0", ID: 1, Parent: "2"},
		{Position: "2/1", ID: 5, Parent: "2"},
	}, mounts)
}

func TestDesiredMounts_SkipsCollapsedChildren(t *testing.T) {
	roots := deck.Demo().Roots

	mounts := desiredMounts(roots, map[string]bool{"1": true})

	positions := make([]string, 0, len(mounts))
	for _, mt := range mounts {
		positions = append(positions, mt.Position)
	}
	require.Equal(t, []string{"0", "1", "2", "2/0", "2/1"}, positions)
}

func TestNodeAtPath(t *testing.T) {
	roots := deck.Demo().Roots

	node, ok := nodeAtPath(roots, "1/1")
	require.True(t, ok)
	require.Equal(t, surface.ID(3), node.ID)

	_, ok = nodeAtPath(roots, "9")
	require.False(t, ok)
	_, ok = nodeAtPath(roots, "1/x")
	require.False(t, ok)
}
