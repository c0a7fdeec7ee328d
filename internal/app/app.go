// Package app contains the root application model.
package app

import (
	"context"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/surfaces/internal/cachemanager"
	"github.com/zjrosen/surfaces/internal/config"
	"github.com/zjrosen/surfaces/internal/deck"
	"github.com/zjrosen/surfaces/internal/keys"
	"github.com/zjrosen/surfaces/internal/log"
	"github.com/zjrosen/surfaces/internal/pubsub"
	"github.com/zjrosen/surfaces/internal/surface"
	"github.com/zjrosen/surfaces/internal/surface/binder"
	"github.com/zjrosen/surfaces/internal/surface/focus"
	"github.com/zjrosen/surfaces/internal/surface/registry"
	"github.com/zjrosen/surfaces/internal/ui/markdown"
	"github.com/zjrosen/surfaces/internal/ui/surfaceview"
	"github.com/zjrosen/surfaces/internal/watcher"
)

// reservedRows is the vertical space taken by toolbar and help bar.
const reservedRows = 2

// deckReloadedMsg carries the result of an async deck reload.
type deckReloadedMsg struct {
	deck   *deck.Deck
	source []byte
	err    error
}

// Model is the root application state.
type Model struct {
	cfg      config.Config
	deckPath string // "" means the built-in demo deck

	// Core state: registry, focus store, lifecycle binder.
	reg    *registry.Registry
	store  *focus.Store
	binder *binder.Binder

	deck       *deck.Deck
	deckSource []byte
	ids        []surface.ID

	// Rendering
	renderer    *surfaceview.Renderer
	renderCache cachemanager.CacheManager[string, string]
	viewport    viewport.Model
	ready       bool
	width       int
	height      int
	collapsed   map[string]bool // position -> children hidden
	lineOffsets map[string]int  // position -> first content line
	statusErr   string

	keys keys.KeyMap

	// Reactive plumbing
	ctx             context.Context
	cancel          context.CancelFunc
	focusListener   *pubsub.ContinuousListener[focus.State]
	watcherHandle   *watcher.Watcher
	watcherListener *pubsub.ContinuousListener[watcher.Event]
}

// New creates the application model. d is the already-loaded deck;
// source is its raw bytes ("" for the demo deck). tracer may be nil.
func New(cfg config.Config, deckPath string, d *deck.Deck, source []byte, tracer trace.Tracer) *Model {
	reg := registry.New()

	var storeOpts []focus.Option
	if tracer != nil {
		storeOpts = append(storeOpts, focus.WithTracer(tracer))
	}
	store := focus.NewStore(reg, storeOpts...)

	ctx, cancel := context.WithCancel(context.Background())

	cache := cachemanager.NewInMemoryCacheManager[string, string](
		"markdown", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)

	m := &Model{
		cfg:           cfg,
		deckPath:      deckPath,
		reg:           reg,
		store:         store,
		binder:        binder.New(reg),
		deck:          d,
		deckSource:    source,
		ids:           deck.IdentifierList(d.Roots),
		renderer:      surfaceview.New(markdown.NewCached(cfg.UI.MarkdownStyle, cache)),
		renderCache:   cache,
		collapsed:     make(map[string]bool),
		lineOffsets:   make(map[string]int),
		keys:          keys.DefaultKeyMap(),
		ctx:           ctx,
		cancel:        cancel,
		focusListener: pubsub.NewContinuousListener(ctx, store.Broker()),
	}

	if cfg.UI.Overlays {
		store.Dispatch(ctx, focus.ToggleOverlays{})
	}

	if cfg.AutoReload && deckPath != "" {
		w, err := watcher.New(watcher.DefaultConfig(deckPath))
		if err == nil && w.Start() == nil {
			m.watcherHandle = w
			m.watcherListener = pubsub.NewContinuousListener(ctx, w.Broker())
		}
		// The app works fine without auto-reload; ignore watcher errors.
	}

	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.focusListener.Listen()}
	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Listen())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := max(msg.Height-reservedRows, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		// Wrap widths changed; cached renders are stale.
		_ = m.renderCache.Flush(m.ctx)
		m.rebuild()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case pubsub.Event[focus.State]:
		// A fresh snapshot: re-render first, then run the deferred
		// bring-into-view effect against the frame that now exists.
		m.rebuild()
		m.binder.Observe(msg.Payload)
		if occ, ok := m.binder.TakeScrollTarget(); ok {
			m.scrollTo(occ)
		}
		return m, m.focusListener.Listen()

	case pubsub.Event[watcher.Event]:
		return m, tea.Batch(m.reloadCmd(), m.watcherListener.Listen())

	case deckReloadedMsg:
		m.applyReload(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.teardown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.viewport.ScrollUp(1)

	case key.Matches(msg, m.keys.Down):
		m.viewport.ScrollDown(1)

	case key.Matches(msg, m.keys.ClearScroll):
		m.viewport.GotoTop()

	case key.Matches(msg, m.keys.FocusDigit):
		if len(msg.Runes) == 0 {
			break
		}
		idx := int(msg.Runes[0]-'0') - 1
		if idx >= 0 && idx < len(m.ids) {
			m.store.Dispatch(m.ctx, focus.FocusSurface{ID: m.ids[idx]})
		}

	case key.Matches(msg, m.keys.CycleFocus):
		if st := m.store.State(); st.Focused {
			m.store.Dispatch(m.ctx, focus.FocusSurface{ID: st.Focus.ID})
		}

	case key.Matches(msg, m.keys.ToggleOverlays):
		m.store.Dispatch(m.ctx, focus.ToggleOverlays{})

	case key.Matches(msg, m.keys.Collapse):
		m.toggleCollapse()

	case key.Matches(msg, m.keys.Reload):
		if m.deckPath != "" {
			return m, m.reloadCmd()
		}
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	for _, id := range m.ids {
		if z := zone.Get(makeToolbarZoneID(id)); z != nil && z.InBounds(msg) {
			m.store.Dispatch(m.ctx, focus.FocusSurface{ID: id})
			return m, nil
		}
	}

	// Innermost zone wins: walk occurrences deepest-first so clicking a
	// card nested in a stack focuses the card, not the stack.
	occs := m.binder.Occurrences()
	for i := len(occs) - 1; i >= 0; i-- {
		occ := occs[i]
		if z := zone.Get(makeSurfaceZoneID(occ.Handle)); z != nil && z.InBounds(msg) {
			m.store.Dispatch(m.ctx, focus.FocusSurface{ID: occ.Coord.ID})
			return m, nil
		}
	}
	return m, nil
}

// toggleCollapse hides or reveals the children of the focused
// container, which unmounts and remounts their occurrences.
func (m *Model) toggleCollapse() {
	st := m.store.State()
	if !st.Focused {
		return
	}
	occ, ok := m.binder.ByCoordinate(st.Focus)
	if !ok {
		return
	}
	node, ok := m.nodeAt(occ.Position)
	if !ok || node.Kind == deck.KindCard {
		return
	}
	m.collapsed[occ.Position] = !m.collapsed[occ.Position]
	m.rebuild()
}

// reloadCmd reads and parses the deck file off the update loop.
func (m *Model) reloadCmd() tea.Cmd {
	path := m.deckPath
	return func() tea.Msg {
		data, err := os.ReadFile(path) //nolint:gosec // G304: user-chosen deck file
		if err != nil {
			return deckReloadedMsg{err: err}
		}
		d, err := deck.Parse(data)
		if err != nil {
			return deckReloadedMsg{err: err}
		}
		return deckReloadedMsg{deck: d, source: data}
	}
}

func (m *Model) applyReload(msg deckReloadedMsg) {
	if msg.err != nil {
		m.statusErr = msg.err.Error()
		log.ErrorErr(log.CatDeck, "deck reload failed", msg.err)
		return
	}
	if diff := deck.SourceDiff(m.deckSource, msg.source); diff != "" {
		log.Debug(log.CatDeck, "deck changed", "patch", diff)
	}
	m.statusErr = ""
	m.deck = msg.deck
	m.deckSource = msg.source
	m.ids = deck.IdentifierList(msg.deck.Roots)
	m.collapsed = make(map[string]bool)
	_ = m.renderCache.Flush(m.ctx)
	// Sync inside rebuild unmounts vanished positions and mounts new
	// ones. A focus pointer left behind by a vanished occurrence stays
	// stale until the next focus command recomputes it.
	m.rebuild()
}

// nodeAt resolves a position key ("1/0") back to its deck node.
func (m *Model) nodeAt(position string) (deck.Node, bool) {
	return nodeAtPath(m.deck.Roots, position)
}

// Close releases watcher and broker resources. Safe to call twice.
func (m *Model) Close() error {
	m.teardown()
	return nil
}

func (m *Model) teardown() {
	m.cancel()
	if m.watcherHandle != nil {
		_ = m.watcherHandle.Stop()
		m.watcherHandle = nil
	}
	m.binder.Unmount()
	m.store.Close()
}
