package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/surfaces/internal/deck"
	"github.com/zjrosen/surfaces/internal/log"
	"github.com/zjrosen/surfaces/internal/surface/binder"
	"github.com/zjrosen/surfaces/internal/surface/focus"
	"github.com/zjrosen/surfaces/internal/ui/styles"
	"github.com/zjrosen/surfaces/internal/ui/surfaceview"
)

// minChildWidth keeps row children readable however many there are.
const minChildWidth = 16

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "loading…"
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		m.toolbarView(),
		m.viewport.View(),
		m.helpBarView(),
	)
	return zone.Scan(view)
}

// rebuild recomputes desired occurrences, syncs the binder, and
// re-renders the viewport content. Registration happens before any
// focus command issued afterwards can be matched; the render pass below
// reads the instances the sync just assigned.
func (m *Model) rebuild() {
	if !m.ready || m.deck == nil {
		return
	}

	m.binder.Sync(desiredMounts(m.deck.Roots, m.collapsed))

	st := m.store.State()
	m.lineOffsets = make(map[string]int)

	blocks := make([]string, 0, len(m.deck.Roots))
	offset := 0
	for i, root := range m.deck.Roots {
		pos := strconv.Itoa(i)
		frame, offsets, err := m.renderNode(root, pos, st, m.viewport.Width)
		if err != nil {
			m.statusErr = err.Error()
			log.ErrorErr(log.CatUI, "render failed", err, "position", pos)
			continue
		}
		for p, rel := range offsets {
			m.lineOffsets[p] = offset + rel
		}
		blocks = append(blocks, frame)
		offset += lipgloss.Height(frame)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, blocks...))
}

// renderNode renders the subtree at pos and reports each contained
// occurrence's line offset relative to the returned frame's first line.
func (m *Model) renderNode(node deck.Node, pos string, st focus.State, width int) (string, map[string]int, error) {
	occ, _ := m.binder.At(pos)
	offsets := map[string]int{pos: 0}

	var children []string
	if node.Kind != deck.KindCard {
		if m.collapsed[pos] {
			children = []string{styles.HelpBarStyle.Render(
				fmt.Sprintf("… %d hidden", len(node.Children)))}
		} else {
			// Border top plus header line precede the first child.
			const base = 2
			childWidth := max(width-surfaceview.FrameOverhead, minChildWidth)
			if node.Kind == deck.KindRow && len(node.Children) > 0 {
				childWidth = max(childWidth/len(node.Children), minChildWidth)
			}

			cum := 0
			for i, child := range node.Children {
				childPos := pos + "/" + strconv.Itoa(i)
				frame, childOffsets, err := m.renderNode(child, childPos, st, childWidth)
				if err != nil {
					return "", nil, err
				}
				for p, rel := range childOffsets {
					if node.Kind == deck.KindStack {
						offsets[p] = base + cum + rel
					} else {
						offsets[p] = base + rel
					}
				}
				cum += lipgloss.Height(frame)
				children = append(children, frame)
			}
		}
	}

	frame, err := m.renderer.Render(m.ctx, node, occ, st, width, children)
	if err != nil {
		return "", nil, err
	}
	return zone.Mark(makeSurfaceZoneID(occ.Handle), frame), offsets, nil
}

// scrollTo brings the occurrence's first line into the viewport. A
// target already on screen is left alone; the effect is idempotent.
func (m *Model) scrollTo(occ binder.Occurrence) {
	line, ok := m.lineOffsets[occ.Position]
	if !ok {
		return
	}
	top := m.viewport.YOffset
	bottom := top + m.viewport.Height - 1
	if line >= top && line <= bottom {
		return
	}
	m.viewport.SetYOffset(max(line-1, 0))
}

func (m *Model) toolbarView() string {
	st := m.store.State()

	parts := []string{styles.TitleStyle.Render(m.deck.Title)}
	for i, id := range m.ids {
		hint := "·"
		if i < 9 {
			hint = strconv.Itoa(i + 1)
		}
		label := fmt.Sprintf("%s:%d", hint, id)

		style := styles.ToolbarButtonStyle
		if st.Focused && st.Focus.ID == id {
			style = styles.ToolbarButtonActiveStyle
		}
		parts = append(parts, zone.Mark(makeToolbarZoneID(id), style.Render(label)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m *Model) helpBarView() string {
	if m.statusErr != "" {
		return styles.ErrorStyle.Render(m.statusErr)
	}
	if !m.cfg.UI.ShowHelpBar {
		return ""
	}
	return styles.HelpBarStyle.Render(
		"1-9 focus · tab cycle · o overlays · c collapse · r reload · q quit")
}

// desiredMounts walks the forest in preorder, skipping the children of
// collapsed containers. Parents precede children, as the binder needs.
func desiredMounts(roots []deck.Node, collapsed map[string]bool) []binder.Mount {
	var out []binder.Mount
	var walk func(nodes []deck.Node, parent, prefix string)
	walk = func(nodes []deck.Node, parent, prefix string) {
		for i, n := range nodes {
			pos := prefix + strconv.Itoa(i)
			out = append(out, binder.Mount{Position: pos, ID: n.ID, Parent: parent})
			if !collapsed[pos] {
				walk(n.Children, pos, pos+"/")
			}
		}
	}
	walk(roots, "", "")
	return out
}

// nodeAtPath resolves a child-index path like "1/0" to its node.
func nodeAtPath(roots []deck.Node, position string) (deck.Node, bool) {
	nodes := roots
	var node deck.Node
	for _, part := range strings.Split(position, "/") {
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 || idx >= len(nodes) {
			return deck.Node{}, false
		}
		node = nodes[idx]
		nodes = node.Children
	}
	return node, true
}
