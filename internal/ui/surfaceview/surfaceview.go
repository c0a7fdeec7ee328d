// Package surfaceview renders a single occurrence of a deck node.
// The recursive tree walk lives in the app; this package only knows how
// to frame one node given its already-rendered children.
package surfaceview

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/surfaces/internal/deck"
	"github.com/zjrosen/surfaces/internal/log"
	"github.com/zjrosen/surfaces/internal/surface/binder"
	"github.com/zjrosen/surfaces/internal/surface/focus"
	"github.com/zjrosen/surfaces/internal/ui/markdown"
	"github.com/zjrosen/surfaces/internal/ui/styles"
)

// FrameOverhead is the width consumed by a frame's border and padding.
// The tree walk subtracts it when sizing children.
const FrameOverhead = 4

// Renderer renders occurrences into styled frames.
type Renderer struct {
	md *markdown.CachedRenderer
}

// New creates a renderer using md for card bodies.
func New(md *markdown.CachedRenderer) *Renderer {
	return &Renderer{md: md}
}

// Render renders one occurrence at the given outer width. children are
// the rendered frames of the node's children in order (nil for cards).
// The kind switch is exhaustive: an unknown kind is an error, not a
// placeholder frame.
func (r *Renderer) Render(
	ctx context.Context,
	node deck.Node,
	occ binder.Occurrence,
	st focus.State,
	width int,
	children []string,
) (string, error) {
	inner := max(width-FrameOverhead, 8)

	var body string
	switch node.Kind {
	case deck.KindCard:
		body = r.renderBody(ctx, node.Body, inner)
	case deck.KindRow:
		body = lipgloss.JoinHorizontal(lipgloss.Top, children...)
	case deck.KindStack:
		body = lipgloss.JoinVertical(lipgloss.Left, children...)
	default:
		return "", &deck.UnknownKindError{Kind: node.Kind}
	}

	lines := []string{r.header(node, occ, st, inner)}
	if body != "" {
		lines = append(lines, body)
	}
	content := lipgloss.JoinVertical(lipgloss.Left, lines...)

	frame := styles.SurfaceStyle
	if st.FocusedOn(occ.Coord) {
		frame = styles.FocusedSurfaceStyle
	}
	return frame.Render(content), nil
}

// header is the title line, with the diagnostic badge appended when
// overlays are visible.
func (r *Renderer) header(node deck.Node, occ binder.Occurrence, st focus.State, width int) string {
	title := node.Title
	if title == "" {
		title = fmt.Sprintf("surface %d", node.ID)
	}

	if !st.OverlaysVisible {
		return styles.TitleStyle.Render(runewidth.Truncate(title, width, "…"))
	}

	badge := occ.Coord.String()
	if occ.Parent != nil {
		badge += " ◂ " + occ.Parent.String()
	}
	badgeRendered := styles.BadgeStyle.Render(badge)

	titleWidth := max(width-lipgloss.Width(badgeRendered)-1, 1)
	titleRendered := styles.TitleStyle.Render(runewidth.Truncate(title, titleWidth, "…"))
	return lipgloss.JoinHorizontal(lipgloss.Center, titleRendered, " ", badgeRendered)
}

// renderBody renders card markdown, falling back to plain word wrap
// when glamour fails.
func (r *Renderer) renderBody(ctx context.Context, body string, width int) string {
	if body == "" {
		return ""
	}
	out, err := r.md.Render(ctx, body, width)
	if err != nil {
		log.ErrorErr(log.CatUI, "markdown render failed", err)
		return wordwrap.String(body, width)
	}
	return out
}
