package focus

import "github.com/zjrosen/surfaces/internal/surface"

// Command is the closed set of mutations the store accepts. All state
// changes go through Store.Dispatch; nothing else writes focus state.
type Command interface {
	name() string
}

// FocusSurface focuses the given surface ID. If the ID is not currently
// focused, its first live instance gains focus; if it already is, focus
// advances to the next live instance, wrapping after the last.
type FocusSurface struct {
	ID surface.ID
}

func (FocusSurface) name() string { return "focus-surface" }

// ToggleOverlays flips the diagnostic overlay visibility.
type ToggleOverlays struct{}

func (ToggleOverlays) name() string { return "toggle-overlays" }
