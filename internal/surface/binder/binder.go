// Package binder ties rendered tree positions to registry
// registrations. Each render pass computes the desired occurrence list;
// Sync diffs it against what is mounted, registering newcomers and
// removing the departed with the exact instance captured at mount time.
package binder

import (
	"github.com/google/uuid"

	"github.com/zjrosen/surfaces/internal/log"
	"github.com/zjrosen/surfaces/internal/surface"
	"github.com/zjrosen/surfaces/internal/surface/focus"
	"github.com/zjrosen/surfaces/internal/surface/registry"
)

// Mount describes one desired occurrence: a stable tree-position key
// (child-index path such as "1/0"), the surface ID rendered there, and
// the position of the nearest ancestor occurrence ("" for roots).
// Mounts must be listed in preorder so parents precede children.
type Mount struct {
	Position string
	ID       surface.ID
	Parent   string
}

// Occurrence is a live, registered occurrence. The handle stays stable
// for the whole mounted lifetime and is what the UI hangs zone IDs and
// effects on, never a pointer into the tree.
type Occurrence struct {
	Handle   uuid.UUID
	Position string
	Coord    surface.Coordinate
	Parent   *surface.Coordinate // nil for roots
}

// Binder owns the mounted-occurrence table for one rendered tree.
type Binder struct {
	reg     *registry.Registry
	mounted map[string]*Occurrence
	order   []string

	// One-shot bring-into-view bookkeeping.
	sawFocus  bool
	lastFocus surface.Coordinate
	pending   string // position awaiting scroll, "" when none
}

// New creates a binder registering against reg.
func New(reg *registry.Registry) *Binder {
	return &Binder{
		reg:     reg,
		mounted: make(map[string]*Occurrence),
	}
}

// Sync reconciles the mounted table with desired. Positions that
// disappeared (or now render a different ID) are unmounted first, then
// new positions are registered in list order. A pending scroll whose
// occurrence unmounts is cancelled; it must never run against a node
// no longer present.
func (b *Binder) Sync(desired []Mount) {
	keep := make(map[string]surface.ID, len(desired))
	for _, m := range desired {
		keep[m.Position] = m.ID
	}

	for pos, occ := range b.mounted {
		id, ok := keep[pos]
		if ok && id == occ.Coord.ID {
			continue
		}
		b.unmount(occ)
	}

	order := make([]string, 0, len(desired))
	for _, m := range desired {
		order = append(order, m.Position)
		if _, ok := b.mounted[m.Position]; ok {
			continue
		}
		instance := b.reg.Register(m.ID)
		b.mounted[m.Position] = &Occurrence{
			Handle:   uuid.New(),
			Position: m.Position,
			Coord:    surface.Coordinate{ID: m.ID, Instance: instance},
		}
	}
	b.order = order

	// Parent coordinates are derived from tree shape on every sync,
	// never persisted: a reparented position reports its new ancestor.
	for _, m := range desired {
		occ := b.mounted[m.Position]
		if parent, ok := b.mounted[m.Parent]; ok && m.Parent != "" {
			coord := parent.Coord
			occ.Parent = &coord
		} else {
			occ.Parent = nil
		}
	}
}

func (b *Binder) unmount(occ *Occurrence) {
	// Remove must use the instance captured at mount, exactly once.
	b.reg.Remove(occ.Coord.ID, occ.Coord.Instance)
	delete(b.mounted, occ.Position)
	if b.pending == occ.Position {
		b.pending = ""
		log.Debug(log.CatRegistry, "pending scroll cancelled", "coord", occ.Coord)
	}
}

// Unmount tears down every mounted occurrence.
func (b *Binder) Unmount() {
	for _, occ := range b.mounted {
		b.unmount(occ)
	}
	b.order = nil
}

// Occurrences returns the mounted occurrences in render order.
func (b *Binder) Occurrences() []Occurrence {
	out := make([]Occurrence, 0, len(b.order))
	for _, pos := range b.order {
		if occ, ok := b.mounted[pos]; ok {
			out = append(out, *occ)
		}
	}
	return out
}

// At returns the occurrence mounted at the given position.
func (b *Binder) At(position string) (Occurrence, bool) {
	occ, ok := b.mounted[position]
	if !ok {
		return Occurrence{}, false
	}
	return *occ, true
}

// ByHandle returns the occurrence with the given handle.
func (b *Binder) ByHandle(h uuid.UUID) (Occurrence, bool) {
	for _, occ := range b.mounted {
		if occ.Handle == h {
			return *occ, true
		}
	}
	return Occurrence{}, false
}

// ByCoordinate returns the mounted occurrence matching c.
func (b *Binder) ByCoordinate(c surface.Coordinate) (Occurrence, bool) {
	for _, occ := range b.mounted {
		if occ.Coord == c {
			return *occ, true
		}
	}
	return Occurrence{}, false
}

// Observe records a focus snapshot and arms the one-shot bring-into-view
// trigger when focus lands on a newly focused, currently mounted
// occurrence. Re-observing the same coordinate does not re-arm.
func (b *Binder) Observe(st focus.State) {
	if !st.Focused {
		b.sawFocus = false
		return
	}
	if b.sawFocus && b.lastFocus == st.Focus {
		return
	}
	b.sawFocus = true
	b.lastFocus = st.Focus

	if occ, ok := b.ByCoordinate(st.Focus); ok {
		b.pending = occ.Position
	}
}

// TakeScrollTarget consumes the pending bring-into-view target, if any.
// The effect runs strictly after the render that produced it; callers
// invoke this once the new frame exists.
func (b *Binder) TakeScrollTarget() (Occurrence, bool) {
	if b.pending == "" {
		return Occurrence{}, false
	}
	pos := b.pending
	b.pending = ""
	return b.At(pos)
}
