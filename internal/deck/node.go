// Package deck defines the recursive surface tree and its YAML file
// format. A deck is a forest of typed nodes; the same surface ID may
// appear at many tree positions (a shared card reused inside several
// stacks), so nothing in this package assumes IDs are unique.
package deck

import (
	"fmt"

	"github.com/zjrosen/surfaces/internal/surface"
)

// Kind discriminates the node variants.
type Kind int

const (
	// KindCard is a leaf carrying a markdown body.
	KindCard Kind = iota
	// KindRow is a container laying its children out horizontally.
	KindRow
	// KindStack is a container laying its children out vertically.
	KindStack
)

func (k Kind) String() string {
	switch k {
	case KindCard:
		return "card"
	case KindRow:
		return "row"
	case KindStack:
		return "stack"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Node is one element of the deck tree. Cards are leaves; rows and
// stacks hold an ordered sequence of children. Trees are finite and
// acyclic by construction: nodes are values, never self-referential.
type Node struct {
	ID       surface.ID
	Kind     Kind
	Title    string
	Body     string // markdown, cards only
	Children []Node
}

// Deck is a parsed deck file: a title plus an ordered forest of roots.
type Deck struct {
	Title string
	Roots []Node
}

// UnknownKindError reports a node kind this version does not render.
// Renderers surface it instead of falling back to a sentinel view.
type UnknownKindError struct {
	Kind Kind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown node kind %q", e.Kind)
}
