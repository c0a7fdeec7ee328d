package deck

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/surfaces/internal/log"
	"github.com/zjrosen/surfaces/internal/surface"
)

// fileNode is the YAML shape of a single node.
type fileNode struct {
	Kind     string     `yaml:"kind"`
	ID       *uint64    `yaml:"id"`
	Title    string     `yaml:"title"`
	Body     string     `yaml:"body"`
	Children []fileNode `yaml:"children"`
}

// fileDeck is the YAML shape of a deck file.
type fileDeck struct {
	Title string     `yaml:"title"`
	Nodes []fileNode `yaml:"nodes"`
}

// ValidationError reports a structural problem at a specific node,
// addressed by its slash-separated child-index path from the root.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("deck node %s: %s", e.Path, e.Reason)
}

// Load reads and parses a deck file.
func Load(path string) (*Deck, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is the user-chosen deck file
	if err != nil {
		return nil, fmt.Errorf("reading deck: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, err
	}
	log.Info(log.CatDeck, "deck loaded", "path", path, "roots", len(d.Roots))
	return d, nil
}

// Parse decodes deck YAML and validates the tree.
//
// Rules: every node needs an id; cards may not have children; repeated
// IDs must agree on kind (they are the same logical surface). A card
// body or title may be given at any one occurrence of its ID; the other
// occurrences inherit it.
func Parse(data []byte) (*Deck, error) {
	var fd fileDeck
	if err := yaml.Unmarshal(data, &fd); err != nil {
		return nil, fmt.Errorf("parsing deck: %w", err)
	}
	if len(fd.Nodes) == 0 {
		return nil, &ValidationError{Path: "/", Reason: "deck has no nodes"}
	}

	roots := make([]Node, 0, len(fd.Nodes))
	kinds := make(map[surface.ID]Kind)
	for i, fn := range fd.Nodes {
		n, err := buildNode(fn, fmt.Sprintf("%d", i), kinds)
		if err != nil {
			return nil, err
		}
		roots = append(roots, n)
	}

	shareCardPayloads(roots)

	return &Deck{Title: fd.Title, Roots: roots}, nil
}

func buildNode(fn fileNode, path string, kinds map[surface.ID]Kind) (Node, error) {
	if fn.ID == nil {
		return Node{}, &ValidationError{Path: path, Reason: "missing id"}
	}
	id := surface.ID(*fn.ID)

	kind, err := parseKind(fn.Kind)
	if err != nil {
		return Node{}, fmt.Errorf("deck node %s: %w", path, err)
	}

	if prev, seen := kinds[id]; seen && prev != kind {
		return Node{}, &ValidationError{
			Path:   path,
			Reason: fmt.Sprintf("id %d already declared as %s, now %s", id, prev, kind),
		}
	}
	kinds[id] = kind

	if kind == KindCard && len(fn.Children) > 0 {
		return Node{}, &ValidationError{Path: path, Reason: "card cannot have children"}
	}

	n := Node{ID: id, Kind: kind, Title: fn.Title, Body: fn.Body}
	for i, child := range fn.Children {
		c, err := buildNode(child, fmt.Sprintf("%s/%d", path, i), kinds)
		if err != nil {
			return Node{}, err
		}
		n.Children = append(n.Children, c)
	}
	return n, nil
}

func parseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "card":
		return KindCard, nil
	case "row":
		return KindRow, nil
	case "stack":
		return KindStack, nil
	default:
		return 0, fmt.Errorf("unsupported kind %q (want card, row or stack)", s)
	}
}

// shareCardPayloads fills empty card titles and bodies from the first
// occurrence of the same ID that defines them. Shared cards only need
// their content spelled out once in the file.
func shareCardPayloads(roots []Node) {
	titles := make(map[surface.ID]string)
	bodies := make(map[surface.ID]string)

	var record func(nodes []Node)
	record = func(nodes []Node) {
		for _, n := range nodes {
			if n.Title != "" {
				if _, ok := titles[n.ID]; !ok {
					titles[n.ID] = n.Title
				}
			}
			if n.Body != "" {
				if _, ok := bodies[n.ID]; !ok {
					bodies[n.ID] = n.Body
				}
			}
			record(n.Children)
		}
	}
	record(roots)

	var fill func(nodes []Node)
	fill = func(nodes []Node) {
		for i := range nodes {
			if nodes[i].Title == "" {
				nodes[i].Title = titles[nodes[i].ID]
			}
			if nodes[i].Body == "" {
				nodes[i].Body = bodies[nodes[i].ID]
			}
			fill(nodes[i].Children)
		}
	}
	fill(roots)
}
