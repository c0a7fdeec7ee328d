package deck

import (
	"sort"

	"github.com/zjrosen/surfaces/internal/surface"
)

// CollectIdentifiers returns the set of distinct surface IDs appearing
// anywhere in the forest. Container IDs are included alongside their
// children's; repeated occurrences of an ID collapse to one member.
func CollectIdentifiers(nodes []Node) map[surface.ID]struct{} {
	ids := make(map[surface.ID]struct{})
	collectInto(nodes, ids)
	return ids
}

func collectInto(nodes []Node, ids map[surface.ID]struct{}) {
	for _, n := range nodes {
		ids[n.ID] = struct{}{}
		collectInto(n.Children, ids)
	}
}

// IdentifierList returns the distinct IDs of the forest in ascending
// order. The toolbar uses this for a stable button ordering.
func IdentifierList(nodes []Node) []surface.ID {
	set := CollectIdentifiers(nodes)
	out := make([]surface.ID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
