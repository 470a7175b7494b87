package locations

import (
	"github.com/foomo/itemmodel/item"
)

// LocationTree a location and the locations nested within it
type LocationTree struct {
	Location item.Location   `json:"location"`
	Children []*LocationTree `json:"children,omitempty"`
}

func NewLocationTree(location item.Location, children ...*LocationTree) *LocationTree {
	return &LocationTree{
		Location: location,
		Children: children,
	}
}

// Count number of nodes in this tree, including the root
func (t *LocationTree) Count() int {
	count := 1
	for _, child := range t.Children {
		count += child.Count()
	}
	return count
}

// Child returns the direct child for the given location
func (t *LocationTree) Child(location item.Location) *LocationTree {
	return findTree(t.Children, location)
}

// Walk visits every node depth first, ancestors holds the chain from the
// root down to and including the visited node
func (t *LocationTree) Walk(fn func(tree *LocationTree, ancestors []item.Location)) {
	t.walk(nil, fn)
}

func (t *LocationTree) walk(ancestors []item.Location, fn func(tree *LocationTree, ancestors []item.Location)) {
	chain := make([]item.Location, len(ancestors), len(ancestors)+1)
	copy(chain, ancestors)
	chain = append(chain, t.Location)
	fn(t, chain)
	for _, child := range t.Children {
		child.walk(chain, fn)
	}
}

func findTree(trees []*LocationTree, location item.Location) *LocationTree {
	for _, tree := range trees {
		if tree.Location == location {
			return tree
		}
	}
	return nil
}
