// builds the location forest an item flow interacts with
package locations

import (
	"github.com/foomo/itemmodel/item"
)

// LocationsAndInteractions the locations of all items merged into trees,
// along with the interactions that reference them
type LocationsAndInteractions struct {
	// top level locations, in first seen order
	Trees []*LocationTree `json:"trees"`
	// interactions of each item
	ItemInteractions *ItemInteractions `json:"item_interactions"`
	// number of nodes across all trees
	LocationCount int `json:"location_count"`
}

// New merges every location chain of every interaction into a forest.
//
// Items are visited in insertion order, interactions in slice order. A chain
// element reuses an existing node with an equal location at the same depth,
// otherwise a new node is appended. Nil interactions are skipped.
func New(itemInteractions *ItemInteractions) *LocationsAndInteractions {
	if itemInteractions == nil {
		itemInteractions = NewItemInteractions()
	}
	lai := &LocationsAndInteractions{
		Trees:            []*LocationTree{},
		ItemInteractions: itemInteractions,
	}
	itemInteractions.Each(func(_ item.ID, interactions item.Interactions) {
		for _, interaction := range interactions {
			interaction, ok := item.InteractionValue(interaction)
			if !ok {
				continue
			}
			for _, chain := range interaction.Locations() {
				lai.insert(chain)
			}
		}
	})
	return lai
}

// Lookup returns the node for a location chain, outermost location first
func (lai *LocationsAndInteractions) Lookup(chain []item.Location) (*LocationTree, bool) {
	if len(chain) == 0 {
		return nil, false
	}
	tree := findTree(lai.Trees, chain[0])
	for _, location := range chain[1:] {
		if tree == nil {
			break
		}
		tree = tree.Child(location)
	}
	return tree, tree != nil
}

// Walk visits every tree node depth first, in tree order
func (lai *LocationsAndInteractions) Walk(fn func(tree *LocationTree, ancestors []item.Location)) {
	for _, tree := range lai.Trees {
		tree.Walk(fn)
	}
}

// IsTopLevel whether the location is the root of one of the trees
func (lai *LocationsAndInteractions) IsTopLevel(location item.Location) bool {
	return findTree(lai.Trees, location) != nil
}

func (lai *LocationsAndInteractions) insert(chain []item.Location) {
	if len(chain) == 0 {
		return
	}
	tree := findTree(lai.Trees, chain[0])
	if tree == nil {
		tree = NewLocationTree(chain[0])
		lai.Trees = append(lai.Trees, tree)
		lai.LocationCount++
	}
	for _, location := range chain[1:] {
		child := tree.Child(location)
		if child == nil {
			child = NewLocationTree(location)
			tree.Children = append(tree.Children, child)
			lai.LocationCount++
		}
		tree = child
	}
}
