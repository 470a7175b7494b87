package infograph

import (
	"github.com/foomo/itemmodel/item"
	"github.com/foomo/itemmodel/pkg/locations"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	hostGitHub = "github.com"

	edgeSuffixRequest  = "request"
	edgeSuffixResponse = "response"
)

// Calculate builds the diagram for the given locations and interactions.
//
// Every location tree node becomes a node, nested like the trees. Push
// interactions become one edge, pull interactions a request and a response
// edge, within interactions style the location they happen in.
func Calculate(lai *locations.LocationsAndInteractions) *InfoGraph {
	g := New()
	g.CSS = CSS
	if lai == nil {
		return g
	}

	for _, tree := range lai.Trees {
		g.Hierarchy.Set(g.addTree(tree, nil))
	}

	lai.Walk(func(tree *locations.LocationTree, ancestors []item.Location) {
		if partials := locationStyle(lai, tree.Location); partials != nil {
			g.Theme.Styles.Set(NodeIDFromChain(ancestors).String(), partials)
		}
	})

	lai.ItemInteractions.Each(func(id item.ID, interactions item.Interactions) {
		touched := orderedmap.New[string, struct{}]()
		for _, interaction := range interactions {
			for _, anyID := range g.addInteraction(interaction) {
				touched.Set(anyID, struct{}{})
			}
		}
		tagItems := make([]string, 0, touched.Len())
		for pair := touched.Oldest(); pair != nil; pair = pair.Next() {
			tagItems = append(tagItems, pair.Key)
		}
		g.Tags.Set(id, id.String())
		g.TagItems.Set(id, tagItems)
	})

	return g
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (g *InfoGraph) addTree(tree *locations.LocationTree, ancestors []item.Location) (NodeID, *NodeHierarchy) {
	chain := make([]item.Location, len(ancestors), len(ancestors)+1)
	copy(chain, ancestors)
	chain = append(chain, tree.Location)

	id := NodeIDFromChain(chain)
	g.NodeNames.Set(id, tree.Location.Name)

	children := NewNodeHierarchy()
	for _, child := range tree.Children {
		children.Set(g.addTree(child, chain))
	}
	return id, children
}

// addInteraction adds the edges and styles of an interaction and returns the
// ids of every node and edge it touches
func (g *InfoGraph) addInteraction(interaction item.Interaction) []string {
	var touched []string
	interaction, ok := item.InteractionValue(interaction)
	if !ok {
		return touched
	}
	for _, chain := range interaction.Locations() {
		for i := range chain {
			if id := NodeIDFromChain(chain[:i+1]); g.hasNode(id) {
				touched = append(touched, id.String())
			}
		}
	}

	switch i := interaction.(type) {
	case item.InteractionPush:
		from, okFrom := g.nodeOf(i.LocationFrom, outermostHost(i.LocationFrom))
		to, okTo := g.nodeOf(i.LocationTo, innermostPath(i.LocationTo))
		if !okFrom || !okTo {
			return touched
		}
		id := edgeID(from, to)
		g.Edges.Set(id, [2]NodeID{from, to})
		g.Theme.Styles.Set(id.String(), partialsPush())
		touched = append(touched, id.String())
	case item.InteractionPull:
		client, okClient := g.nodeOf(i.LocationClient, outermostHost(i.LocationClient))
		server, okServer := g.nodeOf(i.LocationServer, innermostPath(i.LocationServer))
		if !okClient || !okServer {
			return touched
		}
		request := edgeID(client, server, edgeSuffixRequest)
		response := edgeID(client, server, edgeSuffixResponse)
		g.Edges.Set(request, [2]NodeID{server, client})
		g.Edges.Set(response, [2]NodeID{server, client})
		g.GraphvizAttrs.EdgeDirs.Set(request, EdgeDirBack)
		g.Theme.Styles.Set(request.String(), partialsPullRequest())
		g.Theme.Styles.Set(response.String(), partialsPullResponse())
		touched = append(touched, request.String(), response.String())
	case item.InteractionWithin:
		node, ok := g.nodeOf(i.Location, len(i.Location)-1)
		if !ok {
			return touched
		}
		g.Theme.Merge(node.String(), partialsWithin())
	}
	return touched
}

// nodeOf returns the node for the chain prefix ending at index
func (g *InfoGraph) nodeOf(chain []item.Location, index int) (NodeID, bool) {
	if index < 0 || index >= len(chain) {
		return "", false
	}
	id := NodeIDFromChain(chain[:index+1])
	return id, g.hasNode(id)
}

func (g *InfoGraph) hasNode(id NodeID) bool {
	_, ok := g.NodeNames.Get(id)
	return ok
}

// ------------------------------------------------------------------------------------------------
// ~ Private functions
// ------------------------------------------------------------------------------------------------

// outermostHost index of the first host, the first location when there is none
func outermostHost(chain []item.Location) int {
	for i, location := range chain {
		if location.Type == item.LocationTypeHost {
			return i
		}
	}
	return 0
}

// innermostPath index of the last path, the first location when there is none
func innermostPath(chain []item.Location) int {
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].Type == item.LocationTypePath {
			return i
		}
	}
	return 0
}

func locationStyle(lai *locations.LocationsAndInteractions, location item.Location) *CSSClassPartials {
	switch location.Type {
	case item.LocationTypeGroup:
		return partialsLight()
	case item.LocationTypeHost:
		switch location.Name {
		case item.LocalhostName:
			return partialsLightColored("blue")
		case hostGitHub:
			return partialsLightColored("purple")
		default:
			// hosts nested in groups keep the default shade
			if lai.IsTopLevel(location) {
				return partialsLight()
			}
		}
	}
	return nil
}
