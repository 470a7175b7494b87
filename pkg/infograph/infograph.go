// calculates diagrams of the locations items live in and how they interact
package infograph

import (
	"github.com/foomo/itemmodel/item"
	jsoniter "github.com/json-iterator/go"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// GraphDir layout direction
type GraphDir string

const (
	GraphDirHorizontal GraphDir = "horizontal"
	GraphDirVertical   GraphDir = "vertical"
)

// EdgeDir direction an edge's arrow is drawn in
type EdgeDir string

const (
	EdgeDirForward EdgeDir = "forward"
	EdgeDirBack    EdgeDir = "back"
)

const DefaultEdgeMinlen uint32 = 3

// GraphvizAttrs layout attributes
type GraphvizAttrs struct {
	EdgeMinlenDefault uint32                                  `json:"edge_minlen_default" yaml:"edge_minlen_default"`
	EdgeDirs          *orderedmap.OrderedMap[EdgeID, EdgeDir] `json:"edge_dirs" yaml:"edge_dirs"`
}

// InfoGraph a diagram of locations as nested nodes and interactions as edges
type InfoGraph struct {
	Direction     GraphDir                                     `json:"direction" yaml:"direction"`
	Hierarchy     *NodeHierarchy                               `json:"hierarchy" yaml:"hierarchy"`
	NodeNames     *orderedmap.OrderedMap[NodeID, string]       `json:"node_names" yaml:"node_names"`
	Edges         *orderedmap.OrderedMap[EdgeID, [2]NodeID]    `json:"edges" yaml:"edges"`
	GraphvizAttrs GraphvizAttrs                                `json:"graphviz_attrs" yaml:"graphviz_attrs"`
	Theme         Theme                                        `json:"theme" yaml:"theme"`
	Tags          *orderedmap.OrderedMap[item.ID, string]      `json:"tags" yaml:"tags"`
	TagItems      *orderedmap.OrderedMap[item.ID, []string]    `json:"tag_items" yaml:"tag_items"`
	CSS           string                                       `json:"css" yaml:"css"`
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New() *InfoGraph {
	return &InfoGraph{
		Direction: GraphDirVertical,
		Hierarchy: NewNodeHierarchy(),
		NodeNames: orderedmap.New[NodeID, string](),
		Edges:     orderedmap.New[EdgeID, [2]NodeID](),
		GraphvizAttrs: GraphvizAttrs{
			EdgeMinlenDefault: DefaultEdgeMinlen,
			EdgeDirs:          orderedmap.New[EdgeID, EdgeDir](),
		},
		Theme:    NewTheme(),
		Tags:     orderedmap.New[item.ID, string](),
		TagItems: orderedmap.New[item.ID, []string](),
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// EdgeDir returns the direction of an edge, forward unless set otherwise
func (g *InfoGraph) EdgeDir(id EdgeID) EdgeDir {
	if dir, ok := g.GraphvizAttrs.EdgeDirs.Get(id); ok {
		return dir
	}
	return EdgeDirForward
}

// NodeName returns the location name of a node
func (g *InfoGraph) NodeName(id NodeID) (string, bool) {
	return g.NodeNames.Get(id)
}

// JSON indented encoding, map keys keep their insertion order
func (g *InfoGraph) JSON() ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

func (g *InfoGraph) YAML() ([]byte, error) {
	return yaml.Marshal(g)
}
