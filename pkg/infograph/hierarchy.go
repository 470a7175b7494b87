package infograph

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// NodeHierarchy nested nodes, in location tree order
type NodeHierarchy struct {
	m *orderedmap.OrderedMap[NodeID, *NodeHierarchy]
}

func NewNodeHierarchy() *NodeHierarchy {
	return &NodeHierarchy{
		m: orderedmap.New[NodeID, *NodeHierarchy](),
	}
}

// Set adds or replaces a child hierarchy
func (h *NodeHierarchy) Set(id NodeID, children *NodeHierarchy) {
	h.init()
	if children == nil {
		children = NewNodeHierarchy()
	}
	h.m.Set(id, children)
}

func (h *NodeHierarchy) Get(id NodeID) (*NodeHierarchy, bool) {
	if h == nil || h.m == nil {
		return nil, false
	}
	return h.m.Get(id)
}

func (h *NodeHierarchy) Len() int {
	if h == nil || h.m == nil {
		return 0
	}
	return h.m.Len()
}

// Each calls fn for every direct child, in order
func (h *NodeHierarchy) Each(fn func(id NodeID, children *NodeHierarchy)) {
	if h == nil || h.m == nil {
		return
	}
	for pair := h.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Keys returns the direct child ids, in order
func (h *NodeHierarchy) Keys() []NodeID {
	keys := make([]NodeID, 0, h.Len())
	h.Each(func(id NodeID, _ *NodeHierarchy) {
		keys = append(keys, id)
	})
	return keys
}

func (h *NodeHierarchy) MarshalJSON() ([]byte, error) {
	h.init()
	return h.m.MarshalJSON()
}

func (h *NodeHierarchy) UnmarshalJSON(data []byte) error {
	m := orderedmap.New[NodeID, *NodeHierarchy]()
	if err := m.UnmarshalJSON(data); err != nil {
		return err
	}
	h.m = m
	return nil
}

func (h *NodeHierarchy) MarshalYAML() (interface{}, error) {
	h.init()
	return h.m, nil
}

func (h *NodeHierarchy) UnmarshalYAML(value *yaml.Node) error {
	m := orderedmap.New[NodeID, *NodeHierarchy]()
	if err := m.UnmarshalYAML(value); err != nil {
		return err
	}
	h.m = m
	return nil
}

func (h *NodeHierarchy) init() {
	if h.m == nil {
		h.m = orderedmap.New[NodeID, *NodeHierarchy]()
	}
}
