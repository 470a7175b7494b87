package infograph

import (
	"strings"

	"github.com/foomo/itemmodel/item"
)

const idSeparator = "___"

// NodeID identifies a node, built from the segments of its location chain
type NodeID string

func (id NodeID) String() string {
	return string(id)
}

func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id), nil
}

func (id *NodeID) UnmarshalText(text []byte) error {
	*id = NodeID(text)
	return nil
}

// EdgeID identifies an edge between two nodes
type EdgeID string

func (id EdgeID) String() string {
	return string(id)
}

func (id EdgeID) MarshalText() ([]byte, error) {
	return []byte(id), nil
}

func (id *EdgeID) UnmarshalText(text []byte) error {
	*id = EdgeID(text)
	return nil
}

// NodeIDFromChain joins the segments of every location in the chain,
// so equal paths below different hosts get distinct ids
func NodeIDFromChain(chain []item.Location) NodeID {
	segments := make([]string, len(chain))
	for i, location := range chain {
		segments[i] = nodeIDSegment(location)
	}
	return NodeID(strings.Join(segments, idSeparator))
}

// nodeIDSegment returns "<type>___<name>" with the name reduced to [a-z0-9_]
func nodeIDSegment(location item.Location) string {
	var b strings.Builder
	b.WriteString(location.Type.String())
	b.WriteString(idSeparator)
	for _, c := range location.Name {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case c >= 'A' && c <= 'Z':
			b.WriteRune(c - 'A' + 'a')
		default:
			b.WriteString("__")
		}
	}
	return b.String()
}

func edgeID(from, to NodeID, suffix ...string) EdgeID {
	parts := append([]string{from.String(), to.String()}, suffix...)
	return EdgeID(strings.Join(parts, idSeparator))
}
