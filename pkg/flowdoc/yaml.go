package flowdoc

import (
	"bytes"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedYAML = errors.New("unsupported yaml")
	ErrAliasExpansion  = errors.New("yaml aliases expand too far")
)

// minAliasBudget nodes any document may expand through aliases, larger
// documents get aliasRatio times their own node count
const (
	minAliasBudget = 10000
	aliasRatio     = 10
)

// jsonWriter writes yaml nodes as json and caps the nodes reached through aliases
type jsonWriter struct {
	buf         bytes.Buffer
	aliasBudget int
	aliasDepth  int
}

// yamlToJSON converts through yaml.Node so mapping keys keep their order
func yamlToJSON(data []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse yaml flow document")
	}
	if doc.Kind == 0 {
		return []byte("{}"), nil
	}
	w := &jsonWriter{aliasBudget: max(minAliasBudget, aliasRatio*countNodes(&doc))}
	if err := w.write(&doc); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

// countNodes counts the nodes of the tree without following aliases
func countNodes(n *yaml.Node) int {
	count := 1
	for _, child := range n.Content {
		count += countNodes(child)
	}
	return count
}

func (w *jsonWriter) write(n *yaml.Node) error {
	if w.aliasDepth > 0 {
		w.aliasBudget--
		if w.aliasBudget < 0 {
			return errors.Wrapf(ErrAliasExpansion, "line %d", n.Line)
		}
	}
	buf := &w.buf
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return w.write(n.Content[0])
	case yaml.AliasNode:
		w.aliasDepth++
		defer func() { w.aliasDepth-- }()
		return w.write(n.Alias)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return errors.Wrapf(ErrUnsupportedYAML, "line %d: mapping keys must be scalars", key.Line)
			}
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, key.Value); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := w.write(n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, child := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := w.write(child); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			buf.WriteString("null")
			return nil
		case "!!bool", "!!int", "!!float":
			var v interface{}
			if err := n.Decode(&v); err != nil {
				return errors.Wrapf(err, "line %d", n.Line)
			}
			return writeValue(buf, v)
		default:
			return writeValue(buf, n.Value)
		}
	default:
		return errors.Wrapf(ErrUnsupportedYAML, "line %d: node kind %d", n.Line, n.Kind)
	}
}

func writeValue(buf *bytes.Buffer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed to encode yaml value")
	}
	buf.Write(data)
	return nil
}
