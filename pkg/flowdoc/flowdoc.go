// decodes flow documents: the item interactions of every flow, keyed by flow id
package flowdoc

import (
	"bytes"

	"github.com/foomo/itemmodel/item"
	"github.com/foomo/itemmodel/pkg/locations"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/multierr"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Format encoding of a flow document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document flows in document order. Flow ids follow the item id rules.
type Document struct {
	flows *orderedmap.OrderedMap[item.ID, *locations.ItemInteractions]
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New() *Document {
	return &Document{
		flows: orderedmap.New[item.ID, *locations.ItemInteractions](),
	}
}

// Decode reads a JSON or YAML document and validates every flow
func Decode(data []byte) (*Document, error) {
	normalized, err := Normalize(data)
	if err != nil {
		return nil, err
	}
	doc := New()
	if err := json.Unmarshal(normalized, doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode flow document")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Normalize returns the JSON encoding of a JSON or YAML document
func Normalize(data []byte) ([]byte, error) {
	switch DetectFormat(data) {
	case FormatJSON:
		return data, nil
	default:
		return yamlToJSON(data)
	}
}

// DetectFormat JSON documents start with an object, anything else is read as YAML
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (d *Document) Set(flowID item.ID, itemInteractions *locations.ItemInteractions) {
	d.init()
	if itemInteractions == nil {
		itemInteractions = locations.NewItemInteractions()
	}
	d.flows.Set(flowID, itemInteractions)
}

func (d *Document) Get(flowID item.ID) (*locations.ItemInteractions, bool) {
	if d == nil || d.flows == nil {
		return nil, false
	}
	return d.flows.Get(flowID)
}

func (d *Document) Len() int {
	if d == nil || d.flows == nil {
		return 0
	}
	return d.flows.Len()
}

// FlowIDs in document order
func (d *Document) FlowIDs() []item.ID {
	ids := make([]item.ID, 0, d.Len())
	d.Each(func(flowID item.ID, _ *locations.ItemInteractions) {
		ids = append(ids, flowID)
	})
	return ids
}

// Each calls fn for every flow in document order
func (d *Document) Each(fn func(flowID item.ID, itemInteractions *locations.ItemInteractions)) {
	if d == nil || d.flows == nil {
		return
	}
	for pair := d.flows.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Validate returns the combined errors of all flows
func (d *Document) Validate() error {
	var err error
	d.Each(func(flowID item.ID, itemInteractions *locations.ItemInteractions) {
		if itemInteractions == nil {
			err = multierr.Append(err, errors.Errorf("flow %q: missing item interactions", flowID.String()))
			return
		}
		if errValidate := itemInteractions.Validate(); errValidate != nil {
			err = multierr.Append(err, errors.Wrapf(errValidate, "flow %q", flowID.String()))
		}
	})
	return err
}

func (d *Document) MarshalJSON() ([]byte, error) {
	d.init()
	return d.flows.MarshalJSON()
}

func (d *Document) UnmarshalJSON(data []byte) error {
	m := orderedmap.New[item.ID, *locations.ItemInteractions]()
	if err := m.UnmarshalJSON(data); err != nil {
		return err
	}
	d.flows = m
	return nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (d *Document) init() {
	if d.flows == nil {
		d.flows = orderedmap.New[item.ID, *locations.ItemInteractions]()
	}
}
