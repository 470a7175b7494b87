package locations

import (
	"github.com/foomo/itemmodel/item"
	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ItemInteractions interactions of each item, in item insertion order
type ItemInteractions struct {
	m *orderedmap.OrderedMap[item.ID, item.Interactions]
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewItemInteractions() *ItemInteractions {
	return &ItemInteractions{
		m: orderedmap.New[item.ID, item.Interactions](),
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Set replaces the interactions of an item, new items are appended
func (ii *ItemInteractions) Set(id item.ID, interactions item.Interactions) {
	ii.init()
	ii.m.Set(id, interactions)
}

// Append adds interactions to an item, keeping its position
func (ii *ItemInteractions) Append(id item.ID, interactions ...item.Interaction) {
	ii.init()
	existing, _ := ii.m.Get(id)
	ii.m.Set(id, append(existing, interactions...))
}

func (ii *ItemInteractions) Get(id item.ID) (item.Interactions, bool) {
	if ii == nil || ii.m == nil {
		return nil, false
	}
	return ii.m.Get(id)
}

func (ii *ItemInteractions) Delete(id item.ID) bool {
	if ii == nil || ii.m == nil {
		return false
	}
	_, present := ii.m.Delete(id)
	return present
}

func (ii *ItemInteractions) Len() int {
	if ii == nil || ii.m == nil {
		return 0
	}
	return ii.m.Len()
}

// Keys item ids in insertion order
func (ii *ItemInteractions) Keys() []item.ID {
	keys := make([]item.ID, 0, ii.Len())
	ii.Each(func(id item.ID, _ item.Interactions) {
		keys = append(keys, id)
	})
	return keys
}

// Each calls fn for every item in insertion order
func (ii *ItemInteractions) Each(fn func(id item.ID, interactions item.Interactions)) {
	if ii == nil || ii.m == nil {
		return
	}
	for pair := ii.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Validate validates the interactions of every item
func (ii *ItemInteractions) Validate() error {
	var err error
	ii.Each(func(id item.ID, interactions item.Interactions) {
		if err != nil {
			return
		}
		if validateErr := interactions.Validate(); validateErr != nil {
			err = errors.Wrapf(validateErr, "item %q", id.String())
		}
	})
	return err
}

func (ii *ItemInteractions) MarshalJSON() ([]byte, error) {
	ii.init()
	return ii.m.MarshalJSON()
}

func (ii *ItemInteractions) UnmarshalJSON(data []byte) error {
	m := orderedmap.New[item.ID, item.Interactions]()
	if err := m.UnmarshalJSON(data); err != nil {
		return err
	}
	ii.m = m
	return nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (ii *ItemInteractions) init() {
	if ii.m == nil {
		ii.m = orderedmap.New[item.ID, item.Interactions]()
	}
}
