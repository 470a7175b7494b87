package locations

import (
	"github.com/foomo/itemmodel/item"
)

// InteractionsKind where the interactions of an item were derived from
type InteractionsKind string

const (
	// InteractionsKindCurrent derived from the current state of the item
	InteractionsKindCurrent InteractionsKind = "current"
	// InteractionsKindExample derived from example state, used before the item exists
	InteractionsKindExample InteractionsKind = "example"
)

// InteractionsCurrentOrExample interactions of an item, tagged with their origin
type InteractionsCurrentOrExample struct {
	Kind         InteractionsKind  `json:"kind"`
	Interactions item.Interactions `json:"interactions"`
}

// CurrentOrExample prefers the interactions of the current state when they
// are available
func CurrentOrExample(current item.Interactions, currentOK bool, example item.Interactions) InteractionsCurrentOrExample {
	if currentOK {
		return InteractionsCurrentOrExample{Kind: InteractionsKindCurrent, Interactions: current}
	}
	return InteractionsCurrentOrExample{Kind: InteractionsKindExample, Interactions: example}
}

// IsExample whether the interactions were derived from example state
func (i InteractionsCurrentOrExample) IsExample() bool {
	return i.Kind == InteractionsKindExample
}
