package item

import (
	"github.com/pkg/errors"
)

// Interactions the interactions of one item, serialized as a list of
// objects discriminated by their "kind"
type Interactions []Interaction

// interactionWire serialized form shared by all interaction kinds
type interactionWire struct {
	Kind           InteractionKind `json:"kind"`
	LocationFrom   []Location      `json:"location_from,omitempty"`
	LocationTo     []Location      `json:"location_to,omitempty"`
	LocationClient []Location      `json:"location_client,omitempty"`
	LocationServer []Location      `json:"location_server,omitempty"`
	Location       []Location      `json:"location,omitempty"`
}

func toWire(i Interaction) (interactionWire, error) {
	v, ok := InteractionValue(i)
	if !ok {
		return interactionWire{}, errors.New("interaction must not be nil")
	}
	switch v := v.(type) {
	case InteractionPush:
		return interactionWire{Kind: v.Kind(), LocationFrom: v.LocationFrom, LocationTo: v.LocationTo}, nil
	case InteractionPull:
		return interactionWire{Kind: v.Kind(), LocationClient: v.LocationClient, LocationServer: v.LocationServer}, nil
	case InteractionWithin:
		return interactionWire{Kind: v.Kind(), Location: v.Location}, nil
	default:
		return interactionWire{}, errors.Wrapf(ErrUnknownInteractionKind, "%T", i)
	}
}

func (w interactionWire) interaction() (Interaction, error) {
	switch w.Kind {
	case InteractionKindPush:
		return NewInteractionPush(w.LocationFrom, w.LocationTo), nil
	case InteractionKindPull:
		return NewInteractionPull(w.LocationClient, w.LocationServer), nil
	case InteractionKindWithin:
		return NewInteractionWithin(w.Location), nil
	default:
		return nil, errors.Wrapf(ErrUnknownInteractionKind, "%q", string(w.Kind))
	}
}

// UnmarshalInteraction decodes a single serialized interaction
func UnmarshalInteraction(data []byte) (Interaction, error) {
	var w interactionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, "failed to decode interaction")
	}
	return w.interaction()
}

func (is Interactions) MarshalJSON() ([]byte, error) {
	wires := make([]interactionWire, 0, len(is))
	for _, i := range is {
		w, err := toWire(i)
		if err != nil {
			return nil, err
		}
		wires = append(wires, w)
	}
	return json.Marshal(wires)
}

func (is *Interactions) UnmarshalJSON(data []byte) error {
	var wires []interactionWire
	if err := json.Unmarshal(data, &wires); err != nil {
		return errors.Wrap(err, "failed to decode interactions")
	}
	ret := make(Interactions, 0, len(wires))
	for _, w := range wires {
		i, err := w.interaction()
		if err != nil {
			return err
		}
		ret = append(ret, i)
	}
	*is = ret
	return nil
}

// Validate validates every interaction
func (is Interactions) Validate() error {
	for idx, i := range is {
		if err := ValidateInteraction(i); err != nil {
			return errors.Wrapf(err, "interaction %d", idx)
		}
	}
	return nil
}

// LocationCount number of location references across all interactions
func (is Interactions) LocationCount() int {
	var count int
	for _, i := range is {
		i, ok := InteractionValue(i)
		if !ok {
			continue
		}
		for _, chain := range i.Locations() {
			count += len(chain)
		}
	}
	return count
}
