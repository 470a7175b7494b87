package item

import (
	"github.com/pkg/errors"
)

// InteractionKind discriminates the Interaction implementations
type InteractionKind string

const (
	// InteractionKindPush data is sent from one location to another
	InteractionKindPush InteractionKind = "push"
	// InteractionKindPull a client requests data from a server
	InteractionKindPull InteractionKind = "pull"
	// InteractionKindWithin something happens inside a single location
	InteractionKindWithin InteractionKind = "within"
)

// ErrUnknownInteractionKind a serialized interaction with a kind other than push, pull or within
var ErrUnknownInteractionKind = errors.New("unknown interaction kind")

// Interaction describes how an item interacts with its resources.
// Implemented by InteractionPush, InteractionPull and InteractionWithin.
type Interaction interface {
	Kind() InteractionKind
	// Locations returns every location chain the interaction refers to
	Locations() [][]Location
	isInteraction()
}

// ------------------------------------------------------------------------------------------------
// ~ Push
// ------------------------------------------------------------------------------------------------

// InteractionPush data is pushed from one location to another, e.g. a file
// upload from localhost to a bucket.
type InteractionPush struct {
	// where the interaction begins, outermost location first
	LocationFrom []Location `json:"location_from"`
	// where the interaction goes to, outermost location first
	LocationTo []Location `json:"location_to"`
}

func NewInteractionPush(from, to []Location) InteractionPush {
	return InteractionPush{LocationFrom: from, LocationTo: to}
}

func (InteractionPush) Kind() InteractionKind {
	return InteractionKindPush
}

func (i InteractionPush) Locations() [][]Location {
	return [][]Location{i.LocationFrom, i.LocationTo}
}

func (InteractionPush) isInteraction() {}

func (i InteractionPush) MarshalJSON() ([]byte, error) {
	w, err := toWire(i)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// ------------------------------------------------------------------------------------------------
// ~ Pull
// ------------------------------------------------------------------------------------------------

// InteractionPull a client pulls data from a server, e.g. a file download.
type InteractionPull struct {
	// the location that initiates the request
	LocationClient []Location `json:"location_client"`
	// the location that serves the data
	LocationServer []Location `json:"location_server"`
}

func NewInteractionPull(client, server []Location) InteractionPull {
	return InteractionPull{LocationClient: client, LocationServer: server}
}

func (InteractionPull) Kind() InteractionKind {
	return InteractionKindPull
}

func (i InteractionPull) Locations() [][]Location {
	return [][]Location{i.LocationClient, i.LocationServer}
}

func (InteractionPull) isInteraction() {}

func (i InteractionPull) MarshalJSON() ([]byte, error) {
	w, err := toWire(i)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// ------------------------------------------------------------------------------------------------
// ~ Within
// ------------------------------------------------------------------------------------------------

// InteractionWithin something happens within a location, e.g. an
// application starting up on a server.
type InteractionWithin struct {
	Location []Location `json:"location"`
}

func NewInteractionWithin(location []Location) InteractionWithin {
	return InteractionWithin{Location: location}
}

func (InteractionWithin) Kind() InteractionKind {
	return InteractionKindWithin
}

func (i InteractionWithin) Locations() [][]Location {
	return [][]Location{i.Location}
}

func (InteractionWithin) isInteraction() {}

func (i InteractionWithin) MarshalJSON() ([]byte, error) {
	w, err := toWire(i)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// ------------------------------------------------------------------------------------------------
// ~ Helpers
// ------------------------------------------------------------------------------------------------

// InteractionValue returns the value form of i, pointer variants are
// dereferenced. It reports false for nil interactions.
func InteractionValue(i Interaction) (Interaction, bool) {
	switch v := i.(type) {
	case InteractionPush, InteractionPull, InteractionWithin:
		return v, true
	case *InteractionPush:
		if v != nil {
			return *v, true
		}
	case *InteractionPull:
		if v != nil {
			return *v, true
		}
	case *InteractionWithin:
		if v != nil {
			return *v, true
		}
	}
	return nil, false
}

// ValidateInteraction checks every location of the interaction
func ValidateInteraction(i Interaction) error {
	i, ok := InteractionValue(i)
	if !ok {
		return errors.New("interaction must not be nil")
	}
	for _, chain := range i.Locations() {
		for _, location := range chain {
			if err := location.Validate(); err != nil {
				return errors.Wrapf(err, "invalid %s interaction", i.Kind())
			}
		}
	}
	return nil
}
