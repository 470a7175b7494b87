package locations_test

import (
	"encoding/json"
	"testing"

	"github.com/foomo/itemmodel/item"
	"github.com/foomo/itemmodel/pkg/locations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemInteractionsOrder(t *testing.T) {
	ii := locations.NewItemInteractions()
	for _, id := range []item.ID{"zeta", "alpha", "mu"} {
		ii.Set(id, item.Interactions{})
	}
	assert.Equal(t, []item.ID{"zeta", "alpha", "mu"}, ii.Keys())

	// replacing keeps the position
	ii.Set("zeta", item.Interactions{item.NewInteractionWithin([]item.Location{item.Localhost()})})
	assert.Equal(t, []item.ID{"zeta", "alpha", "mu"}, ii.Keys())

	assert.True(t, ii.Delete("alpha"))
	assert.False(t, ii.Delete("alpha"))
	assert.Equal(t, []item.ID{"zeta", "mu"}, ii.Keys())
	assert.Equal(t, 2, ii.Len())
}

func TestItemInteractionsAppend(t *testing.T) {
	ii := locations.NewItemInteractions()
	ii.Append("server", item.NewInteractionWithin([]item.Location{item.NewHost("a")}))
	ii.Append("server", item.NewInteractionWithin([]item.Location{item.NewHost("b")}))
	interactions, ok := ii.Get("server")
	require.True(t, ok)
	assert.Len(t, interactions, 2)

	_, ok = ii.Get("client")
	assert.False(t, ok)
}

func TestItemInteractionsZeroValue(t *testing.T) {
	var ii locations.ItemInteractions
	assert.Equal(t, 0, ii.Len())
	assert.Empty(t, ii.Keys())
	ii.Set("x", nil)
	assert.Equal(t, 1, ii.Len())
}

func TestItemInteractionsJSONKeepsOrder(t *testing.T) {
	data := []byte(`{
		"zeta": [{"kind":"within","location":[{"name":"localhost","type":"host"}]}],
		"alpha": [],
		"mu": [{"kind":"push","location_from":[{"name":"localhost","type":"host"}],"location_to":[{"name":"server","type":"host"}]}]
	}`)

	ii := locations.NewItemInteractions()
	require.NoError(t, json.Unmarshal(data, ii))
	assert.Equal(t, []item.ID{"zeta", "alpha", "mu"}, ii.Keys())

	mu, ok := ii.Get("mu")
	require.True(t, ok)
	require.Len(t, mu, 1)
	assert.Equal(t, item.InteractionKindPush, mu[0].Kind())

	encoded, err := json.Marshal(ii)
	require.NoError(t, err)
	assert.Regexp(t, `^\{"zeta":.*"alpha":.*"mu":`, string(encoded))
}

func TestItemInteractionsJSONInvalidID(t *testing.T) {
	ii := locations.NewItemInteractions()
	require.Error(t, json.Unmarshal([]byte(`{"not-valid": []}`), ii))
}

func TestItemInteractionsValidate(t *testing.T) {
	ii := locations.NewItemInteractions()
	ii.Set("ok", item.Interactions{item.NewInteractionWithin([]item.Location{item.Localhost()})})
	require.NoError(t, ii.Validate())

	ii.Set("broken", item.Interactions{item.NewInteractionWithin([]item.Location{item.NewHost("")})})
	err := ii.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `item "broken"`)
}
