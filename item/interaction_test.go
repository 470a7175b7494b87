package item_test

import (
	"encoding/json"
	"testing"

	"github.com/foomo/itemmodel/item"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractionPushLocations(t *testing.T) {
	push := item.NewInteractionPush(
		[]item.Location{item.Localhost()},
		[]item.Location{item.NewHost("server")},
	)
	assert.Equal(t, item.InteractionKindPush, push.Kind())
	assert.Equal(t, []item.Location{item.Localhost()}, push.LocationFrom)
	assert.Equal(t, []item.Location{item.NewHost("server")}, push.LocationTo)
	assert.Len(t, push.Locations(), 2)
}

func TestInteractionPullLocations(t *testing.T) {
	pull := item.NewInteractionPull(
		[]item.Location{item.Localhost(), item.NewPath("/tmp/app.zip")},
		[]item.Location{item.NewHost("github.com"), item.NewPath("/releases/app.zip")},
	)
	assert.Equal(t, item.InteractionKindPull, pull.Kind())
	assert.Equal(t, []item.Location{item.Localhost(), item.NewPath("/tmp/app.zip")}, pull.LocationClient)
	assert.Equal(t, [][]item.Location{pull.LocationClient, pull.LocationServer}, pull.Locations())
}

func TestInteractionWithinLocations(t *testing.T) {
	within := item.NewInteractionWithin([]item.Location{item.NewHost("server")})
	assert.Equal(t, item.InteractionKindWithin, within.Kind())
	assert.Equal(t, [][]item.Location{{item.NewHost("server")}}, within.Locations())
}

func TestInteractionsJSON(t *testing.T) {
	interactions := item.Interactions{
		item.NewInteractionPush([]item.Location{item.Localhost()}, []item.Location{item.NewHost("server")}),
		item.NewInteractionPull([]item.Location{item.Localhost()}, []item.Location{item.NewHost("github.com")}),
		item.NewInteractionWithin([]item.Location{item.NewHost("server")}),
	}

	data, err := json.Marshal(interactions)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"kind":"push","location_from":[{"name":"localhost","type":"host"}],"location_to":[{"name":"server","type":"host"}]},
		{"kind":"pull","location_client":[{"name":"localhost","type":"host"}],"location_server":[{"name":"github.com","type":"host"}]},
		{"kind":"within","location":[{"name":"server","type":"host"}]}
	]`, string(data))

	var decoded item.Interactions
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, interactions, decoded)
}

func TestSingleInteractionJSON(t *testing.T) {
	data, err := json.Marshal(item.NewInteractionWithin([]item.Location{item.NewHost("server")}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"within","location":[{"name":"server","type":"host"}]}`, string(data))

	i, err := item.UnmarshalInteraction(data)
	require.NoError(t, err)
	assert.Equal(t, item.NewInteractionWithin([]item.Location{item.NewHost("server")}), i)
}

func TestInteractionsUnknownKind(t *testing.T) {
	var decoded item.Interactions
	err := json.Unmarshal([]byte(`[{"kind":"teleport","location":[]}]`), &decoded)
	require.Error(t, err)
	assert.True(t, errors.Is(err, item.ErrUnknownInteractionKind))
}

func TestInteractionsValidate(t *testing.T) {
	valid := item.Interactions{
		item.NewInteractionWithin([]item.Location{item.NewHost("server")}),
	}
	require.NoError(t, valid.Validate())
	assert.Equal(t, 1, valid.LocationCount())

	invalid := item.Interactions{
		item.NewInteractionPush([]item.Location{item.Localhost()}, []item.Location{item.NewPath("")}),
	}
	require.Error(t, invalid.Validate())
	require.Error(t, item.ValidateInteraction(nil))
}

func TestInteractionsJSONPointerVariants(t *testing.T) {
	var (
		push   = item.NewInteractionPush([]item.Location{item.Localhost()}, []item.Location{item.NewHost("server")})
		pull   = item.NewInteractionPull([]item.Location{item.Localhost()}, []item.Location{item.NewHost("github.com")})
		within = item.NewInteractionWithin([]item.Location{item.NewHost("server")})
	)

	data, err := json.Marshal(item.Interactions{&push, &pull, &within})
	require.NoError(t, err)

	var decoded item.Interactions
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, item.Interactions{push, pull, within}, decoded)
}

func TestInteractionsJSONRejectsUnencodable(t *testing.T) {
	for name, is := range map[string]item.Interactions{
		"nil":             {nil},
		"nil push":        {(*item.InteractionPush)(nil)},
		"nil pull":        {(*item.InteractionPull)(nil)},
		"nil within":      {(*item.InteractionWithin)(nil)},
		"after valid one": {item.NewInteractionWithin([]item.Location{item.Localhost()}), (*item.InteractionWithin)(nil)},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := json.Marshal(is)
			assert.Error(t, err)
		})
	}
}
