package graphdb_test

import (
	"testing"

	"github.com/foomo/itemmodel/item"
	"github.com/foomo/itemmodel/pkg/graphdb"
	"github.com/foomo/itemmodel/pkg/infograph"
	"github.com/foomo/itemmodel/pkg/locations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGraph() *infograph.InfoGraph {
	localhost := item.Localhost()
	tarball := item.NewPath("/tmp/app.tar")
	github := item.NewHost("github.com")

	ii := locations.NewItemInteractions()
	ii.Set("app_download", item.Interactions{
		item.NewInteractionPull([]item.Location{localhost, tarball}, []item.Location{github}),
	})
	ii.Set("app_start", item.Interactions{
		item.NewInteractionWithin([]item.Location{localhost}),
	})
	return infograph.Calculate(locations.New(ii))
}

func TestStatements(t *testing.T) {
	statements := graphdb.Statements("deploy", testGraph())
	require.Len(t, statements, 5)

	// the flow is cleared first
	assert.Contains(t, statements[0].Query, "DETACH DELETE")
	assert.Equal(t, map[string]any{"flow": "deploy"}, statements[0].Params)

	nodes := statements[1].Params["nodes"].([]any) //nolint:forcetypeassert
	require.Len(t, nodes, 3)
	assert.Equal(t, map[string]any{"id": "host___localhost", "name": "localhost", "depth": 0}, nodes[0])
	assert.Equal(t, map[string]any{"id": "host___localhost___path_____tmp__app__tar", "name": "/tmp/app.tar", "depth": 1}, nodes[1])

	contains := statements[2].Params["contains"].([]any) //nolint:forcetypeassert
	assert.Equal(t, []any{map[string]any{"parent": "host___localhost", "child": "host___localhost___path_____tmp__app__tar"}}, contains)

	edges := statements[3].Params["edges"].([]any) //nolint:forcetypeassert
	require.Len(t, edges, 2)
	request := edges[0].(map[string]any) //nolint:forcetypeassert
	assert.Equal(t, "host___github__com", request["from"])
	assert.Equal(t, "host___localhost", request["to"])
	assert.Equal(t, string(infograph.EdgeDirBack), request["dir"])

	items := statements[4].Params["items"].([]any) //nolint:forcetypeassert
	require.Len(t, items, 2)
	assert.Equal(t, "app_download", items[0].(map[string]any)["id"]) //nolint:forcetypeassert
	for _, s := range statements {
		assert.Equal(t, "deploy", s.Params["flow"])
	}
}

func TestStatementsEmptyGraph(t *testing.T) {
	statements := graphdb.Statements("empty", infograph.Calculate(nil))
	require.Len(t, statements, 1)
	assert.Contains(t, statements[0].Query, "DETACH DELETE")
}
