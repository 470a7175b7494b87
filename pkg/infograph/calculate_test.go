package infograph_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/foomo/itemmodel/item"
	"github.com/foomo/itemmodel/pkg/infograph"
	"github.com/foomo/itemmodel/pkg/locations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	github   = item.NewHost("github.com")
	releases = item.NewPath("/owner/app/releases/app.tar")
	tmpApp   = item.NewPath("/tmp/app.tar")
	aws      = item.NewGroup("aws")
	bucket   = item.NewHost("s3.amazonaws.com")
	object   = item.NewPath("/bucket/app.tar")

	nodeLocalhost = infograph.NodeIDFromChain([]item.Location{item.Localhost()})
	nodeTmpApp    = infograph.NodeIDFromChain([]item.Location{item.Localhost(), tmpApp})
	nodeGitHub    = infograph.NodeIDFromChain([]item.Location{github})
	nodeReleases  = infograph.NodeIDFromChain([]item.Location{github, releases})
	nodeAWS       = infograph.NodeIDFromChain([]item.Location{aws})
	nodeBucket    = infograph.NodeIDFromChain([]item.Location{aws, bucket})
	nodeObject    = infograph.NodeIDFromChain([]item.Location{aws, bucket, object})
)

func testLocationsAndInteractions() *locations.LocationsAndInteractions {
	ii := locations.NewItemInteractions()
	ii.Set("app_download", item.Interactions{
		item.NewInteractionPull(
			[]item.Location{item.Localhost(), tmpApp},
			[]item.Location{github, releases},
		),
	})
	ii.Set("app_upload", item.Interactions{
		item.NewInteractionPush(
			[]item.Location{item.Localhost(), tmpApp},
			[]item.Location{aws, bucket, object},
		),
	})
	ii.Set("app_start", item.Interactions{
		item.NewInteractionWithin([]item.Location{item.Localhost()}),
	})
	return locations.New(ii)
}

func TestNodeIDFromChain(t *testing.T) {
	assert.Equal(t, infograph.NodeID("host___localhost"), nodeLocalhost)
	assert.Equal(t, infograph.NodeID("host___localhost___path_____tmp__app__tar"), nodeTmpApp)
	assert.Equal(t, infograph.NodeID("group___aws___host___s3__amazonaws__com"), nodeBucket)
	assert.Equal(t, infograph.NodeID("host___my__host"), infograph.NodeIDFromChain([]item.Location{item.NewHost("My Host")}))
	assert.Equal(t, infograph.NodeID("path_____"), infograph.NodeIDFromChain([]item.Location{item.NewPath("ü")}))
}

func TestCalculateHierarchy(t *testing.T) {
	g := infograph.Calculate(testLocationsAndInteractions())

	assert.Equal(t, infograph.GraphDirVertical, g.Direction)
	assert.Equal(t, uint32(3), g.GraphvizAttrs.EdgeMinlenDefault)
	assert.Contains(t, g.CSS, "@keyframes stroke-dashoffset-move-request")

	assert.Equal(t, []infograph.NodeID{nodeLocalhost, nodeGitHub, nodeAWS}, g.Hierarchy.Keys())

	localhost, ok := g.Hierarchy.Get(nodeLocalhost)
	require.True(t, ok)
	assert.Equal(t, []infograph.NodeID{nodeTmpApp}, localhost.Keys())

	awsChildren, ok := g.Hierarchy.Get(nodeAWS)
	require.True(t, ok)
	bucketChildren, ok := awsChildren.Get(nodeBucket)
	require.True(t, ok)
	assert.Equal(t, []infograph.NodeID{nodeObject}, bucketChildren.Keys())

	assert.Equal(t, 7, g.NodeNames.Len())
	name, ok := g.NodeName(nodeObject)
	require.True(t, ok)
	assert.Equal(t, "/bucket/app.tar", name)
}

func TestCalculatePushEdge(t *testing.T) {
	g := infograph.Calculate(testLocationsAndInteractions())

	id := infograph.EdgeID(nodeLocalhost.String() + "___" + nodeObject.String())
	edge, ok := g.Edges.Get(id)
	require.True(t, ok)
	assert.Equal(t, [2]infograph.NodeID{nodeLocalhost, nodeObject}, edge)
	assert.Equal(t, infograph.EdgeDirForward, g.EdgeDir(id))

	style, ok := g.Theme.Style(id.String())
	require.True(t, ok)
	animate, _ := style.Get(infograph.ThemeAttrAnimate)
	assert.Equal(t, "[stroke-dashoffset-move_1s_linear_infinite]", animate)
	color, _ := style.Get(infograph.ThemeAttrShapeColor)
	assert.Equal(t, "blue", color)
}

func TestCalculatePullEdges(t *testing.T) {
	g := infograph.Calculate(testLocationsAndInteractions())

	prefix := nodeLocalhost.String() + "___" + nodeReleases.String()
	request := infograph.EdgeID(prefix + "___request")
	response := infograph.EdgeID(prefix + "___response")

	for _, id := range []infograph.EdgeID{request, response} {
		edge, ok := g.Edges.Get(id)
		require.True(t, ok, id)
		assert.Equal(t, [2]infograph.NodeID{nodeReleases, nodeLocalhost}, edge)
	}
	assert.Equal(t, infograph.EdgeDirBack, g.EdgeDir(request))
	assert.Equal(t, infograph.EdgeDirForward, g.EdgeDir(response))

	// pull edges come first, the download item was added first
	assert.Equal(t, request, g.Edges.Oldest().Key)
	assert.Equal(t, 3, g.Edges.Len())
}

func TestCalculateNodeStyles(t *testing.T) {
	g := infograph.Calculate(testLocationsAndInteractions())

	color := func(id infograph.NodeID) string {
		style, ok := g.Theme.Style(id.String())
		if !ok {
			return ""
		}
		v, _ := style.Get(infograph.ThemeAttrShapeColor)
		return v
	}
	strokeStyle := func(id infograph.NodeID) string {
		style, ok := g.Theme.Style(id.String())
		if !ok {
			return ""
		}
		v, _ := style.Get(infograph.ThemeAttrStrokeStyle)
		return v
	}

	assert.Equal(t, "purple", color(nodeGitHub))
	assert.Equal(t, "dotted", strokeStyle(nodeGitHub))
	assert.Equal(t, "dotted", strokeStyle(nodeAWS))

	// hosts inside groups and paths are not styled
	_, ok := g.Theme.Style(nodeBucket.String())
	assert.False(t, ok)
	_, ok = g.Theme.Style(nodeTmpApp.String())
	assert.False(t, ok)

	// within interactions animate the location on top of its base style
	assert.Equal(t, "blue", color(nodeLocalhost))
	assert.Equal(t, "dashed", strokeStyle(nodeLocalhost))
	style, ok := g.Theme.Style(nodeLocalhost.String())
	require.True(t, ok)
	shade, ok := style.Get(infograph.ThemeAttrFillShadeNormal)
	require.True(t, ok)
	assert.Equal(t, "50", shade)
}

func TestCalculateTopLevelHostLight(t *testing.T) {
	ii := locations.NewItemInteractions()
	ii.Set("server", item.Interactions{
		item.NewInteractionWithin([]item.Location{item.NewHost("example.com")}),
	})
	g := infograph.Calculate(locations.New(ii))

	id := infograph.NodeIDFromChain([]item.Location{item.NewHost("example.com")})
	style, ok := g.Theme.Style(id.String())
	require.True(t, ok)
	fill, _ := style.Get(infograph.ThemeAttrFillShadeNormal)
	assert.Equal(t, "50", fill)
}

func TestCalculateTags(t *testing.T) {
	g := infograph.Calculate(testLocationsAndInteractions())

	assert.Equal(t, 3, g.Tags.Len())
	assert.Equal(t, item.ID("app_download"), g.Tags.Oldest().Key)

	items, ok := g.TagItems.Get("app_upload")
	require.True(t, ok)
	assert.Equal(t, []string{
		nodeLocalhost.String(),
		nodeTmpApp.String(),
		nodeAWS.String(),
		nodeBucket.String(),
		nodeObject.String(),
		nodeLocalhost.String() + "___" + nodeObject.String(),
	}, items)

	items, ok = g.TagItems.Get("app_start")
	require.True(t, ok)
	assert.Equal(t, []string{nodeLocalhost.String()}, items)
}

func TestCalculateEmpty(t *testing.T) {
	g := infograph.Calculate(nil)
	assert.Equal(t, 0, g.Hierarchy.Len())
	assert.Equal(t, 0, g.Edges.Len())

	g = infograph.Calculate(locations.New(nil))
	assert.Equal(t, 0, g.NodeNames.Len())
}

func TestCalculateEmptyChain(t *testing.T) {
	ii := locations.NewItemInteractions()
	ii.Set("broken", item.Interactions{
		item.NewInteractionPush(nil, []item.Location{item.Localhost()}),
	})
	g := infograph.Calculate(locations.New(ii))
	assert.Equal(t, 0, g.Edges.Len())
	assert.Equal(t, 1, g.NodeNames.Len())
}

func TestInfoGraphJSONKeepsOrder(t *testing.T) {
	g := infograph.Calculate(testLocationsAndInteractions())
	data, err := g.JSON()
	require.NoError(t, err)

	s := string(data)
	iLocalhost := strings.Index(s, `"host___localhost"`)
	iGitHub := strings.Index(s, `"host___github__com"`)
	iAWS := strings.Index(s, `"group___aws"`)
	require.NotEqual(t, -1, iLocalhost)
	assert.Less(t, iLocalhost, iGitHub)
	assert.Less(t, iGitHub, iAWS)

	var decoded infograph.InfoGraph
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, g.Hierarchy.Keys(), decoded.Hierarchy.Keys())
	assert.Equal(t, g.Edges.Len(), decoded.Edges.Len())
	assert.Equal(t, infograph.EdgeDirBack, decoded.EdgeDir(g.Edges.Oldest().Key))
}

func TestInfoGraphYAML(t *testing.T) {
	g := infograph.Calculate(testLocationsAndInteractions())
	data, err := g.YAML()
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, "direction: vertical")
	assert.Contains(t, s, "edge_minlen_default: 3")
	iLocalhost := strings.Index(s, "host___localhost:")
	iGitHub := strings.Index(s, "host___github__com:")
	require.NotEqual(t, -1, iLocalhost)
	assert.Less(t, iLocalhost, iGitHub)
}

func TestCalculatePointerInteractions(t *testing.T) {
	push := item.NewInteractionPush(
		[]item.Location{item.Localhost(), tmpApp},
		[]item.Location{aws, bucket, object},
	)
	ii := locations.NewItemInteractions()
	ii.Set("app_upload", item.Interactions{&push, (*item.InteractionPull)(nil)})

	g := infograph.Calculate(locations.New(ii))

	id := infograph.EdgeID(nodeLocalhost.String() + "___" + nodeObject.String())
	_, ok := g.Edges.Get(id)
	assert.True(t, ok)
	assert.Equal(t, 1, g.Edges.Len())
}
