//go:build integration

package graphdb_test

import (
	"context"
	"os"
	"testing"

	"github.com/foomo/itemmodel/pkg/graphdb"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// needs ITEMMODEL_TEST_NEO4J_URI and optional ITEMMODEL_TEST_NEO4J_PASSWORD
func TestExport(t *testing.T) {
	uri := os.Getenv("ITEMMODEL_TEST_NEO4J_URI")
	if uri == "" {
		t.Skip("ITEMMODEL_TEST_NEO4J_URI not set")
	}
	ctx := context.Background()

	e, err := graphdb.NewExporter(ctx, zaptest.NewLogger(t), uri, "neo4j", os.Getenv("ITEMMODEL_TEST_NEO4J_PASSWORD"))
	require.NoError(t, err)
	defer e.Close(ctx)

	// exporting twice replaces the flow
	require.NoError(t, e.Export(ctx, "test_deploy", testGraph()))
	require.NoError(t, e.Export(ctx, "test_deploy", testGraph()))
}
