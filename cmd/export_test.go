package cmd_test

import (
	"bytes"
	"testing"

	"github.com/foomo/itemmodel/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportUnknownFlow(t *testing.T) {
	root := cmd.NewRootCommand()
	root.SetArgs([]string{"export", "--log-level", "error", "--flow", "missing", "testdata/flows.yaml"})
	root.SetOut(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `flow "missing" not found`)
}
