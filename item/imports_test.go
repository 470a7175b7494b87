package item_test

import (
	"go/parser"
	"go/token"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// the base package must build without the optional locations and progress
// dependencies
func TestBaseImportsNoOptionalDependencies(t *testing.T) {
	forbidden := []string{
		"github.com/wk8/go-ordered-map",
		"github.com/foomo/itemmodel/pkg/locations",
		"github.com/foomo/itemmodel/pkg/progress",
	}

	entries, err := os.ReadDir(".")
	require.NoError(t, err)

	fset := token.NewFileSet()
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
		require.NoError(t, err)
		for _, imp := range f.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			require.NoError(t, err)
			for _, prefix := range forbidden {
				require.False(t, strings.HasPrefix(path, prefix), "%s imports %s", name, path)
			}
		}
	}
}
