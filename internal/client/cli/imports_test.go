package cli

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// The dashboard shares wire types through internal/models and internal/notify;
// server packages stay out of the client binary.
func TestClientDoesNotImportServer(t *testing.T) {
	const server = "github.com/dmitrijs2005/shipagency/internal/server"

	for _, dir := range []string{".", "../client", "../config", "../../../cmd/cli"} {
		files, err := filepath.Glob(filepath.Join(dir, "*.go"))
		require.NoError(t, err)
		require.NotEmpty(t, files, dir)

		for _, f := range files {
			parsed, err := parser.ParseFile(token.NewFileSet(), f, nil, parser.ImportsOnly)
			require.NoError(t, err, f)
			for _, imp := range parsed.Imports {
				path, err := strconv.Unquote(imp.Path.Value)
				require.NoError(t, err)
				require.False(t, strings.HasPrefix(path, server), "%s imports %s", f, path)
			}
		}
	}
}
