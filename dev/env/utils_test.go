package devenv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	path, err := ResolvePath("out/results.db")
	require.NoError(t, err)
	require.Equal(t, "out/results.db", path)

	root, err := GetWorkspaceRoot()
	require.NoError(t, err)

	path, err = ResolvePath("<dev_state>/results.db")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "dev", ".state", "results.db"), path)
}
