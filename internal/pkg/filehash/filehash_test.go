package filehash

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	sum, err := Calculate(path)
	require.NoError(t, err)
	require.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", sum)
}

func TestSame(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	c := filepath.Join(dir, "c")
	require.NoError(t, os.WriteFile(a, []byte("dxvk"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("dxvk"), 0o644))
	require.NoError(t, os.WriteFile(c, []byte("vendor"), 0o644))

	same, err := Same(a, b)
	require.NoError(t, err)
	require.True(t, same)

	same, err = Same(a, c)
	require.NoError(t, err)
	require.False(t, same)

	_, err = Same(a, filepath.Join(dir, "missing"))
	require.Error(t, err)
}
