package archive

import (
	"archive/tar"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func TestPackAndUnpackTarGz(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"x64/d3d9.dll":  "64",
		"x32/d3d9.dll":  "32",
		"x64/dxgi.dll":  "dxgi",
		"setup_dxvk.sh": "#!/bin/sh",
	})

	archivePath := filepath.Join(t.TempDir(), "dxvk-2.3.tar.gz")
	require.NoError(t, PackTarGz(src, "dxvk-2.3", archivePath))

	format, err := Detect(archivePath)
	require.NoError(t, err)
	require.Equal(t, FormatTarGz, format)

	dest := t.TempDir()
	require.NoError(t, Unpack(archivePath, dest))

	data, err := os.ReadFile(filepath.Join(dest, "dxvk-2.3", "x64", "d3d9.dll"))
	require.NoError(t, err)
	require.Equal(t, "64", string(data))
	require.FileExists(t, filepath.Join(dest, "dxvk-2.3", "x32", "d3d9.dll"))
}

func TestUnpackTarXz(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "dxvk.tar.xz")
	f, err := os.Create(archivePath)
	require.NoError(t, err)

	xw, err := xz.NewWriter(f)
	require.NoError(t, err)
	tw := tar.NewWriter(xw)
	body := []byte("d3d11")
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "x64/d3d11.dll", Mode: 0o644, Size: int64(len(body)), Typeflag: tar.TypeReg}))
	_, err = tw.Write(body)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, xw.Close())
	require.NoError(t, f.Close())

	dest := t.TempDir()
	require.NoError(t, Unpack(archivePath, dest))
	data, err := os.ReadFile(filepath.Join(dest, "x64", "d3d11.dll"))
	require.NoError(t, err)
	require.Equal(t, "d3d11", string(data))
}

func TestUnpackRejectsTraversal(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "evil.tar.gz")
	f, err := os.Create(archivePath)
	require.NoError(t, err)
	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "../escape.dll", Mode: 0o644, Size: 1, Typeflag: tar.TypeReg}))
	_, err = tw.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	require.NoError(t, f.Close())

	dest := t.TempDir()
	err = Unpack(archivePath, dest)
	require.Error(t, err)
	require.Contains(t, err.Error(), "illegal file path")
}

func TestUnpackUnknownFormat(t *testing.T) {
	p := filepath.Join(t.TempDir(), "junk.tar.gz")
	require.NoError(t, os.WriteFile(p, []byte("<html>not found</html>"), 0o644))

	format, err := Detect(p)
	require.NoError(t, err)
	require.Equal(t, FormatUnknown, format)
	require.ErrorIs(t, Unpack(p, t.TempDir()), ErrUnsupportedFormat)
}
