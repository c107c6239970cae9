package archive

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/MirrorChyan/dxvk-manager/internal/pkg/bufpool"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"

	"go.uber.org/zap"
)

type Format int

const (
	FormatUnknown Format = iota
	FormatTarGz
	FormatTarXz
	FormatZip
)

func (f Format) String() string {
	switch f {
	case FormatTarGz:
		return "tar.gz"
	case FormatTarXz:
		return "tar.xz"
	case FormatZip:
		return "zip"
	default:
		return "unknown"
	}
}

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicXz   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	magicZip  = []byte{'P', 'K', 0x03, 0x04}
)

var ErrUnsupportedFormat = errors.New("unsupported archive format")

// Detect sniffs the archive format from the leading bytes of the file.
func Detect(src string) (Format, error) {
	f, err := os.Open(src)
	if err != nil {
		return FormatUnknown, err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	head := make([]byte, len(magicXz))
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return FormatUnknown, err
	}
	head = head[:n]

	switch {
	case bytes.HasPrefix(head, magicGzip):
		return FormatTarGz, nil
	case bytes.HasPrefix(head, magicXz):
		return FormatTarXz, nil
	case bytes.HasPrefix(head, magicZip):
		return FormatZip, nil
	}
	return FormatUnknown, nil
}

// Unpack extracts src into dest, picking the decoder from the file content.
func Unpack(src, dest string) error {
	format, err := Detect(src)
	if err != nil {
		return err
	}
	switch format {
	case FormatTarGz:
		return UnpackTarGz(src, dest)
	case FormatTarXz:
		return UnpackTarXz(src, dest)
	case FormatZip:
		return UnpackZip(src, dest)
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "%s", filepath.Base(src))
	}
}

// UnpackZip unpacks a zip archive to the specified destination directory.
func UnpackZip(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer func(r *zip.ReadCloser) {
		_ = r.Close()
	}(r)

	for _, f := range r.File {
		fpath, err := safeJoin(dest, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(fpath, os.ModePerm); err != nil {
				return err
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = writeFile(fpath, rc, f.Mode())
		_ = rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// UnpackTarGz unpacks a tar.gz archive to the specified destination directory.
func UnpackTarGz(src, dest string) error {
	file, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	gzr, err := gzip.NewReader(bufio.NewReader(file))
	if err != nil {
		return err
	}
	defer func(gzr *gzip.Reader) {
		_ = gzr.Close()
	}(gzr)

	return untar(tar.NewReader(gzr), dest)
}

// UnpackTarXz unpacks a tar.xz archive to the specified destination directory.
func UnpackTarXz(src, dest string) error {
	file, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	xzr, err := xz.NewReader(bufio.NewReader(file))
	if err != nil {
		return err
	}
	return untar(tar.NewReader(xzr), dest)
}

func untar(tarReader *tar.Reader, dest string) error {
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		fpath, err := safeJoin(dest, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(fpath, os.ModePerm); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(fpath, tarReader, header.FileInfo().Mode()); err != nil {
				return err
			}
		default:
			// links and devices are never part of a release payload
			zap.L().Debug("Skipping tar entry",
				zap.String("name", header.Name),
				zap.Uint8("type", header.Typeflag),
			)
		}
	}
	return nil
}

func safeJoin(dest, name string) (string, error) {
	fpath := filepath.Join(dest, name)
	if !strings.HasPrefix(fpath, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("illegal file path: %s", fpath)
	}
	return fpath, nil
}

func writeFile(fpath string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(fpath), os.ModePerm); err != nil {
		return err
	}
	perm := mode.Perm()
	if perm == 0 {
		perm = 0o644
	}
	outFile, err := os.OpenFile(fpath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := bufpool.Copy(outFile, r); err != nil {
		_ = outFile.Close()
		return err
	}
	return outFile.Close()
}

// PackTarGz creates a TAR.GZ archive from the specified source directory.
// Entry names are prefixed with root when it is not empty.
func PackTarGz(srcDir, root, destTarGz string) error {
	tarGzFile, err := os.Create(destTarGz)
	if err != nil {
		return err
	}
	defer func(tarGzFile *os.File) {
		if err := tarGzFile.Close(); err != nil {
			zap.L().Error("Failed to close tar.gz file",
				zap.Error(err),
			)
		}
	}(tarGzFile)

	gzipWriter := gzip.NewWriter(tarGzFile)
	tarWriter := tar.NewWriter(gzipWriter)

	walkErr := filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}
		name := filepath.ToSlash(filepath.Join(root, relPath))

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = name
		if info.IsDir() {
			header.Name += "/"
		}

		if err := tarWriter.WriteHeader(header); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func(file *os.File) {
			_ = file.Close()
		}(file)

		_, err = bufpool.Copy(tarWriter, file)
		return err
	})
	if walkErr != nil {
		return walkErr
	}
	if err := tarWriter.Close(); err != nil {
		return err
	}
	return gzipWriter.Close()
}
