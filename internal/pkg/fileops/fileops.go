package fileops

import (
	"os"

	"github.com/MirrorChyan/dxvk-manager/internal/pkg/bufpool"
	"github.com/pkg/errors"

	"go.uber.org/zap"
)

// CopyFile copies src over dst, truncating dst if it exists. The file mode of
// src is kept.
func CopyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(source)

	info, err := source.Stat()
	if err != nil {
		return err
	}

	dest, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err = bufpool.Copy(dest, source); err != nil {
		_ = dest.Close()
		return errors.Wrapf(err, "copy %s to %s", src, dst)
	}

	if err := dest.Close(); err != nil {
		zap.L().Error("Failed to close file",
			zap.String("file", dst),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Exists reports whether path exists. Any stat error other than "not exist"
// is treated as present so callers never overwrite something they could not
// inspect.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// RemoveIfExists deletes path and reports whether something was removed.
func RemoveIfExists(path string) (bool, error) {
	err := os.Remove(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
