package filehash

import (
	"encoding/hex"
	"os"

	"github.com/MirrorChyan/dxvk-manager/internal/pkg/bufpool"
	"github.com/minio/sha256-simd"
)

func Calculate(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := bufpool.Copy(hasher, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Same reports whether both files exist and have identical content.
func Same(a, b string) (bool, error) {
	ha, err := Calculate(a)
	if err != nil {
		return false, err
	}
	hb, err := Calculate(b)
	if err != nil {
		return false, err
	}
	return ha == hb, nil
}
