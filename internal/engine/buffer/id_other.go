//go:build !unix

package buffer

import (
	"os"
	"path/filepath"
)

// fileKey identifies a file by its absolute path where inodes are not
// available.
func fileKey(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return "path:" + abs, nil
}
