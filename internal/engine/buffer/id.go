package buffer

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/google/uuid"
)

// fileNamespace scopes the name-based UUIDs derived for files.
var fileNamespace = uuid.MustParse("6f1d5c3e-8a4b-4e0f-9c27-3b5d2a7e91c4")

// FileID derives a buffer id from the identity of the file at path. Hard
// links and alternate paths to one file share an id. A path that does not
// exist is identified by its absolute form instead.
func FileID(path string) (uuid.UUID, error) {
	key, err := fileKey(path)
	if errors.Is(err, fs.ErrNotExist) {
		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			return uuid.Nil, fmt.Errorf("resolve %s: %w", path, absErr)
		}
		return uuid.NewSHA1(fileNamespace, []byte("path:"+abs)), nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return uuid.NewSHA1(fileNamespace, []byte(key)), nil
}
