//go:build unix

package buffer

import (
	"io/fs"
	"strconv"

	"golang.org/x/sys/unix"
)

// fileKey identifies a file by device and inode.
func fileKey(path string) (string, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return "", &fs.PathError{Op: "stat", Path: path, Err: err}
	}
	return "inode:" + strconv.FormatUint(uint64(st.Dev), 10) + ":" + strconv.FormatUint(uint64(st.Ino), 10), nil
}
