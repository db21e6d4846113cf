//go:build unix

package utils

import (
	"io/fs"
	"os"
	"syscall"
)

// FileID identifies a file by device and inode.
type FileID struct {
	dev uint64
	ino uint64
}

var lstat = os.Lstat

// FileIdentity returns the device/inode pair for files with more than one
// hard link. Singly linked files never need deduplication.
func FileIdentity(info fs.FileInfo) (FileID, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok || st.Nlink < 2 {
		return FileID{}, false
	}
	return FileID{dev: uint64(st.Dev), ino: uint64(st.Ino)}, true
}
