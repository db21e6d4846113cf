//go:build darwin || linux

package utils

import "golang.org/x/sys/unix"

// DiskUsage describes the volume holding a path.
type DiskUsage struct {
	Total     uint64
	Free      uint64
	Available uint64
}

// Used returns bytes in use.
func (d DiskUsage) Used() uint64 {
	return d.Total - d.Free
}

// UsedPercent returns the used share of the volume in percent.
func (d DiskUsage) UsedPercent() float64 {
	if d.Total == 0 {
		return 0
	}
	return float64(d.Used()) / float64(d.Total) * 100
}

// GetDiskUsage reports capacity for the volume containing path.
func GetDiskUsage(path string) (DiskUsage, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(ExpandPath(path), &st); err != nil {
		return DiskUsage{}, err
	}
	bsize := uint64(st.Bsize)
	return DiskUsage{
		Total:     uint64(st.Blocks) * bsize,
		Free:      uint64(st.Bfree) * bsize,
		Available: uint64(st.Bavail) * bsize,
	}, nil
}
