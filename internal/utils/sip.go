package utils

import (
	"path/filepath"
	"strings"
)

// SIP protected path prefixes (cannot be modified even by root)
var sipProtectedPrefixes = []string{
	"/System",
	"/usr",
	"/bin",
	"/sbin",
}

// SIP exception paths (writable even with SIP enabled)
var sipExceptionPrefixes = []string{
	"/usr/local",
	"/System/Volumes/Data",
}

// IsSIPProtected checks if the given path is protected by macOS SIP.
func IsSIPProtected(path string) bool {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = filepath.Clean(path)
	}

	for _, exception := range sipExceptionPrefixes {
		if hasPathPrefix(resolved, exception) {
			return false
		}
	}
	for _, protected := range sipProtectedPrefixes {
		if hasPathPrefix(resolved, protected) {
			return true
		}
	}
	return false
}

// hasPathPrefix matches whole path components, so "/usr" does not match "/usrdata".
func hasPathPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
