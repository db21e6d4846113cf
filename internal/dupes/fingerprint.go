package dupes

import (
	"encoding/binary"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/h2non/filetype"
	"github.com/spf13/afero"
)

// typeHeaderSize is the number of leading bytes filetype needs.
const typeHeaderSize = 262

// fingerprint hashes a file of the given size. Files up to three windows
// long are hashed whole; larger files contribute their head, middle
// (offset size/2) and tail windows. The size is always mixed in, so files
// of different length never collide. It also returns the leading bytes
// for type detection.
func fingerprint(fs afero.Fs, path string, size, window int64) (string, []byte, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	h := xxhash.New()
	var head []byte

	if size <= 3*window {
		buf := make([]byte, size)
		if _, err := io.ReadFull(f, buf); err != nil {
			return "", nil, fmt.Errorf("read %s: %w", path, err)
		}
		h.Write(buf)
		head = buf
	} else {
		buf := make([]byte, window)
		for i, off := range []int64{0, size / 2, size - window} {
			if _, err := f.ReadAt(buf, off); err != nil && err != io.EOF {
				return "", nil, fmt.Errorf("read %s at %d: %w", path, off, err)
			}
			h.Write(buf)
			if i == 0 {
				head = append([]byte(nil), buf[:min(len(buf), typeHeaderSize)]...)
			}
		}
	}

	var sizeBuf [8]byte
	binary.LittleEndian.PutUint64(sizeBuf[:], uint64(size))
	h.Write(sizeBuf[:])

	return fmt.Sprintf("%016x", h.Sum64()), head[:min(len(head), typeHeaderSize)], nil
}

// detectType returns the MIME type sniffed from head, falling back to the
// lower-cased extension.
func detectType(path string, head []byte) string {
	if kind, err := filetype.Match(head); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); ext != "" {
		return ext
	}
	return "unknown"
}
