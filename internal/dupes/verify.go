package dupes

import (
	"bytes"
	"context"
	"io"

	"github.com/2ykwang/fitmac/internal/logger"
	"github.com/2ykwang/fitmac/internal/types"
)

const compareChunk = 64 * 1024

// verifyGroups compares members byte for byte and splits each group into
// subsets of truly identical files. Subsets with one member are dropped.
func (d *Detector) verifyGroups(ctx context.Context, groups []types.DuplicateGroup) ([]types.DuplicateGroup, error) {
	out := make([]types.DuplicateGroup, 0, len(groups))
	for _, g := range groups {
		var subsets [][]types.DuplicateFile
		for _, f := range g.Files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			placed := false
			for i, s := range subsets {
				same, err := d.sameContent(s[0].Path, f.Path)
				if err != nil {
					logger.Debug("verify failed", "path", f.Path, "error", err)
					placed = true // unreadable now, leave it out
					break
				}
				if same {
					subsets[i] = append(subsets[i], f)
					placed = true
					break
				}
			}
			if !placed {
				subsets = append(subsets, []types.DuplicateFile{f})
			}
		}
		for _, s := range subsets {
			if len(s) > 1 {
				out = append(out, types.DuplicateGroup{Fingerprint: g.Fingerprint, Size: g.Size, Files: s})
			}
		}
	}
	return out, nil
}

func (d *Detector) sameContent(a, b string) (bool, error) {
	fa, err := d.fs.Open(a)
	if err != nil {
		return false, err
	}
	defer fa.Close()
	fb, err := d.fs.Open(b)
	if err != nil {
		return false, err
	}
	defer fb.Close()

	bufA := make([]byte, compareChunk)
	bufB := make([]byte, compareChunk)
	for {
		na, errA := io.ReadFull(fa, bufA)
		nb, errB := io.ReadFull(fb, bufB)
		if na != nb || !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}
		doneA := errA == io.EOF || errA == io.ErrUnexpectedEOF
		doneB := errB == io.EOF || errB == io.ErrUnexpectedEOF
		if errA != nil && !doneA {
			return false, errA
		}
		if errB != nil && !doneB {
			return false, errB
		}
		if doneA || doneB {
			return doneA == doneB, nil
		}
	}
}
