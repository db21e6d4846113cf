package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/2ykwang/fitmac/internal/inventory"
	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

// DefaultMailMinSize is the smallest attachment reported unless overridden.
const DefaultMailMinSize int64 = 100 * 1024

// message bodies and mailbox metadata, not attachments
var mailMessageExts = map[string]bool{".emlx": true, ".emlxpart": true, ".plist": true}

// MailScanner reports downloaded Mail attachments in the newest mail store.
type MailScanner struct {
	inv *inventory.Inventory
}

func NewMailScanner(inv *inventory.Inventory) *MailScanner {
	return &MailScanner{inv: inv}
}

func (s *MailScanner) Category() types.Category {
	return types.CategoryMail
}

func (s *MailScanner) IsAvailable() bool {
	return s.storeDir() != ""
}

// storeDir returns the newest V<n> directory below the mail root.
func (s *MailScanner) storeDir() string {
	root := utils.ExpandPath(s.inv.Mail)
	best, bestVer := "", -1
	for _, p := range listChildren(root, true) {
		name := filepath.Base(p)
		if !strings.HasPrefix(name, "V") {
			continue
		}
		v, err := strconv.Atoi(name[1:])
		if err != nil || v <= bestVer {
			continue
		}
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			best, bestVer = p, v
		}
	}
	return best
}

func (s *MailScanner) Scan(ctx context.Context, opts types.ScanOptions) (*types.ScanResult, error) {
	minSize := opts.MinSize
	if minSize <= 0 {
		minSize = DefaultMailMinSize
	}
	progress := progressFunc(opts)

	store := s.storeDir()
	if store == "" || !utils.IsReadable(store) {
		return types.NewScanResult(types.CategoryMail, nil), nil
	}

	var items []types.Item
	seen := make(map[string]bool)
	scanned := 0

	collect := func(root, mailbox string, attachmentsOnly bool) error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				if d != nil && d.IsDir() && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if path != root && utils.IsHidden(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || seen[path] {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if !attachmentsOnly && (ext == "" || mailMessageExts[ext]) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			scanned++
			progress(scanned)
			if info.Size() < minSize {
				return nil
			}
			seen[path] = true
			items = append(items, types.Item{
				Path:        path,
				Name:        d.Name(),
				Category:    types.CategoryMail,
				Size:        info.Size(),
				FileCount:   1,
				ModifiedAt:  info.ModTime(),
				Description: "attachment in " + mailbox,
				Method:      types.MethodTrash,
				Columns:     []types.Column{{Header: "Mailbox", Value: mailbox}},
			})
			return nil
		})
	}

	for _, mbox := range mailboxes(store) {
		name := strings.TrimSuffix(filepath.Base(mbox), ".mbox")
		if err := collect(filepath.Join(mbox, "Messages"), name, false); err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err := collect(filepath.Join(mbox, "Attachments"), name, true); err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	if err := collect(filepath.Join(store, "MailData", "Downloads"), "Downloads", true); err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}

	types.SortItems(items, types.SortBySize)
	return types.NewScanResult(types.CategoryMail, items), nil
}

// mailboxes lists .mbox directories anywhere below store. Account folders
// nest mailboxes one or more levels deep.
func mailboxes(store string) []string {
	var out []string
	_ = filepath.WalkDir(store, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != store {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() || path == store {
			return nil
		}
		if utils.IsHidden(path) || d.Name() == "MailData" || d.Name() == "Messages" || d.Name() == "Attachments" {
			return filepath.SkipDir
		}
		if strings.HasSuffix(d.Name(), ".mbox") {
			out = append(out, path)
		}
		return nil
	})
	return out
}
