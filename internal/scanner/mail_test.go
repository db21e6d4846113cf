package scanner

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2ykwang/fitmac/internal/inventory"
	"github.com/2ykwang/fitmac/internal/types"
)

func TestMailScanner_UsesNewestStore(t *testing.T) {
	mail := t.TempDir()
	mkdir(t, filepath.Join(mail, "V2"))
	mkdir(t, filepath.Join(mail, "V10"))
	mkdir(t, filepath.Join(mail, "Vault"))

	s := NewMailScanner(&inventory.Inventory{Mail: mail})

	assert.Equal(t, filepath.Join(mail, "V10"), s.storeDir())
	assert.True(t, s.IsAvailable())
}

func TestMailScanner_Scan(t *testing.T) {
	mail := t.TempDir()
	store := filepath.Join(mail, "V10")
	inbox := filepath.Join(store, "ACCOUNT-ID", "INBOX.mbox")

	writeFile(t, filepath.Join(inbox, "Messages", "1.emlx"), 500_000)
	writeFile(t, filepath.Join(inbox, "Messages", "1.partial.emlxpart"), 500_000)
	writeFile(t, filepath.Join(inbox, "Messages", "report.pdf"), 300_000)
	writeFile(t, filepath.Join(inbox, "Messages", "tiny.png"), 1_000)
	writeFile(t, filepath.Join(inbox, "Attachments", "42", "2", "photo"), 200_000)
	writeFile(t, filepath.Join(store, "MailData", "Downloads", "deck.key"), 400_000)
	writeFile(t, filepath.Join(store, "MailData", "Envelope Index"), 900_000)

	s := NewMailScanner(&inventory.Inventory{Mail: mail})
	result, err := s.Scan(context.Background(), types.ScanOptions{})

	require.NoError(t, err)
	require.Len(t, result.Items, 3)
	assert.Equal(t, filepath.Join(store, "MailData", "Downloads", "deck.key"), result.Items[0].Path)
	assert.Equal(t, filepath.Join(inbox, "Messages", "report.pdf"), result.Items[1].Path)
	assert.Equal(t, filepath.Join(inbox, "Attachments", "42", "2", "photo"), result.Items[2].Path)
	assert.Equal(t, "INBOX", column(result.Items[1], "Mailbox"))
}

func TestMailScanner_MinSizeOverride(t *testing.T) {
	mail := t.TempDir()
	inbox := filepath.Join(mail, "V9", "INBOX.mbox")
	writeFile(t, filepath.Join(inbox, "Attachments", "1", "small.txt"), 2_000)

	s := NewMailScanner(&inventory.Inventory{Mail: mail})

	result, err := s.Scan(context.Background(), types.ScanOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Items)

	result, err = s.Scan(context.Background(), types.ScanOptions{MinSize: 1_000})
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
}

func TestMailScanner_NoStore(t *testing.T) {
	s := NewMailScanner(&inventory.Inventory{Mail: filepath.Join(t.TempDir(), "Mail")})

	result, err := s.Scan(context.Background(), types.ScanOptions{})

	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.False(t, s.IsAvailable())
}
