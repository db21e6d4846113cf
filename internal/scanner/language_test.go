package scanner

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2ykwang/fitmac/internal/inventory"
	"github.com/2ykwang/fitmac/internal/types"
)

func TestKeepLanguage(t *testing.T) {
	tests := []struct {
		code    string
		current []string
		keep    bool
	}{
		{"en", []string{"ko-KR"}, true},
		{"Base", []string{"ko-KR"}, true},
		{"ko", []string{"ko-KR"}, true},
		{"ko_KR", []string{"ko-KR"}, true},
		{"fr", []string{"ko-KR"}, false},
		{"pt-BR", []string{"pt-PT"}, true},
		{"zh-Hans", []string{"zh-Hans-CN"}, true},
		{"zh_CN", []string{"zh-Hans-CN"}, true},
		{"zh-Hant", []string{"zh-Hans-CN"}, false},
		{"zh_TW", []string{"zh-Hant-TW"}, true},
		{"zh-Hans", []string{"en-US"}, false},
		{"de", []string{"en-US", "de-DE"}, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.keep, keepLanguage(tt.code, tt.current), "%s vs %v", tt.code, tt.current)
	}
}

func TestParseAppleLanguages(t *testing.T) {
	out := "(\n    \"en-US\",\n    ko,\n    \"zh-Hans-CN\"\n)\n"

	assert.Equal(t, []string{"en-US", "ko", "zh-Hans-CN"}, parseAppleLanguages(out))
}

func TestPreferredLanguages_FallsBackToLang(t *testing.T) {
	mockRunCommand(t, func(string, ...string) ([]byte, error) {
		return nil, errors.New("no defaults")
	})
	t.Setenv("LANG", "ja_JP.UTF-8")

	assert.Equal(t, []string{"ja_JP"}, preferredLanguages(context.Background()))

	t.Setenv("LANG", "C")
	assert.Equal(t, []string{"en"}, preferredLanguages(context.Background()))
}

func TestLanguageScanner_Scan(t *testing.T) {
	apps := t.TempDir()
	res := filepath.Join(apps, "Editor.app", "Contents", "Resources")
	writeFile(t, filepath.Join(res, "en.lproj", "Main.strings"), 100)
	writeFile(t, filepath.Join(res, "Base.lproj", "Main.nib"), 100)
	writeFile(t, filepath.Join(res, "ko.lproj", "Main.strings"), 100)
	writeFile(t, filepath.Join(res, "fr.lproj", "Main.strings"), 200)
	writeFile(t, filepath.Join(res, "de.lproj", "Main.strings"), 300)
	writeFile(t, filepath.Join(res, "icon.icns"), 50)
	writeFile(t, filepath.Join(apps, "NotAnApp", "Contents", "Resources", "fr.lproj", "x"), 100)

	s := NewLanguageScanner(&inventory.Inventory{Applications: []string{apps}})
	s.languages = func(context.Context) []string { return []string{"ko-KR"} }

	result, err := s.Scan(context.Background(), types.ScanOptions{})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(res, "fr.lproj"),
		filepath.Join(res, "de.lproj"),
	}, itemPaths(result.Items))
	assert.Equal(t, int64(500), result.TotalSize)
	assert.Equal(t, "ko-KR", result.Info["languages"])
	for _, item := range result.Items {
		assert.Equal(t, "Editor", column(item, "App"))
	}
}
