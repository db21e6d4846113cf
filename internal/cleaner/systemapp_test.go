package cleaner

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2ykwang/fitmac/internal/types"
)

func newTestRemover(running bool) (*AppRemover, *[]string) {
	var trashed []string
	r := &AppRemover{
		trash: func(path string) error {
			trashed = append(trashed, path)
			return nil
		},
		isRunning: func(context.Context, string) (bool, error) { return running, nil },
	}
	return r, &trashed
}

func testApp(t *testing.T, name, id string, risk types.RiskTier) types.SystemApp {
	path := filepath.Join(t.TempDir(), name+".app")
	writeFile(t, filepath.Join(path, "Contents", "Info.plist"), 10)
	return types.SystemApp{BundleID: id, Name: name, Risk: risk, Path: path, Size: 5000}
}

func TestAppRemover_RemovesSafeApp(t *testing.T) {
	var commands [][]string
	mockRunCommand(t, func(_ context.Context, name string, args ...string) ([]byte, error) {
		commands = append(commands, append([]string{name}, args...))
		return nil, nil
	})
	r, trashed := newTestRemover(false)
	app := testApp(t, "GarageBand", "com.apple.garageband10", types.RiskSafe)

	result, err := r.Remove(context.Background(), app, false, false)

	require.NoError(t, err)
	assert.Equal(t, []string{app.Path}, *trashed)
	assert.Equal(t, int64(5000), result.FreedSpace)
	// first-party receipts are left alone
	assert.Empty(t, commands)
}

func TestAppRemover_ForgetsThirdPartyReceipt(t *testing.T) {
	var commands [][]string
	mockRunCommand(t, func(_ context.Context, name string, args ...string) ([]byte, error) {
		commands = append(commands, append([]string{name}, args...))
		return nil, nil
	})
	r, _ := newTestRemover(false)
	app := testApp(t, "Tool", "com.example.tool", types.RiskSafe)

	_, err := r.Remove(context.Background(), app, false, false)

	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"pkgutil", "--pkg-info", "com.example.tool"},
		{"pkgutil", "--forget", "com.example.tool", "--volume", "/"},
	}, commands)
}

func TestAppRemover_DryRunDoesNotTrash(t *testing.T) {
	r, trashed := newTestRemover(false)
	app := testApp(t, "iMovie", "com.apple.iMovieApp", types.RiskSafe)

	result, err := r.Remove(context.Background(), app, true, false)

	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Len(t, result.Removed, 1)
	assert.Empty(t, *trashed)
}

func TestAppRemover_Guards(t *testing.T) {
	tests := []struct {
		name         string
		app          func(t *testing.T) types.SystemApp
		running      bool
		allowCaution bool
		want         error
	}{
		{
			name: "not recommended",
			app:  func(t *testing.T) types.SystemApp { return testApp(t, "Photos", "com.apple.Photos", types.RiskNotRecommended) },
			want: types.ErrRiskTier,
		},
		{
			name: "caution without confirmation",
			app:  func(t *testing.T) types.SystemApp { return testApp(t, "Pages", "com.apple.iWork.Pages", types.RiskCaution) },
			want: types.ErrRiskTier,
		},
		{
			name: "protected identifier",
			app:  func(t *testing.T) types.SystemApp { return testApp(t, "Chrome", "com.google.Chrome", types.RiskSafe) },
			want: types.ErrProtectedItem,
		},
		{
			name: "system location",
			app: func(t *testing.T) types.SystemApp {
				return types.SystemApp{BundleID: "com.apple.Chess", Name: "Chess", Risk: types.RiskSafe, Path: "/System/Applications/Chess.app"}
			},
			want: types.ErrProtectedItem,
		},
		{
			name:         "running",
			app:          func(t *testing.T) types.SystemApp { return testApp(t, "Keynote", "com.apple.iWork.Keynote", types.RiskCaution) },
			running:      true,
			allowCaution: true,
			want:         types.ErrAppRunning,
		},
		{
			name: "not installed",
			app:  func(t *testing.T) types.SystemApp { return types.SystemApp{Name: "News", Risk: types.RiskSafe} },
			want: types.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, trashed := newTestRemover(tt.running)

			result, err := r.Remove(context.Background(), tt.app(t), false, tt.allowCaution)

			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, result)
			assert.Empty(t, *trashed)
		})
	}
}

func TestAppRemover_CautionAllowed(t *testing.T) {
	mockRunCommand(t, func(context.Context, string, ...string) ([]byte, error) { return nil, nil })
	r, trashed := newTestRemover(false)
	app := testApp(t, "Numbers", "com.apple.iWork.Numbers", types.RiskCaution)

	_, err := r.Remove(context.Background(), app, false, true)

	require.NoError(t, err)
	assert.Len(t, *trashed, 1)
}

func TestAppRemover_TrashFailureIsRecorded(t *testing.T) {
	r := &AppRemover{
		trash:     func(string) error { return errors.New("in use") },
		isRunning: func(context.Context, string) (bool, error) { return false, nil },
	}
	app := testApp(t, "Stocks", "com.apple.stocks", types.RiskSafe)

	result, err := r.Remove(context.Background(), app, false, false)

	require.NoError(t, err)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "in use", result.Failed[0].Error)
	assert.Zero(t, result.FreedSpace)
}
