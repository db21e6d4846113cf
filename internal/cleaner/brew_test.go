package cleaner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/2ykwang/fitmac/internal/utils"
)

func mockRunCommand(t *testing.T, fn func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	t.Helper()
	original := utils.RunCommand
	utils.RunCommand = fn
	t.Cleanup(func() { utils.RunCommand = original })
}

func TestBrewMaintenance_Success(t *testing.T) {
	var got []string
	mockRunCommand(t, func(_ context.Context, name string, args ...string) ([]byte, error) {
		got = append([]string{name}, args...)
		return []byte("Removing: /opt/homebrew/Cellar/wget/1.20... (50 files, 4MB)\n"), nil
	})

	result := NewBrewMaintenance().Run(context.Background(), false)

	assert.True(t, result.Success)
	assert.Contains(t, result.Output, "Removing")
	assert.Equal(t, []string{"brew", "cleanup", "--prune=all"}, got)
}

func TestBrewMaintenance_DryRunFlag(t *testing.T) {
	var got []string
	mockRunCommand(t, func(_ context.Context, name string, args ...string) ([]byte, error) {
		got = args
		return nil, nil
	})

	NewBrewMaintenance().Run(context.Background(), true)

	assert.Equal(t, []string{"cleanup", "--prune=all", "--dry-run"}, got)
}

func TestBrewMaintenance_Failure(t *testing.T) {
	mockRunCommand(t, func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("exec: \"brew\": executable file not found in $PATH")
	})

	result := NewBrewMaintenance().Run(context.Background(), false)

	assert.False(t, result.Success)
	assert.Contains(t, result.Output, "executable file not found")
}

func TestBrewMaintenance_Timeout(t *testing.T) {
	mockRunCommand(t, func(ctx context.Context, _ string, _ ...string) ([]byte, error) {
		<-ctx.Done()
		return []byte("partial"), ctx.Err()
	})

	b := NewBrewMaintenance()
	b.timeout = 10 * time.Millisecond
	result := b.Run(context.Background(), false)

	assert.False(t, result.Success)
	assert.Contains(t, result.Output, "partial")
	assert.Contains(t, result.Output, "command timeout")
}
