//go:build darwin || linux

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDiskUsage_TempDir(t *testing.T) {
	usage, err := GetDiskUsage(t.TempDir())

	require.NoError(t, err)
	assert.Positive(t, usage.Total)
	assert.LessOrEqual(t, usage.Available, usage.Total)
	assert.GreaterOrEqual(t, usage.UsedPercent(), 0.0)
	assert.LessOrEqual(t, usage.UsedPercent(), 100.0)
}

func TestGetDiskUsage_MissingPath(t *testing.T) {
	_, err := GetDiskUsage("/definitely/not/here")

	assert.Error(t, err)
}

func TestDiskUsage_UsedPercent_ZeroTotal(t *testing.T) {
	assert.Equal(t, 0.0, DiskUsage{}.UsedPercent())
}
