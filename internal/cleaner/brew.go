package cleaner

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/2ykwang/fitmac/internal/logger"
	"github.com/2ykwang/fitmac/internal/utils"
)

const brewCleanupTimeout = 5 * time.Minute

// BrewResult is the outcome of `brew cleanup`.
type BrewResult struct {
	Success bool
	Output  string
}

// BrewMaintenance runs Homebrew's own cleanup as a single unit of work.
type BrewMaintenance struct {
	timeout time.Duration
}

func NewBrewMaintenance() *BrewMaintenance {
	return &BrewMaintenance{timeout: brewCleanupTimeout}
}

// Run executes `brew cleanup --prune=all`. A dry run passes --dry-run so
// brew lists what it would remove.
func (b *BrewMaintenance) Run(ctx context.Context, dryRun bool) BrewResult {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	args := []string{"cleanup", "--prune=all"}
	if dryRun {
		args = append(args, "--dry-run")
	}
	out, err := utils.RunCommand(ctx, "brew", args...)
	output := strings.TrimSpace(string(out))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			output = strings.TrimSpace(output + "\ncommand timeout")
		} else if output == "" {
			output = err.Error()
		}
		logger.Warn("brew cleanup failed", "error", err)
		return BrewResult{Success: false, Output: output}
	}
	return BrewResult{Success: true, Output: output}
}
