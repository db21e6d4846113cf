// Package cli implements the fitmac command tree.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/2ykwang/fitmac/internal/cleaner"
	"github.com/2ykwang/fitmac/internal/config"
	"github.com/2ykwang/fitmac/internal/inventory"
	"github.com/2ykwang/fitmac/internal/logger"
	"github.com/2ykwang/fitmac/internal/oplog"
	"github.com/2ykwang/fitmac/internal/scanner"
	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/userconfig"
)

// app holds what every command needs. Fields left nil are filled by load.
type app struct {
	out         io.Writer
	in          io.Reader
	interactive bool
	debug       bool
	logToFile   bool

	inv      *inventory.Inventory
	user     *userconfig.UserConfig
	registry *scanner.Registry
	executor *cleaner.Executor
	history  *oplog.Store
	apps     *cleaner.AppRemover
	logins   *cleaner.LoginItemManager
	brew     *cleaner.BrewMaintenance
}

// NewRootCmd builds the fitmac command tree for the process's terminal.
func NewRootCmd(version string) *cobra.Command {
	a := &app{
		out:         os.Stdout,
		in:          os.Stdin,
		interactive: isTerminal(os.Stdout) && isTerminal(os.Stdin),
		logToFile:   true,
	}
	return newRootCmd(a, version)
}

func newRootCmd(a *app, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fitmac",
		Short:   "Reclaim disk space on macOS",
		Version: version,
		Long: `fitmac finds caches, junk, leftovers, duplicates and other reclaimable files
and removes them to the Trash.

Every clean is a dry run unless --dry-run=false is given.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.Close()
		},
	}
	cmd.SetOut(a.out)
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Write debug logs to "+logger.Path())

	cmd.AddCommand(
		newStatusCmd(a),
		newCategoryCmd(a, types.CategoryCache, "Scan and clean system, app, browser and developer caches", "system, app, browser, developer"),
		newCategoryCmd(a, types.CategoryJunk, "Scan and clean temp files, broken downloads, autosaves and .DS_Store files", "temp, downloads, autosave, dsstore"),
		newHomebrewCmd(a),
		newCategoryCmd(a, types.CategoryLanguage, "Scan and clean unused app localizations", ""),
		newMailCmd(a),
		newCategoryCmd(a, types.CategoryTrash, "Scan and empty Trash bins", ""),
		newLoginItemsCmd(a),
		newSystemAppsCmd(a),
		newDuplicatesCmd(a),
		newLargeCmd(a),
		newLeftoversCmd(a),
		newCategoryCmd(a, types.CategoryITunes, "Scan and clean iOS backups, podcasts and old mobile apps", "backups, podcasts, mobileapps"),
		newLogCmd(a),
	)
	return cmd
}

func (a *app) load() error {
	if a.logToFile {
		if err := logger.Init(a.debug); err != nil && a.debug {
			fmt.Fprintf(os.Stderr, "Warning: debug log unavailable: %v\n", err)
		}
	}

	if a.inv == nil {
		inv, err := config.LoadEmbedded()
		if err != nil {
			return fmt.Errorf("failed to load inventory: %w", err)
		}
		if a.user == nil {
			user, err := userconfig.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to load %s: %v\n", userconfig.Path(), err)
			}
			a.user = user
		}
		a.inv = config.Merge(inv, a.user)
	}
	if a.registry == nil {
		a.registry = scanner.DefaultRegistry(a.inv)
	}
	if a.executor == nil {
		a.executor = cleaner.NewExecutor(a.inv)
	}
	if a.history == nil {
		a.history = oplog.Default()
	}
	if a.apps == nil {
		a.apps = cleaner.NewAppRemover()
	}
	if a.logins == nil {
		a.logins = cleaner.NewLoginItemManager()
	}
	if a.brew == nil {
		a.brew = cleaner.NewBrewMaintenance()
	}
	return nil
}

func (a *app) isExcluded(cat types.Category, path string) bool {
	return a.user != nil && a.user.IsExcluded(string(cat), path)
}

func (a *app) isDisabled(cat types.Category) bool {
	return a.user != nil && a.user.IsCategoryDisabled(string(cat))
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (a *app) userDefaults() userconfig.Defaults {
	if a.user == nil {
		return userconfig.Defaults{}
	}
	return a.user.Defaults
}
