package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

type systemAppFinder interface {
	FindSystemApp(ctx context.Context, name string) (types.SystemApp, error)
}

type loginItemFinder interface {
	FindLoginItem(ctx context.Context, label string) (types.LoginItem, error)
}

func newSystemAppsCmd(a *app) *cobra.Command {
	var f cleanFlags
	var remove string
	cmd := &cobra.Command{
		Use:   string(types.CategorySystemApps),
		Short: "List bundled Apple apps and remove the ones you do not use",
		Long: `List the applications that ship with macOS with a removal risk of safe, caution
or not-recommended. Apps marked not-recommended are never removed; caution apps
need confirmation or --force.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if remove != "" {
				return a.removeSystemApp(cmd.Context(), remove, &f)
			}
			if f.clean {
				fmt.Fprintln(a.out, "System apps are removed one at a time with --remove <name>.")
				f.clean = false
			}
			return a.runCategory(cmd.Context(), types.CategorySystemApps, &f, types.ScanOptions{})
		},
	}
	f.register(cmd, "safe, caution, not-recommended")
	cmd.Flags().StringVar(&remove, "remove", "", "Remove the app with this name or bundle identifier")
	return cmd
}

func (a *app) removeSystemApp(ctx context.Context, name string, f *cleanFlags) error {
	s, ok := a.registry.Get(types.CategorySystemApps)
	finder, isFinder := s.(systemAppFinder)
	if !ok || !isFinder {
		return fmt.Errorf("system apps cannot be looked up on this system")
	}
	app, err := finder.FindSystemApp(ctx, name)
	if err != nil {
		return err
	}

	allowCaution := f.force
	if !f.dryRun && !f.force {
		q := fmt.Sprintf("Move %s (%s) to the Trash?", app.Name, utils.FormatSize(app.Size))
		if app.Risk == types.RiskCaution {
			q = fmt.Sprintf("%s is marked caution. Move it to the Trash anyway?", app.Name)
		}
		if !confirm(a.in, a.out, q) {
			fmt.Fprintln(a.out, "Cancelled.")
			return nil
		}
		allowCaution = true
	}
	if f.dryRun && app.Risk == types.RiskCaution {
		allowCaution = true
	}

	result, err := a.apps.Remove(ctx, app, f.dryRun, allowCaution)
	if err != nil {
		if errors.Is(err, types.ErrRiskTier) {
			return fmt.Errorf("%w; %s is %s to remove", err, app.Name, app.Risk)
		}
		return err
	}
	operation := "Remove System App: " + app.Name
	fmt.Fprint(a.out, FormatCleanup(operation, result, reportWidth()))
	a.record(operation, result)
	return nil
}

func newLoginItemsCmd(a *app) *cobra.Command {
	var f cleanFlags
	var enable, disable, remove string
	cmd := &cobra.Command{
		Use:   string(types.CategoryLoginItems),
		Short: "List, enable, disable or remove launch agents and daemons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			switch {
			case enable != "":
				return a.toggleLoginItem(ctx, enable, true)
			case disable != "":
				return a.toggleLoginItem(ctx, disable, false)
			case remove != "":
				return a.removeLoginItem(ctx, remove, &f)
			}
			if f.clean {
				fmt.Fprintln(a.out, "Login items are removed one at a time with --remove <label>.")
				f.clean = false
			}
			return a.runCategory(ctx, types.CategoryLoginItems, &f, types.ScanOptions{})
		},
	}
	f.register(cmd, "user, system")
	cmd.Flags().StringVar(&enable, "enable", "", "Load the job with this label")
	cmd.Flags().StringVar(&disable, "disable", "", "Unload the job with this label")
	cmd.Flags().StringVar(&remove, "remove", "", "Unload the user job with this label and trash its plist")
	cmd.MarkFlagsMutuallyExclusive("enable", "disable", "remove")
	return cmd
}

func (a *app) findLoginItem(ctx context.Context, label string) (types.LoginItem, error) {
	s, ok := a.registry.Get(types.CategoryLoginItems)
	finder, isFinder := s.(loginItemFinder)
	if !ok || !isFinder {
		return types.LoginItem{}, fmt.Errorf("login items cannot be looked up on this system")
	}
	return finder.FindLoginItem(ctx, label)
}

func (a *app) toggleLoginItem(ctx context.Context, label string, enabled bool) error {
	item, err := a.findLoginItem(ctx, label)
	if err != nil {
		return err
	}
	if err := a.logins.SetEnabled(ctx, item, enabled); err != nil {
		return err
	}
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Fprintf(a.out, "%s %s\n", newReportStyles().Success(state), item.Label)
	return nil
}

func (a *app) removeLoginItem(ctx context.Context, label string, f *cleanFlags) error {
	item, err := a.findLoginItem(ctx, label)
	if err != nil {
		return err
	}
	if !f.dryRun && !f.force && !confirm(a.in, a.out, fmt.Sprintf("Unload %s and move its plist to the Trash?", item.Label)) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	result, err := a.logins.Remove(ctx, item, f.dryRun)
	if err != nil {
		return err
	}
	operation := "Remove Login Item: " + item.Label
	fmt.Fprint(a.out, FormatCleanup(operation, result, reportWidth()))
	a.record(operation, result)
	return nil
}
