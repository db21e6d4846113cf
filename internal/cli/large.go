package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/2ykwang/fitmac/internal/scanner"
	"github.com/2ykwang/fitmac/internal/types"
)

func newLargeCmd(a *app) *cobra.Command {
	var f cleanFlags
	var (
		path    string
		minSize string
		sortBy  string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   string(types.CategoryLarge),
		Short: "Find the largest files below a folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			order := types.SortOrder(sortBy)
			if order != types.SortBySize && order != types.SortByDate {
				return fmt.Errorf("invalid --sort %q (use size or date)", sortBy)
			}

			defaults := a.userDefaults()
			if !cmd.Flags().Changed("min") && defaults.LargeMinSize != "" {
				minSize = defaults.LargeMinSize
			}
			if !cmd.Flags().Changed("limit") && defaults.LargeLimit > 0 {
				limit = defaults.LargeLimit
			}
			size, err := parseSize(minSize)
			if err != nil {
				return err
			}

			opts := types.ScanOptions{Root: path, MinSize: size, MaxResults: limit}
			result, ok, err := a.scanCategory(cmd.Context(), types.CategoryLarge, &f, opts)
			if err != nil || !ok {
				return err
			}

			shown := *result
			shown.Items = slices.Clone(result.Items)
			types.SortItems(shown.Items, order)
			fmt.Fprint(a.out, FormatScan(&shown, reportWidth(), 0))
			if !f.clean {
				return nil
			}
			return a.cleanResults(cmd.Context(), types.CategoryLarge.Name(), []*types.ScanResult{result}, &f)
		},
	}
	f.register(cmd, "")
	cmd.Flags().StringVar(&path, "path", "", "Folder to search (default home)")
	cmd.Flags().StringVar(&minSize, "min", "100MB", "Smallest file to report")
	cmd.Flags().StringVar(&sortBy, "sort", string(types.SortBySize), "Order by size or date")
	cmd.Flags().IntVar(&limit, "limit", scanner.DefaultLargeLimit, "Maximum number of files to report")
	return cmd
}
