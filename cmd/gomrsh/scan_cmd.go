// cmd/gomrsh/scan_cmd.go
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-mrsh/internal/progress"
	"github.com/creativeyann17/go-mrsh/pkg/mrsh"
)

func init() {
	rootCmd.AddCommand(scanCmd())
}

func scanCmd() *cobra.Command {
	var sf scanFlags
	var threshold int
	var against string
	var sortByScore bool
	var csv bool

	cmd := &cobra.Command{
		Use:   "scan <path>...",
		Short: "Find similar files",
		Long: `Fingerprint the given files and directories and list every pair whose
score is at least --threshold (default 50).

With --against, each scanned file is compared with every digest of a
collection file written by "gomrsh hash --output" instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			t, err := a.thresholdFlag(cmd, threshold)
			if err != nil {
				return err
			}

			files, err := collect(args, sf.options(cmd, a))
			if err != nil {
				return err
			}
			status("Scanning %d files (%s)...", len(files.Files), progress.FormatSize(files.TotalSize()))

			c, err := a.buildAll(cmd.Context(), files)
			if err != nil {
				return err
			}

			var results []mrsh.ComparisonResult
			if against != "" {
				f, err := os.Open(against)
				if err != nil {
					return err
				}
				known, err := a.engine.LoadCollection(f)
				f.Close()
				if err != nil {
					return fmt.Errorf("load %s: %w", against, err)
				}
				results, err = mrsh.CompareAcrossContext(cmd.Context(), c, known, t, a.engine.Workers())
				if err != nil {
					return err
				}
			} else {
				results, err = mrsh.CompareAllContext(cmd.Context(), c, t, a.engine.Workers())
				if err != nil {
					return err
				}
			}

			if sortByScore {
				sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
			}
			if len(results) == 0 {
				status("No pairs scored %d or more.", t)
				return nil
			}
			renderResults(os.Stdout, results, csv)
			status("%d matching pairs", len(results))
			return nil
		},
	}

	sf.register(cmd)
	cmd.Flags().IntVarP(&threshold, "threshold", "t", 50, "Minimum score to report (0-100)")
	cmd.Flags().StringVar(&against, "against", "", "Compare against a saved collection file")
	cmd.Flags().BoolVarP(&sortByScore, "sort", "s", false, "Sort pairs by descending score")
	cmd.Flags().BoolVar(&csv, "csv", false, "Print CSV instead of a table")

	return cmd
}
