// cmd/gomrsh/index_cmd.go
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-mrsh/internal/index"
	"github.com/creativeyann17/go-mrsh/internal/progress"
)

func init() {
	rootCmd.AddCommand(indexCmd())
}

func indexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Maintain a persistent digest index",
		Long: `Store digests in an index file and look up similar files later.
Entries are keyed by label (the file path); adding a path again replaces it.`,
	}
	cmd.AddCommand(indexAddCmd(), indexQueryCmd(), indexListCmd(), indexRemoveCmd())
	return cmd
}

func indexAddCmd() *cobra.Command {
	var sf scanFlags

	cmd := &cobra.Command{
		Use:   "add <index> <path>...",
		Short: "Fingerprint files and store them in the index",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			files, err := collect(args[1:], sf.options(cmd, a))
			if err != nil {
				return err
			}
			c, err := a.buildAll(cmd.Context(), files)
			if err != nil {
				return err
			}

			store, err := index.Open(args[0])
			if err != nil {
				return err
			}
			defer store.Close()

			for _, fp := range c.Fingerprints() {
				if _, err := store.Put(fp); err != nil {
					return err
				}
			}
			stats := store.Stats()
			status("Indexed %d files (%d new, %d replaced, %s read)",
				c.Len(), stats.Added, stats.Replaced, progress.FormatSize(files.TotalSize()))
			return nil
		},
	}
	sf.register(cmd)
	return cmd
}

func indexQueryCmd() *cobra.Command {
	var threshold int
	var csv bool

	cmd := &cobra.Command{
		Use:   "query <index> <file-or-digest>...",
		Short: "List indexed entries similar to the given inputs",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			t, err := a.thresholdFlag(cmd, threshold)
			if err != nil {
				return err
			}

			store, err := index.Open(args[0])
			if err != nil {
				return err
			}
			defer store.Close()

			for _, arg := range args[1:] {
				fp, err := a.resolve(arg, false)
				if err != nil {
					return err
				}
				results, err := store.Query(cmd.Context(), fp, t, a.engine.Workers())
				if err != nil {
					return err
				}
				if len(results) == 0 {
					status("%s: no match scored %d or more", fp.Label(), t)
					continue
				}
				renderResults(os.Stdout, results, csv)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&threshold, "threshold", "t", 50, "Minimum score to report (0-100)")
	cmd.Flags().BoolVar(&csv, "csv", false, "Print CSV instead of a table")
	return cmd
}

func indexListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <index>",
		Short: "List indexed entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := index.Open(args[0])
			if err != nil {
				return err
			}
			defer store.Close()

			c, err := store.Collection()
			if err != nil {
				return err
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.SetStyle(table.StyleRounded)
			tw.AppendHeader(table.Row{"#", "Label", "Profile", "Size", "Bit-sets"})
			for i, fp := range c.Fingerprints() {
				tw.AppendRow(table.Row{i + 1, fp.Label(), fp.Profile(), progress.FormatSize(fp.Size()), strconv.Itoa(fp.BitSetCount())})
			}
			tw.Render()
			return nil
		},
	}
}

func indexRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <index> <label>...",
		Short: "Remove entries from the index",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := index.Open(args[0])
			if err != nil {
				return err
			}
			defer store.Close()

			for _, label := range args[1:] {
				found, err := store.Delete(label)
				if err != nil {
					return err
				}
				if !found {
					fmt.Fprintf(os.Stderr, "%s: not indexed\n", label)
				}
			}
			return nil
		},
	}
}
