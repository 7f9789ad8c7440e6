// cmd/gomrsh/compare_cmd.go
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-mrsh/pkg/mrsh"
)

func init() {
	rootCmd.AddCommand(compareCmd())
}

func compareCmd() *cobra.Command {
	var digests bool

	cmd := &cobra.Command{
		Use:   "compare <a> <b>",
		Short: "Score the similarity of two files or digests",
		Long: `Compare two inputs and print a score from 0 (unrelated) to 100 (identical).

Each argument naming an existing file is fingerprinted; any other argument is
parsed as a digest line as printed by "gomrsh hash". --digests forces both
arguments to be read as digests.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			fps := make([]*mrsh.Fingerprint, 2)
			for i, arg := range args {
				if fps[i], err = a.resolve(arg, digests); err != nil {
					return err
				}
			}
			fmt.Println(mrsh.Compare(fps[0], fps[1]))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&digests, "digests", "d", false, "Treat both arguments as digest lines")
	return cmd
}

// resolve fingerprints arg when it names a file, or decodes it as a digest
func (a *app) resolve(arg string, digestOnly bool) (*mrsh.Fingerprint, error) {
	if !digestOnly {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.Mode().IsRegular():
			return a.engine.BuildFile(arg, "")
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}
	}
	fp, err := mrsh.Decode(arg)
	if err != nil {
		return nil, fmt.Errorf("%q is neither a readable file nor a digest: %w", arg, err)
	}
	return fp, nil
}
