// cmd/gomrsh/hash_cmd.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-mrsh/internal/progress"
	"github.com/creativeyann17/go-mrsh/internal/scan"
	"github.com/creativeyann17/go-mrsh/pkg/mrsh"
)

func init() {
	rootCmd.AddCommand(hashCmd())
}

// scanFlags are the traversal flags shared by hash, scan and index add
type scanFlags struct {
	recursive  bool
	extensions []string
	gitignore  bool
	hidden     bool
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.recursive, "recursive", "r", false, "Descend into sub-directories")
	cmd.Flags().StringSliceVarP(&f.extensions, "extensions", "e", nil, "Only include files with these extensions (e.g. exe,dll)")
	cmd.Flags().BoolVar(&f.gitignore, "gitignore", false, "Skip paths matched by .gitignore files")
	cmd.Flags().BoolVar(&f.hidden, "hidden", false, "Include dot files and directories")
}

func (f *scanFlags) options(cmd *cobra.Command, a *app) scan.Options {
	opts := scan.Options{
		Recursive:     a.cfg.Scan.Recursive,
		Extensions:    a.cfg.Scan.Extensions,
		UseGitignore:  a.cfg.Scan.Gitignore,
		IncludeHidden: a.cfg.Scan.IncludeHidden,
	}
	if cmd.Flags().Changed("recursive") {
		opts.Recursive = f.recursive
	}
	if cmd.Flags().Changed("extensions") {
		opts.Extensions = f.extensions
	}
	if cmd.Flags().Changed("gitignore") {
		opts.UseGitignore = f.gitignore
	}
	if cmd.Flags().Changed("hidden") {
		opts.IncludeHidden = f.hidden
	}
	return opts
}

func hashCmd() *cobra.Command {
	var sf scanFlags
	var outputPath string
	var compression string
	var level int

	cmd := &cobra.Command{
		Use:   "hash <path>...",
		Short: "Print the similarity digest of files",
		Long: `Fingerprint every file argument (and the files of directory arguments) and
print one digest line per file. With --output the digests are saved as a
collection file instead, optionally zstd or xz compressed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			files, err := collect(args, sf.options(cmd, a))
			if err != nil {
				return err
			}
			status("Hashing %d files (%s)...", len(files.Files), progress.FormatSize(files.TotalSize()))

			c, err := a.buildAll(cmd.Context(), files)
			if err != nil {
				return err
			}

			if outputPath == "" {
				return mrsh.WriteCollection(os.Stdout, c)
			}

			if !cmd.Flags().Changed("compression") {
				compression = a.cfg.Compression
			}
			comp, ok := mrsh.ParseCompression(compression)
			if !ok {
				return fmt.Errorf("unknown compression %q (use none, zstd or xz)", compression)
			}
			if !cmd.Flags().Changed("level") {
				level = a.cfg.Level
			}

			f, err := os.Create(outputPath)
			if err != nil {
				return err
			}
			if err := mrsh.SaveCollection(f, c, comp, level); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			status("Wrote %d digests to %s (%s)", c.Len(), outputPath, comp)
			return nil
		},
	}

	sf.register(cmd)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write a collection file instead of printing digests")
	cmd.Flags().StringVarP(&compression, "compression", "c", "none", "Collection compression: none, zstd, xz")
	cmd.Flags().IntVarP(&level, "level", "l", 0, "Compression level (0 = default)")

	return cmd
}
