// cmd/gomrsh/version_cmd.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-mrsh/pkg/mrsh"
)

func init() {
	rootCmd.AddCommand(versionCmd())
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gomrsh %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
			fmt.Printf("profiles: %v (default %q)\n", mrsh.ProfileNames(), mrsh.DefaultProfileName)
		},
	}
}
