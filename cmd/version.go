package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Populated by goreleaser during build
var version = "latest"

func NewVersionCommand() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, version)
			if !verbose {
				return
			}
			info, ok := debug.ReadBuildInfo()
			if !ok {
				return
			}
			_, _ = fmt.Fprintf(w, "go: %s\n", info.GoVersion)
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs.revision", "vcs.time", "vcs.modified":
					_, _ = fmt.Fprintf(w, "%s: %s\n", setting.Key, setting.Value)
				}
			}
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also print go and vcs build information")
	return cmd
}
