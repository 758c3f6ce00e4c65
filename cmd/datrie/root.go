package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "0.1.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "datrie",
		Short: "build and query double-array tries",
		Long: fmt.Sprintf(`datrie (v%s)

Builds static double-array tries from key lists and answers exact,
common prefix and predictive queries against them. Tries are stored
as raw darts-clone compatible dumps or as compressed archives, locally
or in S3 and MinIO buckets.`, Version),
		SilenceUsage: true,
	}

	cobra.OnInitialize(initConfig)
	setupGlobalFlags(root)

	root.AddCommand(newBuildCmd())
	root.AddCommand(newFindCmd())
	root.AddCommand(newPrefixCmd())
	root.AddCommand(newTraverseCmd())
	root.AddCommand(newKeysCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newRemoveCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of datrie",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "datrie v%s\n", Version)
		},
	})

	return root
}
