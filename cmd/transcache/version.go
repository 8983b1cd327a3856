package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lingofyra/transcache"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "%s %s\n", transcache.Name, transcache.FullVersion())
			if transcache.GitCommit != "unknown" && transcache.GitCommit != "" {
				fmt.Fprintf(a.stdout, "  commit:  %s\n", transcache.GitCommit)
			}
			if transcache.BuildDate != "unknown" && transcache.BuildDate != "" {
				fmt.Fprintf(a.stdout, "  built:   %s\n", transcache.BuildDate)
			}
		},
	}
}
