package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PatrikGranholm/nordiclaw/internal/version"
)

func main() {
	root := &cobra.Command{
		Use:          "nordiclaw",
		Short:        "Manuscript catalog API server and dataset tooling",
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version.Version, version.Commit, version.Date),
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newCheckCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
