package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the release version stamped into the binary.
const Version = "0.1.0"

const modulePath = "github.com/protrack-ai/protrack"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the protrack version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "protrack v%s\nmodule: %s\n", Version, modulePath)
		return nil
	},
}
