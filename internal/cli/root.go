// Package cli holds the nocontact command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nocontact",
	Short: "Inactivity alerts for monitored phone lines",
	Long: `nocontact watches phone lines and flags the ones that have been silent
longer than their no-contact period.

Running without a subcommand starts the server.

Examples:
  nocontact                        # Start the HTTP server
  nocontact status --user local    # Print line statuses for a user
  nocontact interval --hours 36    # Show the stored period for 36 hours`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", errorPrefix, err)
		return 1
	}
	return 0
}
