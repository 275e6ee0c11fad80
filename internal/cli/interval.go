package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/micro-ha/nocontact/internal/interval"
)

var intervalCmd = &cobra.Command{
	Use:   "interval",
	Short: "Convert between hours and the stored no-contact period",
	Long: `Convert a form value in hours into the stored period string, or read a
stored period back into hours.

Examples:
  nocontact interval --hours 24            # 24:00:00
  nocontact interval --duration 48:00:00   # 48
  nocontact interval --duration abc        # N/A (duration malformed)`,
	Args: cobra.NoArgs,
	RunE: runInterval,
}

var (
	intervalHours    int
	intervalDuration string
)

func init() {
	rootCmd.AddCommand(intervalCmd)

	intervalCmd.Flags().IntVar(&intervalHours, "hours", 0, "Whole hours to convert")
	intervalCmd.Flags().StringVar(&intervalDuration, "duration", "", "Stored period such as 24:00:00")
	intervalCmd.MarkFlagsMutuallyExclusive("hours", "duration")
	intervalCmd.MarkFlagsOneRequired("hours", "duration")
}

func runInterval(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if cmd.Flags().Changed("hours") {
		return printHours(out, intervalHours)
	}
	printDuration(out, intervalDuration)
	return nil
}

func printHours(out io.Writer, hours int) error {
	if hours < 0 {
		return fmt.Errorf("hours must be a non-negative integer, got %d", hours)
	}
	_, err := fmt.Fprintln(out, interval.HoursToDuration(hours))
	return err
}

func printDuration(out io.Writer, duration string) {
	hours, err := interval.ParseHours(duration)
	switch {
	case errors.Is(err, interval.ErrAbsent):
		fmt.Fprintf(out, "%s %s\n", interval.Hours{}, dimStyle.Render("(duration absent)"))
	case err != nil:
		fmt.Fprintf(out, "%s %s\n", interval.Hours{}, dimStyle.Render("(duration malformed)"))
	default:
		fmt.Fprintln(out, interval.Known(hours))
	}
}
