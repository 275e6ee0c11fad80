package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/micro-ha/nocontact/internal/activity"
	"github.com/micro-ha/nocontact/internal/config"
	devicedomain "github.com/micro-ha/nocontact/internal/domain/device"
	"github.com/micro-ha/nocontact/internal/logging"
	"github.com/micro-ha/nocontact/internal/model"
	"github.com/micro-ha/nocontact/internal/repository/sqldb"
	deviceservice "github.com/micro-ha/nocontact/internal/services/device"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print monitored lines and their activity status",
	Long: `Print every line of a user with its derived status.

Examples:
  nocontact status                     # Lines of DEFAULT_USER_ID
  nocontact status --user u1           # Lines of user u1
  nocontact status --state inactive    # Only silent lines`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

var (
	statusUser  string
	statusState string
	statusQuery string
)

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusUser, "user", "", "User ID (default DEFAULT_USER_ID)")
	statusCmd.Flags().StringVar(&statusState, "state", "", "Filter by state: unknown, active, inactive")
	statusCmd.Flags().StringVarP(&statusQuery, "query", "q", "", "Filter by location or phone number")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	state, err := activity.ParseState(statusState)
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	userID := strings.TrimSpace(statusUser)
	if userID == "" {
		userID = cfg.DefaultUserID
	}
	if userID == "" {
		return fmt.Errorf("--user is required when DEFAULT_USER_ID is empty")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.NewWithWriter(io.Discard, cfg.LogLevel)
	db, err := sqldb.Open(ctx, cfg.DBDriver, cfg.DSN(), logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	devices := deviceservice.New(sqldb.NewDeviceRepository(db), logger)
	views, err := devices.ListDevices(ctx, userID, devicedomain.ListFilter{State: state, Query: statusQuery})
	if err != nil {
		return err
	}
	return renderStatus(cmd.OutOrStdout(), views)
}

func renderStatus(out io.Writer, views []model.DeviceView) error {
	if len(views) == 0 {
		_, err := fmt.Fprintln(out, dimStyle.Render("No lines monitored"))
		return err
	}

	locWidth := len("LOCATION")
	phoneWidth := len("PHONE")
	for _, v := range views {
		locWidth = max(locWidth, len(v.Location))
		phoneWidth = max(phoneWidth, len(v.PhoneNumber))
	}

	header := fmt.Sprintf("%-8s  %-*s  %-*s  %-9s  %s", "STATUS", locWidth, "LOCATION", phoneWidth, "PHONE", "THRESHOLD", "DETAIL")
	if _, err := fmt.Fprintln(out, headerStyle.Render(header)); err != nil {
		return err
	}
	counts := map[activity.State]int{}
	for _, v := range views {
		counts[v.Status.State]++
		threshold := v.ThresholdHours.String()
		if v.ThresholdHours.Valid {
			threshold += "h"
		}
		detail := v.Status.Message
		if v.Status.State == activity.StateActive {
			detail = v.LastActivityLabel
		}
		if !v.Active {
			detail += " " + dimStyle.Render("(paused)")
		}
		if _, err := fmt.Fprintf(out, "%s  %-*s  %-*s  %-9s  %s\n",
			badge(v.Status.State), locWidth, v.Location, phoneWidth, v.PhoneNumber, threshold, detail); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(out, "\n%d active, %d inactive, %d unknown\n",
		counts[activity.StateActive], counts[activity.StateInactive], counts[activity.StateUnknown])
	return err
}
