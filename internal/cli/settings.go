package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCommand(ctx context.Context, app *App) *cobra.Command {
	var notificationsFlag string

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change reminder settings.",
		Long:  "settings prints the current settings. Turning notifications off cancels every pending reminder; turning them back on reschedules important events.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Open(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if cmd.Flags().Changed("notifications") {
				enabled, err := parseSwitch(notificationsFlag)
				if err != nil {
					return err
				}
				records, err := app.Events().List(ctx)
				if err != nil {
					return err
				}
				change, err := app.Reminders().SetEnabled(ctx, enabled, records)
				if err != nil {
					return err
				}
				switch {
				case !enabled:
					fmt.Fprintf(out, "Notifications turned off, cancelled %d reminders\n", change.Cancelled)
				case change.Scheduled > 0:
					fmt.Fprintf(out, "Notifications turned on, scheduled %d reminders\n", change.Scheduled)
				}
			}

			snap, err := app.Settings().Load(ctx)
			if err != nil {
				return err
			}
			pending, err := app.Center().Pending(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "notifications: %s\n", onOff(snap.NotificationsEnabled))
			fmt.Fprintf(out, "notifier: %s\n", app.Config().Notifier)
			fmt.Fprintf(out, "timezone: %s\n", app.Location())
			fmt.Fprintf(out, "pending reminders: %d\n", len(pending))
			return nil
		},
	}

	cmd.Flags().StringVar(&notificationsFlag, "notifications", "", "Turn reminders on or off")

	return cmd
}
