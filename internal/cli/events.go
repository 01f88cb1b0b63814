package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faizmokh/sejak/internal/datetime"
	"github.com/faizmokh/sejak/internal/event"
	"github.com/faizmokh/sejak/internal/reminder"
)

func newAddCommand(ctx context.Context, app *App) *cobra.Command {
	var (
		detailsFlag   string
		dateFlag      string
		timeFlag      string
		nowFlag       bool
		importantFlag bool
	)

	cmd := &cobra.Command{
		Use:   "add <title ...>",
		Short: "Start tracking the time since something happened.",
		Long:  "add stores a new event. Without --date the elapsed time counts from now; --time is read as HH:MM on that date.",
		RunE: func(cmd *cobra.Command, args []string) error {
			title := joinTitle(args)
			if title == "" {
				return event.ErrEmptyTitle
			}
			if nowFlag && (dateFlag != "" || timeFlag != "") {
				return fmt.Errorf("--now cannot be combined with --date or --time")
			}
			if err := app.Open(); err != nil {
				return err
			}

			draft := event.Draft{
				Title:              title,
				Details:            detailsFlag,
				StartDate:          dateFlag,
				StartTime:          timeFlag,
				UseCurrentDateTime: nowFlag,
				IsImportant:        importantFlag,
			}
			if nowFlag {
				draft.StartDate, draft.StartTime = datetime.Stamp(app.Now().In(app.Location()))
			}

			rec, err := app.Events().Create(ctx, draft)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q: %s\n", shortID(rec.ID), rec.Title, rec.Since(app.Now(), app.Location()))
			if rec.IsImportant {
				printReminderState(ctx, cmd, app, rec)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&detailsFlag, "details", "", "Free-form notes")
	cmd.Flags().StringVar(&dateFlag, "date", "", "Start date in DD.MM.YYYY (default: creation time)")
	cmd.Flags().StringVar(&timeFlag, "time", "", "Start time in HH:MM")
	cmd.Flags().BoolVar(&nowFlag, "now", false, "Use the current date and time as the start")
	cmd.Flags().BoolVar(&importantFlag, "important", false, "Send a daily motivational reminder")

	return cmd
}

func printReminderState(ctx context.Context, cmd *cobra.Command, app *App, rec event.Record) {
	out := cmd.OutOrStdout()

	pending, err := app.Center().Pending(ctx)
	if err == nil {
		for _, id := range pending {
			if id == reminder.ID(rec.ID) {
				fmt.Fprintf(out, "Reminder %s %s\n", id, reminder.TriggerFor(rec.StartTime, app.Now().In(app.Location())))
				return
			}
		}
	}
	fmt.Fprintln(out, "Reminder not scheduled (notifications are off or unavailable)")
}

func newListCommand(ctx context.Context, app *App) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show every event with the time elapsed since it started.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Open(); err != nil {
				return err
			}

			records, err := app.Events().List(ctx)
			if err != nil {
				return err
			}

			if jsonFlag {
				if records == nil {
					records = []event.Record{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}

			printRecords(cmd, records, app.Now(), app.Location())
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the stored records as JSON")

	return cmd
}

func newDeleteCommand(ctx context.Context, app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <index|id>",
		Short: "Remove an event and its reminder.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Open(); err != nil {
				return err
			}

			rec, err := app.Events().Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Events().Delete(ctx, rec.ID); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %q\n", shortID(rec.ID), rec.Title)
			return nil
		},
	}

	return cmd
}

func newRestartCommand(ctx context.Context, app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restart <index|id>",
		Short: "Reset an event's start to the current date and time.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Open(); err != nil {
				return err
			}

			rec, err := app.Events().Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			updated, ok, err := app.Events().Restart(ctx, rec.ID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s", event.ErrNotFound, args[0])
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Restarted %s %q: %s\n", shortID(updated.ID), updated.Title, updated.Since(app.Now(), app.Location()))
			return nil
		},
	}

	return cmd
}

// isUserError reports errors caused by input rather than the environment.
func isUserError(err error) bool {
	return errors.Is(err, event.ErrEmptyTitle) ||
		errors.Is(err, event.ErrNotFound) ||
		errors.Is(err, event.ErrAmbiguous) ||
		errors.Is(err, datetime.ErrInvalidDate) ||
		errors.Is(err, datetime.ErrInvalidTime)
}
