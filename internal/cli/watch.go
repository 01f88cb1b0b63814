package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/faizmokh/sejak/internal/reminder"
)

func newWatchCommand(ctx context.Context, app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Deliver reminders in the foreground until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Open(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			center := app.Center()
			if err := center.Start(ctx); err != nil {
				return err
			}
			defer center.Stop()

			requests, err := center.Requests(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printWatchList(out, requests, center.Upcoming(), app.Location())

			<-ctx.Done()
			fmt.Fprintln(out, "Stopped")
			return nil
		},
	}

	return cmd
}

func printWatchList(out io.Writer, requests []reminder.Request, upcoming map[string]time.Time, loc *time.Location) {
	fmt.Fprintf(out, "Watching %d reminders, press Ctrl+C to stop\n", len(requests))
	for _, req := range requests {
		fmt.Fprintf(out, "  %s: %s, %s", req.ID, req.Title, req.Trigger)
		if next := upcoming[req.ID]; !next.IsZero() {
			fmt.Fprintf(out, ", next at %s", next.In(loc).Format("02.01.2006 15:04"))
		}
		fmt.Fprintln(out)
	}
}
