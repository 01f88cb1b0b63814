package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faizmokh/sejak/internal/files"
	"github.com/faizmokh/sejak/internal/ics"
)

func newExportCommand(ctx context.Context, app *App) *cobra.Command {
	var outFlag string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export events as an iCalendar file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Open(); err != nil {
				return err
			}

			records, err := app.Events().List(ctx)
			if err != nil {
				return err
			}
			data := ics.Export(records, app.Now(), app.Location())

			if outFlag == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), data)
				return err
			}
			path, err := files.ExpandPath(outFlag)
			if err != nil {
				return err
			}
			if err := files.WriteAtomic(path, []byte(data), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d events to %s\n", len(records), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Write to a file instead of stdout")

	return cmd
}
