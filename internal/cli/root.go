package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/faizmokh/sejak/internal/files"
	"github.com/faizmokh/sejak/internal/logging"
	"github.com/faizmokh/sejak/internal/ui"
	"github.com/faizmokh/sejak/internal/version"
)

// NewRootCommand creates the top-level Cobra command to host subcommands and TUI launcher.
func NewRootCommand(ctx context.Context, app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sejak",
		Short: "Track how long it has been since things happened.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Open(); err != nil {
				return err
			}
			m := ui.NewModel(ctx, app.services())
			if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("run TUI: %w", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&app.configPath, "config", "", "Config file (default: <base>/config.yaml)")

	cmd.AddCommand(
		newAddCommand(ctx, app),
		newListCommand(ctx, app),
		newDeleteCommand(ctx, app),
		newRestartCommand(ctx, app),
		newSettingsCommand(ctx, app),
		newWatchCommand(ctx, app),
		newExportCommand(ctx, app),
		newVersionCommand(),
	)

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}

func (a *App) services() ui.Services {
	return ui.Services{
		Events:    a.events,
		Settings:  a.settings,
		Reminders: a.reminders,
		Location:  a.loc,
		Refresh:   a.cfg.Refresh,
		Now:       a.now,
	}
}

// ExecuteCommand is a thin wrapper that executes the Cobra root command.
func ExecuteCommand(ctx context.Context) (err error) {
	manager, err := files.NewManager("")
	if err != nil {
		return err
	}
	app := NewApp(manager)
	defer func() {
		if cerr := app.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	cmd := NewRootCommand(ctx, app)
	if err := cmd.Execute(); err != nil {
		if !isUserError(err) {
			logging.Get(logging.CLI).Printf("[ERROR] %s\n", err.Error())
		}
		return err
	}
	return nil
}

// Main is a helper used by cmd/sejak/main.go to keep wiring contained in one package.
func Main(ctx context.Context) {
	if err := ExecuteCommand(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
