package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/cvbuilder/internal/tui"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Open the interactive CV builder",
	Long:  "Opens the full-screen wizard: fill in each step, upload a photo, analyze against a job description, save and download a generated PDF.",
	RunE:  runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// The TUI owns the terminal; logs would corrupt it.
	logger := silentLogger()

	a, err := setupApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return tui.Run(tui.App{
		Controller: a.ctrl,
		Client:     a.client,
		Router:     a.router,
		Theme:      a.theme,
		Logger:     logger,
	})
}

// runTask shows a spinner for fn on a terminal and runs it plainly otherwise.
// SIGINT and SIGTERM cancel the task.
func runTask[T any](a *app, label string, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !interactive() {
		return fn(ctx)
	}
	return tui.RunTask(ctx, label, a.theme.Mode().Palette(), fn)
}
