package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amishk599/cvbuilder/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|toggle]",
	Short:     "Show or change the color theme",
	Long:      "Without an argument prints the current theme. The choice is remembered across runs.",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"light", "dark", "toggle"},
	RunE:      runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 0 {
		fmt.Println(a.theme.Mode())
		return nil
	}

	var mode theme.Mode
	if args[0] == "toggle" {
		if mode, err = a.theme.Toggle(); err != nil {
			return fmt.Errorf("save theme: %w", err)
		}
	} else {
		if mode, err = theme.ParseMode(args[0]); err != nil {
			return err
		}
		if err := a.theme.Set(mode); err != nil {
			return fmt.Errorf("save theme: %w", err)
		}
	}
	fmt.Printf("Theme set to %s.\n", mode)
	return nil
}
