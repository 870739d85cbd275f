package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amishk599/cvbuilder/internal/model"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the backend is reachable",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	st, err := runTask(a, "Contacting backend...", a.client.Status)
	if err != nil {
		return errors.New(model.Message(err))
	}

	signedIn := "no"
	if a.session.Active() {
		signedIn = "yes"
	}
	fmt.Printf("%-12s %s\n", "Backend", a.client.BaseURL())
	fmt.Printf("%-12s %s\n", "Status", st.Status)
	fmt.Printf("%-12s %s\n", "Server time", st.Time)
	fmt.Printf("%-12s %s\n", "Signed in", signedIn)
	return nil
}
