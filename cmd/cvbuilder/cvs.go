package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/amishk599/cvbuilder/internal/model"
	"github.com/amishk599/cvbuilder/internal/tui"
)

var cvsCmd = &cobra.Command{
	Use:   "cvs",
	Short: "List saved CVs",
	Long:  "Prints a table of the CVs saved under the signed-in account.",
	RunE:  runCVs,
}

var cvListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved CVs",
	RunE:  runCVs,
}

var cvShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved CV as YAML",
	Long:  "Prints a saved CV in the same YAML format the analyze and generate commands read, so it can be edited and reused.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCVShow,
}

var cvPDFCmd = &cobra.Command{
	Use:   "pdf [id]",
	Short: "Download a saved CV as PDF",
	Long:  "Generates the PDF of a saved CV. Without an id, pick one from a list.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCVPDF,
}

func init() {
	cvsCmd.AddCommand(cvListCmd, cvShowCmd, cvPDFCmd)
	rootCmd.AddCommand(cvsCmd)
}

func requireSession(a *app) error {
	if !a.session.Active() {
		return errors.New("not signed in, run `cvbuilder login` first")
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid CV id %q", s)
	}
	return id, nil
}

func runCVs(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := requireSession(a); err != nil {
		return err
	}

	cvs, err := runTask(a, "Loading saved CVs...", a.client.ListCVs)
	if err != nil {
		return errors.New(model.Message(err))
	}
	if len(cvs) == 0 {
		fmt.Println("No saved CVs.")
		return nil
	}

	fmt.Printf("%-6s %-25s %-30s %s\n", "ID", "Name", "Email", "Created")
	fmt.Println(strings.Repeat("─", 82))
	for _, cv := range cvs {
		name := cv.Name
		if name == "" {
			name = "(Unnamed CV)"
		}
		fmt.Printf("%-6d %-25s %-30s %s\n", cv.ID, name, cv.Email, cv.CreatedAt)
	}
	fmt.Printf("\nTotal: %d CVs\n", len(cvs))
	return nil
}

func runCVShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := requireSession(a); err != nil {
		return err
	}

	raw, err := runTask(a, "Loading CV...", func(ctx context.Context) (model.RawCV, error) {
		return a.client.GetCV(ctx, id)
	})
	if err != nil {
		return errors.New(model.Message(err))
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(raw.Draft)
}

func runCVPDF(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := requireSession(a); err != nil {
		return err
	}

	var id int64
	if len(args) == 1 {
		if id, err = parseID(args[0]); err != nil {
			return err
		}
	} else {
		if id, err = pickCV(a); err != nil || id == 0 {
			return err
		}
	}

	path, err := runTask(a, "Generating PDF...", func(ctx context.Context) (string, error) {
		return a.ctrl.ExportSaved(ctx, id)
	})
	if err != nil {
		return errors.New(model.Message(err))
	}
	fmt.Printf("PDF saved to %s\n", path)
	return nil
}

// pickCV lets the user choose a saved CV. It returns 0 when nothing was chosen.
func pickCV(a *app) (int64, error) {
	if !interactive() {
		return 0, errors.New("a CV id is required when not running in a terminal")
	}
	cvs, err := runTask(a, "Loading saved CVs...", a.client.ListCVs)
	if err != nil {
		return 0, errors.New(model.Message(err))
	}
	choice, err := tui.RunCVPicker(cvs, a.theme.Mode().Palette())
	if err != nil {
		return 0, fmt.Errorf("picker: %w", err)
	}
	if choice < 0 {
		return 0, nil
	}
	return cvs[choice].ID, nil
}
