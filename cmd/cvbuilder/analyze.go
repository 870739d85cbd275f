package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/cvbuilder/internal/model"
	"github.com/amishk599/cvbuilder/internal/tui"
)

var (
	analyzeDraft string
	analyzeJob   string
	analyzeFast  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Match a draft against a job description",
	Long: `Reads a draft from YAML and prints how well it matches the job description.
The AI analysis runs first and falls back to the fast analysis when it fails.
With --fast only the fast analysis runs.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeDraft, "draft", "d", "", "draft YAML file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeJob, "job", "j", "", "text file with the job description, overrides the draft's")
	analyzeCmd.Flags().BoolVar(&analyzeFast, "fast", false, "run the fast analysis only")
	_ = analyzeCmd.MarkFlagRequired("draft")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	draft, err := readDraft(analyzeDraft)
	if err != nil {
		return err
	}
	if analyzeJob != "" {
		job, err := os.ReadFile(analyzeJob)
		if err != nil {
			return fmt.Errorf("read job description: %w", err)
		}
		draft.JobDescription = string(job)
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	a.ctrl.SetDraft(draft)
	run := a.ctrl.Analyze
	if analyzeFast {
		run = a.ctrl.AnalyzeFast
	}
	outcome, err := runTask(a, "Analyzing...", run)
	if err != nil {
		return errors.New(model.Message(err))
	}
	if outcome.Result == nil {
		return errors.New(a.ctrl.Snapshot().Analysis.Err)
	}

	fmt.Println(tui.RenderAnalysis(outcome.Result, outcome.Strategy, a.theme.Mode().Palette(), 80))
	return nil
}
