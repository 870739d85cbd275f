package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amishk599/cvbuilder/internal/form"
	"github.com/amishk599/cvbuilder/internal/model"
)

var (
	generateDraft string
	generatePhoto string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a PDF from a draft",
	Long:  "Reads a draft from YAML, optionally uploads a photo, and saves the generated PDF as <Name>_AI.pdf in the download directory.",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateDraft, "draft", "d", "", "draft YAML file (required)")
	generateCmd.Flags().StringVar(&generatePhoto, "photo", "", "JPG or PNG photo to upload first")
	_ = generateCmd.MarkFlagRequired("draft")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	draft, err := readDraft(generateDraft)
	if err != nil {
		return err
	}

	var photo model.PhotoFile
	if generatePhoto != "" {
		if photo, err = form.ReadPhoto(generatePhoto); err != nil {
			return err
		}
		if err := form.ValidatePhoto(photo); err != nil {
			return err
		}
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	a.ctrl.SetDraft(draft)
	if generatePhoto != "" {
		if _, err := runTask(a, "Uploading photo...", func(ctx context.Context) (struct{}, error) {
			return struct{}{}, a.ctrl.SetPhoto(ctx, photo)
		}); err != nil {
			return errors.New(model.Message(err))
		}
		if msg := a.ctrl.Snapshot().Upload.Err; msg != "" {
			return errors.New(msg)
		}
	}

	path, err := runTask(a, "Generating PDF...", a.ctrl.Generate)
	if err != nil {
		return errors.New(model.Message(err))
	}
	fmt.Printf("PDF saved to %s\n", path)
	return nil
}
