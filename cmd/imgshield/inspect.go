package main

import (
	"fmt"

	"github.com/nao1215/imgshield/internal/config"
	"github.com/nao1215/imgshield/internal/metadata"
	"github.com/nao1215/imgshield/internal/model"
	"github.com/nao1215/imgshield/internal/pipeline"
	"github.com/nao1215/imgshield/internal/report"
	"github.com/spf13/cobra"
)

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [image...]",
		Short: "Check image metadata for privacy leaks",
		Long: `Inspect reads the EXIF metadata of each image without uploading it and
reports values that reveal more than the picture itself:
- GPS coordinates of where the photo was taken
- Camera make, model and serial numbers
- Author, owner and copyright names
- Editing software, host computer and capture time

Images exported by 'imgshield redact' carry no metadata.

Examples:
  # Inspect a photo
  imgshield inspect photo.jpg

  # Inspect several photos as JSON
  imgshield inspect --json *.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: runInspectCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runInspectCmd executes the inspect command.
func runInspectCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return fmt.Errorf("configuration error: %w", config.ErrConflictingReportFormats)
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	logger, err := setupLogger(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd, logger)
	defer cancel()

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewDigestStep(),
		pipeline.NewMetadataStep(metadata.NewInspector(), logger),
	)

	reviews := make([]*model.ImageReview, 0, len(args))
	for _, path := range args {
		review := model.NewImageReview(path)
		if err := p.Execute(ctx, review); err != nil {
			return fmt.Errorf("failed to inspect %s: %w", path, err)
		}
		reviews = append(reviews, review)
	}

	output, closeOutput, err := reportOutput(cmd, outputPath)
	if err != nil {
		return err
	}
	defer closeOutput()

	if jsonOutput {
		_, err := report.NewJSONWriter(output, report.WithPrettyPrint()).WriteBatch(reviews, getVersion())
		return err
	}

	var w report.Writer
	if markdownOutput {
		w = report.NewMarkdownWriter(output)
	} else {
		w = report.NewSimpleWriter(output, report.WithShowEmpty(true), report.WithVerbose(getVerboseFlag(cmd)))
	}
	for _, r := range reviews {
		if _, err := w.Write(r); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}
