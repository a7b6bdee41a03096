package main

import (
	"fmt"

	"github.com/nao1215/imgshield/internal/config"
	"github.com/nao1215/imgshield/internal/database"
	"github.com/nao1215/imgshield/internal/report"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
// This command shows the privacy scores recorded by analyze.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the privacy score history",
		Long: `History shows the privacy scores recorded by 'imgshield analyze', oldest first,
with a bar per score and the change since the previous analysis.

Only the most recent scores are kept (6 by default, see historySize in the
configuration file).

Examples:
  # Show the score history
  imgshield history

  # Show the last three scores with image names
  imgshield history -l 3 -v

  # Output the history as JSON
  imgshield history --json

  # Delete all recorded scores
  imgshield history --clear`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", 0,
		"Show only the most recent scores (0 shows all)")
	cmd.Flags().Bool("clear", false,
		"Delete all recorded scores")

	cmd.Flags().BoolP("json", "j", false,
		"Output history in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output history in Markdown format")
	cmd.Flags().String("db-dir", "",
		"Directory of the history database (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	if limit < 0 {
		return fmt.Errorf("invalid limit %d: must not be negative", limit)
	}

	clearHistory, err := cmd.Flags().GetBool("clear")
	if err != nil {
		return err
	}

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

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if clearHistory {
		if err := db.ClearScores(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Privacy score history cleared.")
		return nil
	}

	entries, err := db.ListScores(ctx, limit)
	if err != nil {
		return err
	}

	var w report.HistoryWriter
	switch {
	case jsonOutput:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case markdownOutput:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(getVerboseFlag(cmd)))
	}
	_, err = w.WriteHistory(entries)
	return err
}
