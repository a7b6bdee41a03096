package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for imgshield.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "imgshield",
		Short: "Privacy review and redaction for images",
		Long: `imgshield finds private information in images before you share them.

It uploads an image to a privacy analysis endpoint, which reads the text in
the image and rates the risk of what it finds. Metadata such as GPS
coordinates and camera serial numbers is checked locally. Regions can be
blurred or blacked out and exported as a clean PNG without metadata.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("log-format", "text", "Log format: text or json")

	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewRedactCmd())
	cmd.AddCommand(NewInspectCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
