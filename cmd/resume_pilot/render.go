package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a session's tailored resume to HTML and PDF",
	RunE:  runRender,
}

var renderSessionID string

func init() {
	renderCmd.Flags().StringVarP(&renderSessionID, "session", "s", "", "Session ID (required)")

	_ = renderCmd.MarkFlagRequired("session")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	runner, client, err := newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	sess, err := runner.Store().Open(renderSessionID)
	if err != nil {
		return err
	}

	pdfPath, err := runner.Render(ctx, sess)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "PDF: %s\n", pdfPath)
	return nil
}
