package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcus/resume-pilot/internal/session"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract the ideal candidate profile from a session's posting",
	RunE:  runAnalyze,
}

var (
	analyzeSessionID string
	analyzeLegacy    bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeSessionID, "session", "s", "", "Session ID (required)")
	analyzeCmd.Flags().BoolVar(&analyzeLegacy, "legacy", false, "Produce the flat structured_job_data.json instead of the ideal candidate profile")

	_ = analyzeCmd.MarkFlagRequired("session")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
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

	sess, err := runner.Store().Open(analyzeSessionID)
	if err != nil {
		return err
	}

	if analyzeLegacy {
		if _, err := runner.AnalyzeLegacy(ctx, sess); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Wrote: %s\n", sess.Path(session.FileLegacyListing))
		return nil
	}

	if _, err := runner.Analyze(ctx, sess); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote: %s\n", sess.Path(session.FileIdealProfile))
	return nil
}
