package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcus/resume-pilot/internal/session"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a session's rendered PDF against the job posting",
	RunE:  runScore,
}

var scoreSessionID string

func init() {
	scoreCmd.Flags().StringVarP(&scoreSessionID, "session", "s", "", "Session ID (required)")

	_ = scoreCmd.MarkFlagRequired("session")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
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

	sess, err := runner.Store().Open(scoreSessionID)
	if err != nil {
		return err
	}

	report, err := runner.Score(ctx, sess)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Score: %d/100\n", report.Score)
	fmt.Fprintf(os.Stdout, "Report: %s\n", sess.Path(session.FileMatchReport))
	return nil
}
