package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcus/resume-pilot/internal/session"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate tailored resume content for a session",
	RunE:  runBuild,
}

var (
	buildSessionID   string
	buildProfilePath string
	buildKeywords    []string
)

func init() {
	buildCmd.Flags().StringVarP(&buildSessionID, "session", "s", "", "Session ID (required)")
	buildCmd.Flags().StringVar(&buildProfilePath, "profile", "", "Path to a user profile JSON file (defaults to the bundled profile)")
	buildCmd.Flags().StringSliceVarP(&buildKeywords, "keywords", "k", nil, "Extra keywords to prioritize in the work experience section")

	_ = buildCmd.MarkFlagRequired("session")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
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

	sess, err := runner.Store().Open(buildSessionID)
	if err != nil {
		return err
	}

	if _, err := runner.Build(ctx, sess, buildProfilePath, buildKeywords); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote: %s\n", sess.Path(session.FileTailored))
	return nil
}
