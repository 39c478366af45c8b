package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcus/resume-pilot/internal/ingestion"
	"github.com/marcus/resume-pilot/internal/pipeline"
	"github.com/marcus/resume-pilot/internal/session"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full tailoring pipeline end-to-end",
	Long: `Orchestrates the entire tailoring process: fetch -> analyze -> build -> render -> score.

A failed step leaves the session at its last completed checkpoint; re-running
a stage command against the same session continues from there.`,
	RunE: runPipelineCmd,
}

var (
	runCompany     string
	runPosition    string
	runJobURL      string
	runJobFile     string
	runProfilePath string
	runKeywords    []string
	runUseBrowser  bool
)

func init() {
	runCommand.Flags().StringVarP(&runCompany, "company", "c", "", "Company name for the session directory (required)")
	runCommand.Flags().StringVarP(&runPosition, "position", "p", "", "Position title for the session directory (required)")
	runCommand.Flags().StringVar(&runJobURL, "job-url", "", "URL to fetch the job posting from (mutually exclusive with --job)")
	runCommand.Flags().StringVarP(&runJobFile, "job", "j", "", "Path to a job posting text file (mutually exclusive with --job-url)")
	runCommand.Flags().StringVar(&runProfilePath, "profile", "", "Path to a user profile JSON file (defaults to the bundled profile)")
	runCommand.Flags().StringSliceVarP(&runKeywords, "keywords", "k", nil, "Extra keywords to prioritize in the work experience section")
	runCommand.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Use headless browser for SPA job boards (requires Chrome)")

	_ = runCommand.MarkFlagRequired("company")
	_ = runCommand.MarkFlagRequired("position")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return err
	}
	if runUseBrowser {
		cfg.UseBrowser = true
	}

	src, err := postingSource()
	if err != nil {
		return err
	}

	ctx := context.Background()
	runner, client, err := newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	sess, err := runner.Run(ctx, pipeline.RunOptions{
		Company:     runCompany,
		Position:    runPosition,
		Source:      src,
		ProfilePath: runProfilePath,
		Keywords:    runKeywords,
	})
	if sess != nil {
		fmt.Fprintf(os.Stdout, "Session: %s\n", sess.ID)
		fmt.Fprintf(os.Stdout, "Checkpoint: %s\n", sess.Checkpoint())
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "PDF: %s\n", sess.Path(session.FileResumePDF))
	return nil
}

// postingSource builds the ingestion source from the --job-url/--job flags.
func postingSource() (ingestion.Source, error) {
	if runJobURL != "" && runJobFile != "" {
		return ingestion.Source{}, fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	}
	if runJobURL == "" && runJobFile == "" {
		return ingestion.Source{}, fmt.Errorf("either --job or --job-url must be provided")
	}
	if runJobURL != "" {
		return ingestion.Source{URL: runJobURL}, nil
	}
	data, err := os.ReadFile(runJobFile)
	if err != nil {
		return ingestion.Source{}, fmt.Errorf("failed to read job posting file: %w", err)
	}
	return ingestion.Source{InlineText: string(data)}, nil
}
