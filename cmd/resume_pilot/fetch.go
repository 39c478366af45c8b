package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcus/resume-pilot/internal/ingestion"
	"github.com/marcus/resume-pilot/internal/session"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Create a session and capture the job posting into it",
	Long:  "Creates a new session directory and writes the job posting markdown into it. Later stage commands operate on the printed session ID.",
	RunE:  runFetch,
}

var (
	fetchCompany    string
	fetchPosition   string
	fetchJobURL     string
	fetchJobFile    string
	fetchUseBrowser bool
)

func init() {
	fetchCmd.Flags().StringVarP(&fetchCompany, "company", "c", "", "Company name for the session directory (required)")
	fetchCmd.Flags().StringVarP(&fetchPosition, "position", "p", "", "Position title for the session directory (required)")
	fetchCmd.Flags().StringVar(&fetchJobURL, "job-url", "", "URL to fetch the job posting from")
	fetchCmd.Flags().StringVarP(&fetchJobFile, "job", "j", "", "Path to a job posting text file")
	fetchCmd.Flags().BoolVar(&fetchUseBrowser, "use-browser", false, "Use headless browser for SPA job boards (requires Chrome)")

	_ = fetchCmd.MarkFlagRequired("company")
	_ = fetchCmd.MarkFlagRequired("position")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return err
	}
	if fetchUseBrowser {
		cfg.UseBrowser = true
	}

	var src ingestion.Source
	switch {
	case fetchJobURL != "" && fetchJobFile != "":
		return fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	case fetchJobURL != "":
		src = ingestion.Source{URL: fetchJobURL}
	case fetchJobFile != "":
		data, err := os.ReadFile(fetchJobFile)
		if err != nil {
			return fmt.Errorf("failed to read job posting file: %w", err)
		}
		src = ingestion.Source{InlineText: string(data)}
	default:
		return fmt.Errorf("either --job or --job-url must be provided")
	}

	store := session.NewStore(cfg.OutputBaseDir)
	sess, err := store.Create(fetchCompany, fetchPosition)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if _, err := ingestion.Ingest(ctx, sess, src, ingestion.Options{
		UseBrowser: cfg.UseBrowser,
		Verbose:    cfg.Verbose,
	}); err != nil {
		// Do not leave an empty session behind.
		_ = store.Remove(sess.ID)
		return err
	}

	fmt.Fprintf(os.Stdout, "Session: %s\n", sess.ID)
	fmt.Fprintf(os.Stdout, "Posting: %s\n", sess.Path(session.FilePosting))
	return nil
}
