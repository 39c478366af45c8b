package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcus/resume-pilot/internal/session"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove sessions older than the retention window",
	RunE:  runCleanup,
}

var cleanupRetentionDays int

func init() {
	cleanupCmd.Flags().IntVar(&cleanupRetentionDays, "retention-days", 0, "Override the configured retention window")
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return err
	}

	days := cfg.RetentionDays
	if cmd.Flags().Changed("retention-days") {
		days = cleanupRetentionDays
	}

	store := session.NewStore(cfg.OutputBaseDir)
	removed, err := store.Cleanup(days)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Removed %d session(s) older than %d day(s)\n", removed, days)
	return nil
}
